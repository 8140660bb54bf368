package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"distpack/internal/config"
	"distpack/internal/project"
	"distpack/internal/tui"
	"distpack/pkg/jarname"
)

var depsConcurrency int

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Collect and list the resolved runtime dependencies",
		RunE:  runDeps,
	}

	cmd.Flags().IntVar(&depsConcurrency, "concurrency", 4, "Concurrent dependency report loads")

	return cmd
}

func runDeps(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, cfg, runLog, err := openProject()
	if err != nil {
		return err
	}
	defer runLog.Close()

	convention, err := jarname.ParseConvention(cfg.Jars.NameConvention)
	if err != nil {
		return err
	}

	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	status.Update("Loading dependency reports...")

	var ordered []config.ProjectConfig
	if len(cfg.Projects) > 0 {
		graph := project.NewGraph(cfg)
		ordered, err = graph.Reachable(cfg.RootProject())
		if err != nil {
			status.Stop()
			return err
		}
	}

	set, err := project.Collect(ctx, pp.Root, ordered, project.Options{
		Concurrency: depsConcurrency,
		Classifiers: cfg.Jars.Classifiers,
		Log:         runLog.Logger,
	})
	status.Stop()
	if err != nil {
		return err
	}
	deps := set.Deps()

	if outputJSON {
		return writeDepsJSON(cmd, pp.Root, deps, convention)
	}
	writeDepsTable(cmd, deps, convention)
	return nil
}

func writeDepsTable(cmd *cobra.Command, deps []project.Dep, convention jarname.Convention) {
	out := cmd.OutOrStdout()

	if len(deps) == 0 {
		fmt.Fprintln(out, "No dependencies resolved.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MODULE\tCLASSIFIER\tLIB NAME\tPROJECT")
	for _, dep := range deps {
		module := fmt.Sprintf("%s:%s:%s", dep.Identity.Organization, dep.Identity.Name, dep.Identity.Revision)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			module,
			nonEmptyOrDash(dep.Identity.Classifier),
			dep.Identity.FileName(convention),
			dep.Project,
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\n%d dependencies\n", len(deps))
}

type depsJSONRow struct {
	Organization string `json:"organization"`
	Name         string `json:"name"`
	Revision     string `json:"revision"`
	Classifier   string `json:"classifier,omitempty"`
	LibName      string `json:"lib_name"`
	File         string `json:"file"`
	Project      string `json:"project"`
}

func writeDepsJSON(cmd *cobra.Command, root string, deps []project.Dep, convention jarname.Convention) error {
	payload := struct {
		Project      string        `json:"project"`
		Dependencies []depsJSONRow `json:"dependencies"`
		Summary      struct {
			Total int `json:"total"`
		} `json:"summary"`
	}{
		Project:      root,
		Dependencies: make([]depsJSONRow, 0, len(deps)),
	}
	for _, dep := range deps {
		payload.Dependencies = append(payload.Dependencies, depsJSONRow{
			Organization: dep.Identity.Organization,
			Name:         dep.Identity.Name,
			Revision:     dep.Identity.Revision,
			Classifier:   dep.Identity.Classifier,
			LibName:      dep.Identity.FileName(convention),
			File:         dep.File,
			Project:      dep.Project,
		})
	}
	payload.Summary.Total = len(deps)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode deps json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
