package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"distpack/internal/config"
	"distpack/internal/layout"
	"distpack/internal/launch"
	"distpack/internal/logx"
	"distpack/internal/paths"
	"distpack/internal/project"
	"distpack/internal/tui"
	"distpack/pkg/jarname"
)

var (
	packConcurrency int
	packNoProgress  bool
)

func newPackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Build the distribution layout and launch scripts",
		RunE:  runPack,
	}

	cmd.Flags().IntVar(&packConcurrency, "concurrency", 4, "Concurrent dependency report loads")
	cmd.Flags().BoolVar(&packNoProgress, "no-progress", false, "Disable interactive progress output")

	return cmd
}

func runPack(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, cfg, runLog, err := openProject()
	if err != nil {
		return err
	}
	defer runLog.Close()

	res, err := executePipeline(ctx, cmd, pp, cfg, runLog.Logger, packConcurrency, packNoProgress)
	if err != nil {
		return err
	}

	if outputJSON {
		return writePackJSON(cmd, res)
	}
	if res.mode == tui.ModeTUI {
		writePackSummary(cmd.OutOrStdout(), res)
	} else {
		writePackOutput(cmd, res)
	}
	return nil
}

// openProject resolves the project paths, requires a config file, and opens
// the per-run log.
func openProject() (paths.ProjectPaths, config.Config, *logx.RunLog, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return pp, config.Config{}, nil, err
	}

	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return pp, config.Config{}, nil, fmt.Errorf("check config: %w", err)
	}
	if !exists {
		return pp, config.Config{}, nil, fmt.Errorf("no distpack.yaml found at %s; run `distpack init` first", pp.ConfigFile)
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return pp, cfg, nil, err
	}
	pp = paths.ApplyConfig(pp, cfg)

	if err := pp.EnsureMetaDirs(); err != nil {
		return pp, cfg, nil, err
	}

	runLog, err := logx.Open(pp)
	if err != nil {
		return pp, cfg, nil, err
	}
	return pp, cfg, runLog, nil
}

type pipelineResult struct {
	paths   paths.ProjectPaths
	deps    []project.Dep
	items   []layout.Item
	scripts []string
	mode    tui.OutputMode
}

// executePipeline runs collection, layout staging, and script generation.
// Validation errors abort before anything is written.
func executePipeline(ctx context.Context, cmd *cobra.Command, pp paths.ProjectPaths, cfg config.Config, logger *log.Logger, concurrency int, noProgress bool) (*pipelineResult, error) {
	if err := gateValidation(cmd, pp, cfg, logger); err != nil {
		return nil, err
	}

	convention, err := jarname.ParseConvention(cfg.Jars.NameConvention)
	if err != nil {
		return nil, err
	}

	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	status.Update("Loading dependency reports...")

	var ordered []config.ProjectConfig
	if len(cfg.Projects) > 0 {
		graph := project.NewGraph(cfg)
		ordered, err = graph.Reachable(cfg.RootProject())
		if err != nil {
			status.Stop()
			return nil, err
		}
	}

	set, err := project.Collect(ctx, pp.Root, ordered, project.Options{
		Concurrency: concurrency,
		Classifiers: cfg.Jars.Classifiers,
		Log:         logger,
	})
	if err != nil {
		status.Stop()
		return nil, err
	}
	deps := set.Deps()

	projectJars := project.ProjectJars(pp.Root, ordered)
	unmanaged := resolveAll(pp.Root, cfg.Jars.Unmanaged)
	resourceDirs := resolveAll(pp.Root, cfg.Dist.ResourceDirs)

	builder := &layout.Builder{Paths: pp, Log: logger}
	items, err := builder.Plan(layout.Inputs{
		ProjectJars:  projectJars,
		Deps:         deps,
		Convention:   convention,
		Unmanaged:    unmanaged,
		ExtraFiles:   extraMappings(pp.Root, cfg.Dist.ExtraFiles),
		ResourceDirs: resourceDirs,
	})
	if err != nil {
		status.Stop()
		return nil, err
	}

	gen := &launch.Generator{Paths: pp, Log: logger}
	launchIn := launch.Inputs{
		ProjectName:  cfg.Name,
		Version:      cfg.AppVersion,
		Entries:      buildLaunchEntries(cfg),
		LibJars:      expandedLibJars(projectJars, deps, convention, unmanaged),
		Expanded:     cfg.Scripts.ExpandedClasspath,
		Windows:      cfg.Scripts.WindowsValue(),
		MacIconFile:  cfg.Scripts.MacIconFile,
		ResourceDirs: resourceDirs,
		Overrides:    templateOverrides(pp.Root, cfg.Scripts),
	}

	outWriter := cmd.OutOrStdout()
	mode := tui.DetectMode(outWriter, noProgress, outputJSON)
	status.Stop()

	res := &pipelineResult{paths: pp, deps: deps, items: items, mode: mode}

	work := func(send func(tea.Msg)) error {
		buildOpts := layout.Options{}
		genOpts := launch.Options{}
		if send != nil {
			buildOpts.Reporter = tui.NewStageReporter(send, stageStartFields("staging"), stageCompleteFields("staged"))
			genOpts.Reporter = tui.NewStageReporter(send, stageStartFields("generating"), stageCompleteFields("generated"))
		}
		if err := builder.Build(ctx, items, buildOpts); err != nil {
			return err
		}
		scripts, err := gen.Generate(ctx, launchIn, genOpts)
		res.scripts = scripts
		if err != nil {
			return err
		}
		return builder.MarkExecutables(cfg.Dist.WorldExecutableValue())
	}

	if mode == tui.ModeTUI {
		fmt.Fprintf(outWriter, "Project: %s\n", pp.Root)
		model := buildPackModel(items, launchIn.PlannedFiles())
		var workErr error
		if err := tui.RunWithWork(outWriter, model, func(send func(tea.Msg)) {
			if workErr = work(send); workErr != nil {
				send(tui.ErrorMsg{Err: workErr})
			}
		}); err != nil {
			return nil, err
		}
		if workErr != nil {
			return nil, workErr
		}
	} else {
		if err := work(nil); err != nil {
			return nil, err
		}
	}

	logger.Printf("pack complete: %d files staged, %d scripts generated", len(res.items), len(res.scripts))
	return res, nil
}

// gateValidation aborts the pipeline on error-level findings and logs the
// warnings, so a pack never runs against a config validate would reject.
func gateValidation(cmd *cobra.Command, pp paths.ProjectPaths, cfg config.Config, logger *log.Logger) error {
	results := cfg.ValidateStrict(pp.Root)
	errors := 0
	for _, res := range results {
		if res.Level == "error" {
			errors++
			fmt.Fprintf(cmd.ErrOrStderr(), "config error: %s\n", res.Message)
			continue
		}
		logger.Printf("config warning: %s", res.Message)
	}
	if errors > 0 {
		return fmt.Errorf("configuration has %d error(s); run `distpack validate` for details", errors)
	}
	return nil
}

// buildLaunchEntries orders programs by name so generation and progress rows
// are stable run to run.
func buildLaunchEntries(cfg config.Config) []launch.Entry {
	names := make([]string, 0, len(cfg.Programs))
	for name := range cfg.Programs {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]launch.Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, launch.Entry{
			Name:           name,
			MainClass:      cfg.Programs[name],
			JvmOpts:        cfg.JvmOpts[name],
			ExtraClasspath: cfg.ExtraClasspath[name],
		})
	}
	return entries
}

// expandedLibJars lists the lib/ base names in classpath order: project jars,
// then renamed dependencies, then unmanaged jars.
func expandedLibJars(projectJars []string, deps []project.Dep, convention jarname.Convention, unmanaged []string) []string {
	jars := make([]string, 0, len(projectJars)+len(deps)+len(unmanaged))
	for _, jar := range projectJars {
		jars = append(jars, filepath.Base(jar))
	}
	for _, dep := range deps {
		jars = append(jars, dep.Identity.FileName(convention))
	}
	for _, jar := range unmanaged {
		jars = append(jars, filepath.Base(jar))
	}
	return jars
}

func resolveAll(root string, values []string) []string {
	resolved := make([]string, 0, len(values))
	for _, value := range values {
		resolved = append(resolved, resolveProjectRelative(root, value))
	}
	return resolved
}

func resolveProjectRelative(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

func extraMappings(root string, extras []config.ExtraFileConfig) []layout.Mapping {
	mappings := make([]layout.Mapping, 0, len(extras))
	for _, extra := range extras {
		mappings = append(mappings, layout.Mapping{
			Src:  resolveProjectRelative(root, extra.Src),
			Dest: extra.Dest,
		})
	}
	return mappings
}

func templateOverrides(root string, scripts config.ScriptsConfig) launch.Overrides {
	overrides := launch.Overrides{}
	if scripts.BashTemplate != "" {
		overrides.Bash = resolveProjectRelative(root, scripts.BashTemplate)
	}
	if scripts.BatTemplate != "" {
		overrides.Bat = resolveProjectRelative(root, scripts.BatTemplate)
	}
	if scripts.MakeTemplate != "" {
		overrides.Makefile = resolveProjectRelative(root, scripts.MakeTemplate)
	}
	return overrides
}

var packColumns = []tui.Column{
	{Header: "FILE", Width: 36},
	{Header: "STATUS", Width: 10},
	{Header: "KIND", Width: 12},
}

func buildPackModel(items []layout.Item, scripts []string) tui.ProgressModel {
	model := tui.NewProgressModel("pack", packColumns)
	for _, item := range items {
		model.AddRow(item.Name, []string{item.Name, "pending", string(item.Kind)})
	}
	for _, name := range scripts {
		model.AddRow(name, []string{name, "pending", "script"})
	}
	return model
}

func stageStartFields(status string) func(string) map[string]string {
	return func(string) map[string]string {
		return map[string]string{"STATUS": status}
	}
}

func stageCompleteFields(status string) func(string, error) map[string]string {
	return func(_ string, err error) map[string]string {
		if err != nil {
			return map[string]string{"STATUS": "error"}
		}
		return map[string]string{"STATUS": status}
	}
}

func writePackOutput(cmd *cobra.Command, res *pipelineResult) {
	out := cmd.OutOrStdout()
	for _, item := range res.items {
		fmt.Fprintf(out, "staged %-12s %s\n", item.Kind, item.Name)
	}
	for _, name := range res.scripts {
		fmt.Fprintf(out, "generated %s\n", name)
	}
	writePackSummary(out, res)
}

func writePackSummary(out io.Writer, res *pipelineResult) {
	fmt.Fprintf(out, "packed %d files and %d scripts into %s\n", len(res.items), len(res.scripts), res.paths.DistDir)
}

type packJSONItem struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
}

func writePackJSON(cmd *cobra.Command, res *pipelineResult) error {
	payload := struct {
		Project string         `json:"project"`
		DistDir string         `json:"dist_dir"`
		Items   []packJSONItem `json:"items"`
		Scripts []string       `json:"scripts"`
		Summary struct {
			Staged       int `json:"staged"`
			Scripts      int `json:"scripts"`
			Dependencies int `json:"dependencies"`
		} `json:"summary"`
	}{
		Project: res.paths.Root,
		DistDir: res.paths.DistDir,
		Items:   make([]packJSONItem, 0, len(res.items)),
		Scripts: res.scripts,
	}
	for _, item := range res.items {
		payload.Items = append(payload.Items, packJSONItem{
			Kind:   string(item.Kind),
			Name:   item.Name,
			Source: item.Source,
		})
	}
	payload.Summary.Staged = len(res.items)
	payload.Summary.Scripts = len(res.scripts)
	payload.Summary.Dependencies = len(res.deps)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode pack json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
