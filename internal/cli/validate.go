package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"distpack/internal/config"
	"distpack/internal/paths"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the project configuration",
		RunE:  runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return err
	}

	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if !exists {
		return fmt.Errorf("no distpack.yaml found at %s; run `distpack init` first", pp.ConfigFile)
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return err
	}

	results := cfg.ValidateStrict(pp.Root)
	errors, warnings := countValidation(results)

	if outputJSON {
		if err := writeValidateJSON(cmd, pp.Root, results, errors, warnings); err != nil {
			return err
		}
	} else {
		writeValidateTable(cmd, pp.Root, results, errors, warnings)
	}

	if errors > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errors)
	}
	return nil
}

func countValidation(results []config.ValidationResult) (errors, warnings int) {
	for _, res := range results {
		switch res.Level {
		case "error":
			errors++
		case "warning":
			warnings++
		}
	}
	return errors, warnings
}

func writeValidateJSON(cmd *cobra.Command, project string, results []config.ValidationResult, errors, warnings int) error {
	payload := struct {
		Project string                    `json:"project"`
		Results []config.ValidationResult `json:"results"`
		Summary struct {
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
		} `json:"summary"`
	}{
		Project: project,
		Results: results,
	}
	payload.Summary.Errors = errors
	payload.Summary.Warnings = warnings

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode validation json: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func writeValidateTable(cmd *cobra.Command, project string, results []config.ValidationResult, errors, warnings int) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", project)

	if len(results) == 0 {
		fmt.Fprintln(out, "Configuration OK")
		return
	}

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tMESSAGE")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%s\n", res.Level, res.Message)
	}
	w.Flush()

	fmt.Fprintf(out, "Errors: %d, Warnings: %d\n", errors, warnings)
}
