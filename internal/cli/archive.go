package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"distpack/internal/archive"
	"distpack/internal/tui"
)

var (
	archiveConcurrency int
	archiveNoProgress  bool
	archiveOutput      string
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Pack the project and write the distributable tar.gz",
		RunE:  runArchive,
	}

	cmd.Flags().IntVar(&archiveConcurrency, "concurrency", 4, "Concurrent dependency report loads")
	cmd.Flags().BoolVar(&archiveNoProgress, "no-progress", false, "Disable interactive progress output")
	cmd.Flags().StringVarP(&archiveOutput, "output", "o", "", "Write the archive to this path instead of the project root")

	return cmd
}

func runArchive(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, cfg, runLog, err := openProject()
	if err != nil {
		return err
	}
	defer runLog.Close()

	res, err := executePipeline(ctx, cmd, pp, cfg, runLog.Logger, archiveConcurrency, archiveNoProgress)
	if err != nil {
		return err
	}

	stem := cfg.ArchiveStem()
	writer := &archive.Writer{Paths: res.paths, Log: runLog.Logger}

	status := tui.NewStatusWriter(cmd.ErrOrStderr())
	status.Update(fmt.Sprintf("Archiving %s...", stem))

	var dest string
	if archiveOutput != "" {
		dest, err = writer.WriteFile(stem, resolveProjectRelative(res.paths.Root, archiveOutput))
	} else {
		dest, err = writer.Write(stem)
	}
	status.Stop()
	if err != nil {
		return err
	}

	if outputJSON {
		return writeArchiveJSON(cmd, res, stem, dest)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "archived %s -> %s\n", stem, dest)
	return nil
}

func writeArchiveJSON(cmd *cobra.Command, res *pipelineResult, stem, dest string) error {
	payload := struct {
		Project string `json:"project"`
		Stem    string `json:"stem"`
		Archive string `json:"archive"`
		Summary struct {
			Staged  int `json:"staged"`
			Scripts int `json:"scripts"`
		} `json:"summary"`
	}{
		Project: res.paths.Root,
		Stem:    stem,
		Archive: dest,
	}
	payload.Summary.Staged = len(res.items)
	payload.Summary.Scripts = len(res.scripts)

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode archive json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
