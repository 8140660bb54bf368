package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"distpack/internal/config"
	"distpack/internal/paths"
)

var cleanDryRun bool

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove the distribution directory and generated archives",
		RunE:  runClean,
	}

	cmd.PersistentFlags().BoolVar(&cleanDryRun, "dry-run", false, "List what would be removed without deleting")

	cmd.AddCommand(newCleanLogsCmd())
	cmd.AddCommand(newCleanAllCmd())

	return cmd
}

func newCleanLogsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logs",
		Short: "Remove all log files",
		RunE:  runCleanLogs,
	}
}

func newCleanAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Remove the distribution directory, archives, and logs",
		RunE:  runCleanAll,
	}
}

type cleanResult struct {
	Removed    int   `json:"removed"`
	FreedBytes int64 `json:"freed_bytes"`
	Skipped    int   `json:"skipped"`
	DryRun     bool  `json:"dry_run"`
}

func runClean(cmd *cobra.Command, _ []string) error {
	pp, cfg, err := resolveCleanPaths()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	removeDist(pp, out, &result)
	removeArchives(pp, cfg, out, &result)

	return writeCleanResult(out, "dist", result)
}

func runCleanLogs(cmd *cobra.Command, _ []string) error {
	pp, _, err := resolveCleanPaths()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	removeTree(pp.LogsDir, out, &result)

	return writeCleanResult(out, "logs", result)
}

func runCleanAll(cmd *cobra.Command, _ []string) error {
	pp, cfg, err := resolveCleanPaths()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	result := cleanResult{DryRun: cleanDryRun}

	removeDist(pp, out, &result)
	removeArchives(pp, cfg, out, &result)
	removeTree(pp.LogsDir, out, &result)

	return writeCleanResult(out, "all", result)
}

// resolveCleanPaths loads the config when one exists so clean honors a
// relocated dist dir and archive prefix, and falls back to defaults when the
// project was never initialized.
func resolveCleanPaths() (paths.ProjectPaths, config.Config, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return pp, config.Config{}, err
	}
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return pp, config.Config{}, fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return pp, config.Config{}, fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	cfg := config.Default()
	hasConfig, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return pp, cfg, fmt.Errorf("check config: %w", err)
	}
	if hasConfig {
		cfg, err = config.Load(pp.ConfigFile)
		if err != nil {
			return pp, cfg, err
		}
	}
	pp = paths.ApplyConfig(pp, cfg)
	return pp, cfg, nil
}

func removeDist(pp paths.ProjectPaths, out io.Writer, result *cleanResult) {
	removeTree(pp.DistDir, out, result)
	if !cleanDryRun {
		os.RemoveAll(pp.DistDir)
	}
}

func removeArchives(pp paths.ProjectPaths, cfg config.Config, out io.Writer, result *cleanResult) {
	prefix := cfg.ArchivePrefix()
	if prefix == "" {
		return
	}
	matches, _ := filepath.Glob(filepath.Join(pp.Root, prefix+"-*.tar.gz"))
	sort.Strings(matches)
	for _, path := range matches {
		removeFileEntry(path, out, result)
	}
}

func removeTree(root string, out io.Writer, result *cleanResult) {
	files, err := listFiles(root)
	if err != nil {
		return
	}
	for _, path := range files {
		removeFileEntry(path, out, result)
	}
}

func listFiles(root string) ([]string, error) {
	exists, err := paths.DirExists(root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

func removeFileEntry(path string, out io.Writer, result *cleanResult) {
	info, err := os.Stat(path)
	if err != nil {
		result.Skipped++
		return
	}
	size := info.Size()

	if cleanDryRun {
		fmt.Fprintf(out, "would remove %s (%s)\n", path, formatSize(size))
		result.Removed++
		result.FreedBytes += size
		return
	}

	if err := os.Remove(path); err != nil {
		if !outputJSON {
			fmt.Fprintf(out, "error removing %s: %v\n", path, err)
		}
		result.Skipped++
		return
	}

	result.Removed++
	result.FreedBytes += size
	if !outputJSON {
		fmt.Fprintf(out, "removed %s (%s)\n", path, formatSize(size))
	}
}

func writeCleanResult(out io.Writer, label string, result cleanResult) error {
	if outputJSON {
		return json.NewEncoder(out).Encode(result)
	}

	action := "complete"
	if cleanDryRun {
		action = "(dry run)"
	}
	fmt.Fprintf(out, "\nClean %s %s: %d removed, %s freed, %d skipped\n",
		label, action, result.Removed, formatSize(result.FreedBytes), result.Skipped)
	return nil
}
