package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"distpack/internal/logx"
	"distpack/internal/paths"
)

// starterConfigYAML is the commented manifest written by `distpack init`.
// It parses to a valid config; edit name, app_version, and the project list.
const starterConfigYAML = `# distpack configuration. Run ` + "`distpack validate`" + ` after editing.
version: 1

# Distribution identity. Both fields are required.
name: myapp
app_version: 0.1.0

# Launchers to generate: program name -> JVM main class.
programs:
  myapp: com.example.Main

# Per-program JVM options and extra classpath entries.
# jvm_opts:
#   myapp: ["-Xmx1g"]
# extra_classpath:
#   myapp: ["${PROG_HOME}/etc"]

# Projects contributing jars and dependency reports. The first entry is the
# root unless ` + "`root:`" + ` names another.
projects:
  - name: myapp
    dir: .
    jars:
      - target/myapp-0.1.0.jar
    report: target/dependency-report.json

jars:
  # Packaged dependency file names: default | original | full | no-version
  name_convention: default

dist:
  dir: dist
  resource_dirs:
    - src/pack

scripts:
  windows: true
  # expanded_classpath: true
  # mac_icon_file: icon.png

# archive:
#   prefix: myapp
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a distpack project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}

	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}

	return cwd, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	runLog, err := logx.Open(pp)
	if err != nil {
		return err
	}
	defer runLog.Close()
	runLog.Printf("distpack init: project=%s", pp.Root)

	created := make([]string, 0, 2)

	if err := ensureConfig(pp, &created, runLog); err != nil {
		return err
	}
	if err := ensureResourceDir(pp, &created, runLog); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}

	return nil
}

func ensureConfig(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists {
		logger.Printf("config exists: %s", pp.ConfigFile)
		return nil
	}

	if err := os.WriteFile(pp.ConfigFile, []byte(starterConfigYAML), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	logger.Printf("created config: %s", pp.ConfigFile)
	*created = append(*created, "distpack.yaml")
	return nil
}

func ensureResourceDir(pp paths.ProjectPaths, created *[]string, logger Logger) error {
	dir := filepath.Join(pp.Root, "src", "pack")
	exists, err := paths.DirExists(dir)
	if err != nil {
		return fmt.Errorf("check resource dir: %w", err)
	}
	if exists {
		logger.Printf("resource dir exists: %s", dir)
		return nil
	}

	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0o755); err != nil {
		return fmt.Errorf("create resource dir: %w", err)
	}
	logger.Printf("created resource dir: %s", dir)
	*created = append(*created, "src/pack/")
	return nil
}

// Logger keeps the subset of log.Logger used locally, enabling easy testing.
type Logger interface {
	Printf(format string, v ...any)
}
