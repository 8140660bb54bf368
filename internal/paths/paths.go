package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"distpack/internal/config"
)

// ProjectPaths captures canonical locations for a distpack project.
type ProjectPaths struct {
	Root         string
	ConfigFile   string
	MetaDir      string
	LogsDir      string
	DistDir      string
	LibDir       string
	BinDir       string
	MakefilePath string
	VersionFile  string
}

// Resolve determines the project root using the optional --project flag or the
// current working directory when the flag is empty.
func Resolve(projectFlag string) (ProjectPaths, error) {
	var (
		root string
		err  error
	)

	if projectFlag != "" {
		root, err = filepath.Abs(projectFlag)
	} else {
		root, err = os.Getwd()
	}
	if err != nil {
		return ProjectPaths{}, fmt.Errorf("resolve project root: %w", err)
	}

	return newProjectPaths(root), nil
}

func newProjectPaths(root string) ProjectPaths {
	metaDir := filepath.Join(root, ".distpack")
	pp := ProjectPaths{
		Root:       root,
		ConfigFile: filepath.Join(root, "distpack.yaml"),
		MetaDir:    metaDir,
		LogsDir:    filepath.Join(metaDir, "logs"),
	}
	return pp.withDistDir(filepath.Join(root, "dist"))
}

func (p ProjectPaths) withDistDir(distDir string) ProjectPaths {
	p.DistDir = distDir
	p.LibDir = filepath.Join(distDir, "lib")
	p.BinDir = filepath.Join(distDir, "bin")
	p.MakefilePath = filepath.Join(distDir, "Makefile")
	p.VersionFile = filepath.Join(distDir, "VERSION")
	return p
}

// ApplyConfig folds configured locations into the resolved paths.
func ApplyConfig(pp ProjectPaths, cfg config.Config) ProjectPaths {
	if dir := cfg.Dist.Dir; dir != "" {
		pp = pp.withDistDir(resolveProjectPath(pp.Root, dir))
	}
	return pp
}

// ArchiveFile returns the default archive location for the given stem name.
func (p ProjectPaths) ArchiveFile(stem string) string {
	return filepath.Join(p.Root, stem+".tar.gz")
}

func resolveProjectPath(root, value string) string {
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(root, value)
}

// EnsureRoot makes sure the project root exists on disk.
func (p ProjectPaths) EnsureRoot() error {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return fmt.Errorf("create project root: %w", err)
	}
	return nil
}

// EnsureMetaDirs creates the hidden .distpack metadata directory and its logs
// subdirectory.
func (p ProjectPaths) EnsureMetaDirs() error {
	dirs := []string{p.MetaDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
