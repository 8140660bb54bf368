package layout

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"distpack/internal/paths"
	"distpack/internal/project"
	"distpack/pkg/jarname"
)

// Kind identifies where a staged file comes from.
type Kind string

const (
	KindProjectJar Kind = "project-jar"
	KindDependency Kind = "dependency"
	KindUnmanaged  Kind = "unmanaged"
	KindExtra      Kind = "extra"
	KindResource   Kind = "resource"
)

// Mapping stages one file at an explicit destination under the layout root.
type Mapping struct {
	Src  string
	Dest string
}

// Inputs names everything the builder stages into the dist directory.
type Inputs struct {
	ProjectJars  []string
	Deps         []project.Dep
	Convention   jarname.Convention
	Unmanaged    []string
	ExtraFiles   []Mapping
	ResourceDirs []string
}

// Item is one file the build will stage.
type Item struct {
	Kind   Kind
	Source string
	Dest   string
	// Name is the destination path relative to the layout root.
	Name string
}

// ProgressReporter receives notifications as items are staged, keyed by the
// item's layout-relative name.
type ProgressReporter interface {
	Start(name string)
	Complete(name string, err error)
}

// Options controls layout construction behaviour.
type Options struct {
	Reporter ProgressReporter
}

// Builder stages the distribution layout for a project.
type Builder struct {
	Paths paths.ProjectPaths
	Log   *log.Logger
}

// Plan enumerates every file the build will stage, in staging order: project
// jars, resolved dependencies, unmanaged jars, extra files, then resource
// directory contents.
func (b *Builder) Plan(in Inputs) ([]Item, error) {
	var items []Item

	lib := func(name string) string {
		return filepath.Join(b.Paths.LibDir, name)
	}

	for _, jar := range in.ProjectJars {
		name := filepath.Base(jar)
		items = append(items, Item{
			Kind:   KindProjectJar,
			Source: jar,
			Dest:   lib(name),
			Name:   filepath.Join("lib", name),
		})
	}

	for _, dep := range in.Deps {
		name := dep.Identity.FileName(in.Convention)
		items = append(items, Item{
			Kind:   KindDependency,
			Source: dep.File,
			Dest:   lib(name),
			Name:   filepath.Join("lib", name),
		})
	}

	for _, jar := range in.Unmanaged {
		name := filepath.Base(jar)
		items = append(items, Item{
			Kind:   KindUnmanaged,
			Source: jar,
			Dest:   lib(name),
			Name:   filepath.Join("lib", name),
		})
	}

	for _, extra := range in.ExtraFiles {
		rel := filepath.FromSlash(extra.Dest)
		items = append(items, Item{
			Kind:   KindExtra,
			Source: extra.Src,
			Dest:   filepath.Join(b.Paths.DistDir, rel),
			Name:   rel,
		})
	}

	for _, dir := range in.ResourceDirs {
		resourceItems, err := b.planResourceDir(dir)
		if err != nil {
			return nil, err
		}
		items = append(items, resourceItems...)
	}

	return items, nil
}

func (b *Builder) planResourceDir(dir string) ([]Item, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			b.logf("resource directory %s missing, skipping", dir)
			return nil, nil
		}
		return nil, fmt.Errorf("stat resource directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resource path %s is not a directory", dir)
	}

	var items []Item
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		items = append(items, Item{
			Kind:   KindResource,
			Source: path,
			Dest:   filepath.Join(b.Paths.DistDir, rel),
			Name:   rel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk resource directory %s: %w", dir, err)
	}
	return items, nil
}

// Build deletes and recreates the dist directory, then stages every planned
// item in order. The first failure aborts the build; a partially built layout
// is left for the next run's reset to clean up.
func (b *Builder) Build(ctx context.Context, items []Item, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := b.reset(); err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if opts.Reporter != nil {
			opts.Reporter.Start(item.Name)
		}
		err := b.stage(item)
		if opts.Reporter != nil {
			opts.Reporter.Complete(item.Name, err)
		}
		if err != nil {
			return fmt.Errorf("stage %s: %w", item.Name, err)
		}
		b.logf("staged %-12s %s", item.Kind, item.Name)
	}

	return nil
}

func (b *Builder) reset() error {
	if err := os.RemoveAll(b.Paths.DistDir); err != nil {
		return fmt.Errorf("clear dist directory: %w", err)
	}
	for _, dir := range []string{b.Paths.DistDir, b.Paths.LibDir, b.Paths.BinDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

func (b *Builder) stage(item Item) error {
	if item.Kind == KindResource {
		return copyFilePreserving(item.Source, item.Dest)
	}
	return copyFile(item.Source, item.Dest)
}

// MarkExecutables sets the executable bits on every file directly inside bin/.
func (b *Builder) MarkExecutables(worldExecutable bool) error {
	entries, err := os.ReadDir(b.Paths.BinDir)
	if err != nil {
		return fmt.Errorf("read bin directory: %w", err)
	}

	mode := os.FileMode(0o744)
	if worldExecutable {
		mode = 0o755
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(b.Paths.BinDir, entry.Name())
		if err := os.Chmod(path, mode); err != nil {
			return fmt.Errorf("chmod %s: %w", path, err)
		}
	}
	return nil
}

func (b *Builder) logf(format string, args ...any) {
	if b.Log == nil {
		return
	}
	b.Log.Printf(format, args...)
}

func copyFile(src, dst string) error {
	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dest, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer dest.Close()

	if _, err := io.Copy(dest, source); err != nil {
		return err
	}
	return nil
}

func copyFilePreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dest, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, source); err != nil {
		dest.Close()
		return err
	}
	if err := dest.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
