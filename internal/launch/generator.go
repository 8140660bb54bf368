// Package launch renders per-program launch scripts, the install Makefile,
// and the VERSION file into a staged distribution directory.
package launch

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"distpack/internal/paths"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Entry is one program launcher to generate.
type Entry struct {
	Name           string
	MainClass      string
	JvmOpts        []string
	ExtraClasspath []string
}

// Inputs carries everything one generation run needs.
type Inputs struct {
	ProjectName string
	Version     string
	Entries     []Entry

	// LibJars lists lib/ base names in classpath order. Only used when
	// Expanded is set.
	LibJars  []string
	Expanded bool

	Windows     bool
	MacIconFile string

	// ResourceDirs are scanned for a bin/ subdirectory whose files get
	// install symlinks alongside the generated launchers.
	ResourceDirs []string

	Overrides Overrides
}

// PlannedFiles lists the names Generate will write, in order, relative to
// the distribution directory.
func (in Inputs) PlannedFiles() []string {
	var names []string
	for _, entry := range in.Entries {
		name := SanitizeProgramName(entry.Name)
		names = append(names, "bin/"+name)
		if in.Windows {
			names = append(names, "bin/"+name+".bat")
		}
	}
	return append(names, "Makefile", "VERSION")
}

// Overrides points at template files replacing the embedded defaults.
type Overrides struct {
	Bash     string
	Bat      string
	Makefile string
}

// ProgressReporter receives generation progress callbacks.
type ProgressReporter interface {
	Start(name string)
	Complete(name string, err error)
}

// Options tunes a generation run.
type Options struct {
	Reporter ProgressReporter
}

// scriptVars is the fixed payload handed to the launcher templates.
type scriptVars struct {
	ProgName          string
	ProgVersion       string
	MainClass         string
	MacIconFile       string
	JvmOpts           string
	ExtraClasspath    string
	ExpandedClasspath string
}

// makeVars is the fixed payload handed to the Makefile template.
type makeVars struct {
	ProjectName  string
	SymlinkBlock string
}

// Generator writes launch assets under the resolved project paths.
type Generator struct {
	Paths paths.ProjectPaths
	Log   *log.Logger
}

// Generate renders one bash launcher (plus a batch launcher when Windows is
// set) per program, then the Makefile and VERSION file. It returns the
// generated file names relative to the distribution directory.
func (g *Generator) Generate(ctx context.Context, in Inputs, opts Options) ([]string, error) {
	bash, err := g.loadTemplate("launch.sh.tmpl", in.Overrides.Bash)
	if err != nil {
		return nil, err
	}
	var bat *template.Template
	if in.Windows {
		bat, err = g.loadTemplate("launch.bat.tmpl", in.Overrides.Bat)
		if err != nil {
			return nil, err
		}
	}
	makefile, err := g.loadTemplate("Makefile.tmpl", in.Overrides.Makefile)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(g.Paths.BinDir, 0o755); err != nil {
		return nil, fmt.Errorf("create bin directory: %w", err)
	}

	expanded := ""
	if in.Expanded {
		expanded = UnixClasspath(in.LibJars)
	}

	if len(in.Entries) == 0 {
		g.logf("no programs configured; generating no launch scripts")
	}

	var written []string
	for _, entry := range in.Entries {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		name := SanitizeProgramName(entry.Name)
		vars := scriptVars{
			ProgName:          name,
			ProgVersion:       in.Version,
			MainClass:         entry.MainClass,
			MacIconFile:       in.MacIconFile,
			JvmOpts:           quoteJoin(entry.JvmOpts),
			ExtraClasspath:    strings.Join(entry.ExtraClasspath, ":"),
			ExpandedClasspath: expanded,
		}

		rel := "bin/" + name
		if err := g.render(bash, vars, rel, opts.Reporter); err != nil {
			return written, err
		}
		written = append(written, rel)

		if in.Windows {
			winVars := vars
			winVars.ExtraClasspath = WindowsClasspath(vars.ExtraClasspath)
			winVars.ExpandedClasspath = WindowsClasspath(vars.ExpandedClasspath)
			rel := "bin/" + name + ".bat"
			if err := g.render(bat, winVars, rel, opts.Reporter); err != nil {
				return written, err
			}
			written = append(written, rel)
		}
	}

	if err := g.render(makefile, makeVars{
		ProjectName:  in.ProjectName,
		SymlinkBlock: g.symlinkBlock(in),
	}, "Makefile", opts.Reporter); err != nil {
		return written, err
	}
	written = append(written, "Makefile")

	if err := g.writeVersion(in.Version, opts.Reporter); err != nil {
		return written, err
	}
	written = append(written, "VERSION")

	return written, nil
}

// symlinkBlock builds one ln -sf line per launcher name plus one per file in
// each resource directory's bin/ subdirectory.
func (g *Generator) symlinkBlock(in Inputs) string {
	names := make([]string, 0, len(in.Entries))
	for _, entry := range in.Entries {
		names = append(names, SanitizeProgramName(entry.Name))
	}
	for _, dir := range in.ResourceDirs {
		entries, err := os.ReadDir(filepath.Join(dir, "bin"))
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			names = append(names, entry.Name())
		}
	}
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("\tln -sf \"../$(PROG)/current/bin/%s\" \"$(PREFIX)/bin/%s\"", name, name)
	}
	return strings.Join(lines, "\n")
}

func (g *Generator) render(tmpl *template.Template, vars any, rel string, reporter ProgressReporter) error {
	if reporter != nil {
		reporter.Start(rel)
	}
	err := g.renderFile(tmpl, vars, rel)
	if reporter != nil {
		reporter.Complete(rel, err)
	}
	if err != nil {
		return err
	}
	g.logf("generated %s", rel)
	return nil
}

func (g *Generator) renderFile(tmpl *template.Template, vars any, rel string) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return fmt.Errorf("render %s: %w", rel, err)
	}
	dest := filepath.Join(g.Paths.DistDir, filepath.FromSlash(rel))
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

func (g *Generator) writeVersion(version string, reporter ProgressReporter) error {
	if reporter != nil {
		reporter.Start("VERSION")
	}
	err := os.WriteFile(g.Paths.VersionFile, []byte("version:="+version+"\n"), 0o644)
	if reporter != nil {
		reporter.Complete("VERSION", err)
	}
	if err != nil {
		return fmt.Errorf("write VERSION: %w", err)
	}
	g.logf("generated VERSION")
	return nil
}

func (g *Generator) loadTemplate(name, override string) (*template.Template, error) {
	if override != "" {
		data, err := os.ReadFile(override)
		if err != nil {
			return nil, fmt.Errorf("read template override %s: %w", override, err)
		}
		tmpl, err := template.New(filepath.Base(override)).Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse template override %s: %w", override, err)
		}
		return tmpl, nil
	}
	tmpl, err := template.ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	return tmpl, nil
}

func (g *Generator) logf(format string, args ...any) {
	if g.Log != nil {
		g.Log.Printf(format, args...)
	}
}
