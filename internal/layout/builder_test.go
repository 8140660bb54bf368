package layout

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"distpack/internal/paths"
	"distpack/internal/project"
	"distpack/pkg/jarname"
)

func newTestBuilder(t *testing.T) (*Builder, string) {
	t.Helper()
	root := t.TempDir()
	pp, err := paths.Resolve(root)
	if err != nil {
		t.Fatalf("resolve paths: %v", err)
	}
	return &Builder{Paths: pp}, root
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	return string(data)
}

type recordingReporter struct {
	started   []string
	completed []string
	failures  int
}

func (r *recordingReporter) Start(name string) {
	r.started = append(r.started, name)
}

func (r *recordingReporter) Complete(name string, err error) {
	r.completed = append(r.completed, name)
	if err != nil {
		r.failures++
	}
}

func TestPlanOrderingAndNames(t *testing.T) {
	b, root := newTestBuilder(t)

	appJar := writeFile(t, filepath.Join(root, "target", "app-1.0.jar"), "app")
	depJar := writeFile(t, filepath.Join(root, "cache", "slf4j-api-2.0.9.jar"), "dep")
	unmanaged := writeFile(t, filepath.Join(root, "lib", "local.jar"), "local")
	writeFile(t, filepath.Join(root, "src", "pack", "etc", "app.conf"), "conf")

	in := Inputs{
		ProjectJars: []string{appJar},
		Deps: []project.Dep{{
			Identity: jarname.Identity{
				Organization: "org.slf4j",
				Name:         "slf4j-api",
				Revision:     "2.0.9",
				OriginalFile: "slf4j-api-2.0.9.jar",
			},
			File: depJar,
		}},
		Convention:   jarname.ConventionFull,
		Unmanaged:    []string{unmanaged},
		ExtraFiles:   []Mapping{{Src: appJar, Dest: "etc/copy.jar"}},
		ResourceDirs: []string{filepath.Join(root, "src", "pack")},
	}

	items, err := b.Plan(in)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}

	wantNames := []string{
		filepath.Join("lib", "app-1.0.jar"),
		filepath.Join("lib", "org.slf4j.slf4j-api-2.0.9.jar"),
		filepath.Join("lib", "local.jar"),
		filepath.Join("etc", "copy.jar"),
		filepath.Join("etc", "app.conf"),
	}
	if len(items) != len(wantNames) {
		t.Fatalf("got %d items, want %d: %+v", len(items), len(wantNames), items)
	}
	for i, want := range wantNames {
		if items[i].Name != want {
			t.Errorf("items[%d].Name = %q, want %q", i, items[i].Name, want)
		}
	}
	if items[1].Kind != KindDependency {
		t.Errorf("items[1].Kind = %q", items[1].Kind)
	}
	if items[4].Kind != KindResource {
		t.Errorf("items[4].Kind = %q", items[4].Kind)
	}
}

func TestBuildStagesAndResets(t *testing.T) {
	b, root := newTestBuilder(t)

	appJar := writeFile(t, filepath.Join(root, "target", "app-1.0.jar"), "app")
	in := Inputs{ProjectJars: []string{appJar}, Convention: jarname.ConventionDefault}

	// A stale file from an earlier run with different inputs.
	stale := filepath.Join(b.Paths.LibDir, "stale.jar")
	writeFile(t, stale, "old")

	items, err := b.Plan(in)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}

	reporter := &recordingReporter{}
	if err := b.Build(context.Background(), items, Options{Reporter: reporter}); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived the reset")
	}
	if got := readFile(t, filepath.Join(b.Paths.LibDir, "app-1.0.jar")); got != "app" {
		t.Errorf("staged jar content = %q", got)
	}
	if ok, _ := paths.DirExists(b.Paths.BinDir); !ok {
		t.Error("bin directory missing after build")
	}

	if len(reporter.started) != 1 || len(reporter.completed) != 1 {
		t.Errorf("reporter calls = %d/%d, want 1/1", len(reporter.started), len(reporter.completed))
	}
	if reporter.failures != 0 {
		t.Errorf("reporter failures = %d", reporter.failures)
	}
}

func TestBuildOverwriteSemantics(t *testing.T) {
	b, root := newTestBuilder(t)

	first := writeFile(t, filepath.Join(root, "a", "same.jar"), "first")
	second := writeFile(t, filepath.Join(root, "b", "same.jar"), "second")

	in := Inputs{
		ProjectJars: []string{first, second},
		Convention:  jarname.ConventionDefault,
	}
	items, err := b.Plan(in)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if err := b.Build(context.Background(), items, Options{}); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if got := readFile(t, filepath.Join(b.Paths.LibDir, "same.jar")); got != "second" {
		t.Errorf("last writer should win, got %q", got)
	}
}

func TestBuildPreservesResourceTimestamps(t *testing.T) {
	b, root := newTestBuilder(t)

	src := writeFile(t, filepath.Join(root, "src", "pack", "bin", "helper.sh"), "#!/bin/sh\n")
	stamp := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	in := Inputs{ResourceDirs: []string{filepath.Join(root, "src", "pack")}}
	items, err := b.Plan(in)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if err := b.Build(context.Background(), items, Options{}); err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	staged := filepath.Join(b.Paths.DistDir, "bin", "helper.sh")
	info, err := os.Stat(staged)
	if err != nil {
		t.Fatalf("stat staged resource: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("mtime = %v, want %v", info.ModTime(), stamp)
	}
}

func TestBuildMissingSourceFails(t *testing.T) {
	b, root := newTestBuilder(t)

	in := Inputs{
		ProjectJars: []string{filepath.Join(root, "target", "ghost.jar")},
		Convention:  jarname.ConventionDefault,
	}
	items, err := b.Plan(in)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}

	reporter := &recordingReporter{}
	if err := b.Build(context.Background(), items, Options{Reporter: reporter}); err == nil {
		t.Fatal("expected error for missing source jar")
	}
	if reporter.failures != 1 {
		t.Errorf("reporter failures = %d, want 1", reporter.failures)
	}
}

func TestPlanSkipsMissingResourceDir(t *testing.T) {
	b, root := newTestBuilder(t)

	in := Inputs{ResourceDirs: []string{filepath.Join(root, "src", "pack")}}
	items, err := b.Plan(in)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %+v", items)
	}
}

func TestMarkExecutables(t *testing.T) {
	b, _ := newTestBuilder(t)

	if err := os.MkdirAll(b.Paths.BinDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	launcher := writeFile(t, filepath.Join(b.Paths.BinDir, "myapp"), "#!/bin/sh\n")
	nested := filepath.Join(b.Paths.BinDir, "sub")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	inner := writeFile(t, filepath.Join(nested, "inner"), "x")

	if err := b.MarkExecutables(true); err != nil {
		t.Fatalf("MarkExecutables returned error: %v", err)
	}

	info, err := os.Stat(launcher)
	if err != nil {
		t.Fatalf("stat launcher: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("launcher mode = %o, want 755", info.Mode().Perm())
	}

	innerInfo, err := os.Stat(inner)
	if err != nil {
		t.Fatalf("stat nested file: %v", err)
	}
	if innerInfo.Mode().Perm() == 0o755 {
		t.Error("nested file should not be chmodded")
	}

	if err := b.MarkExecutables(false); err != nil {
		t.Fatalf("MarkExecutables returned error: %v", err)
	}
	info, err = os.Stat(launcher)
	if err != nil {
		t.Fatalf("stat launcher: %v", err)
	}
	if info.Mode().Perm() != 0o744 {
		t.Errorf("launcher mode = %o, want 744", info.Mode().Perm())
	}
}
