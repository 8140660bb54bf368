package launch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"distpack/internal/paths"
)

type recordingReporter struct {
	started   []string
	completed []string
	failed    []string
}

func (r *recordingReporter) Start(name string) {
	r.started = append(r.started, name)
}

func (r *recordingReporter) Complete(name string, err error) {
	r.completed = append(r.completed, name)
	if err != nil {
		r.failed = append(r.failed, name)
	}
}

func newGenerator(t *testing.T) (*Generator, paths.ProjectPaths) {
	t.Helper()
	p, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve paths: %v", err)
	}
	return &Generator{Paths: p}, p
}

func readDist(t *testing.T, p paths.ProjectPaths, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.DistDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestPlannedFilesMatchesGenerateOrder(t *testing.T) {
	gen, _ := newGenerator(t)

	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Windows:     true,
		Entries: []Entry{
			{Name: "hello", MainClass: "com.example.Hello"},
			{Name: "My Tool", MainClass: "com.example.Tool"},
		},
	}
	written, err := gen.Generate(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	planned := in.PlannedFiles()
	if len(planned) != len(written) {
		t.Fatalf("planned %d files, generated %d", len(planned), len(written))
	}
	for i := range planned {
		if planned[i] != written[i] {
			t.Errorf("planned[%d] = %q, written[%d] = %q", i, planned[i], i, written[i])
		}
	}
}

func TestGenerateWritesLaunchers(t *testing.T) {
	gen, p := newGenerator(t)

	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Windows:     true,
		MacIconFile: "icon.png",
		Entries: []Entry{
			{
				Name:           "hello",
				MainClass:      "com.example.Hello",
				JvmOpts:        []string{"-Xmx1g"},
				ExtraClasspath: []string{"${PROG_HOME}/etc"},
			},
			{Name: "My Tool", MainClass: "com.example.Tool"},
		},
	}
	written, err := gen.Generate(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	want := []string{"bin/hello", "bin/hello.bat", "bin/MyTool", "bin/MyTool.bat", "Makefile", "VERSION"}
	if len(written) != len(want) {
		t.Fatalf("expected %d generated files, got %d: %v", len(want), len(written), written)
	}
	for i, name := range want {
		if written[i] != name {
			t.Errorf("written[%d] = %q, want %q", i, written[i], name)
		}
	}

	sh := readDist(t, p, "bin/hello")
	if !strings.Contains(sh, `com.example.Hello "$@"`) {
		t.Errorf("bash launcher missing main class invocation:\n%s", sh)
	}
	if !strings.Contains(sh, `JVM_OPTS=("-Xmx1g")`) {
		t.Errorf("bash launcher missing jvm opts:\n%s", sh)
	}
	if !strings.Contains(sh, `CLASSPATH="${PROG_HOME}/lib/*"`) {
		t.Errorf("bash launcher should use the lib wildcard classpath:\n%s", sh)
	}
	if !strings.Contains(sh, `CLASSPATH="${PROG_HOME}/etc:${CLASSPATH}"`) {
		t.Errorf("bash launcher missing extra classpath prefix:\n%s", sh)
	}

	bat := readDist(t, p, "bin/hello.bat")
	if !strings.Contains(bat, `set CLASSPATH=%PROG_HOME%\etc;%CLASSPATH%`) {
		t.Errorf("batch launcher missing transformed extra classpath:\n%s", bat)
	}
	if !strings.Contains(bat, "com.example.Tool") && !strings.Contains(bat, "com.example.Hello") {
		t.Errorf("batch launcher missing main class:\n%s", bat)
	}
}

func TestGenerateExpandedClasspath(t *testing.T) {
	gen, p := newGenerator(t)

	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Windows:     true,
		Expanded:    true,
		LibJars:     []string{"app-1.0.0.jar", "commons-io-2.11.0.jar"},
		Entries:     []Entry{{Name: "hello", MainClass: "com.example.Hello"}},
	}
	if _, err := gen.Generate(context.Background(), in, Options{}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	sh := readDist(t, p, "bin/hello")
	wantUnix := `CLASSPATH="${PROG_HOME}/lib/app-1.0.0.jar:${PROG_HOME}/lib/commons-io-2.11.0.jar"`
	if !strings.Contains(sh, wantUnix) {
		t.Errorf("bash launcher missing expanded classpath %q:\n%s", wantUnix, sh)
	}

	bat := readDist(t, p, "bin/hello.bat")
	wantWin := `set CLASSPATH=%PROG_HOME%\lib\app-1.0.0.jar;%PROG_HOME%\lib\commons-io-2.11.0.jar`
	if !strings.Contains(bat, wantWin) {
		t.Errorf("batch launcher missing expanded classpath %q:\n%s", wantWin, bat)
	}
}

func TestGenerateWindowsDisabled(t *testing.T) {
	gen, p := newGenerator(t)

	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Entries:     []Entry{{Name: "hello", MainClass: "com.example.Hello"}},
	}
	written, err := gen.Generate(context.Background(), in, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, name := range written {
		if strings.HasSuffix(name, ".bat") {
			t.Errorf("batch launcher generated with windows disabled: %q", name)
		}
	}
	if _, err := os.Stat(filepath.Join(p.BinDir, "hello.bat")); !os.IsNotExist(err) {
		t.Errorf("expected no hello.bat, stat err = %v", err)
	}
}

func TestGenerateNoPrograms(t *testing.T) {
	gen, p := newGenerator(t)

	written, err := gen.Generate(context.Background(), Inputs{ProjectName: "myapp", Version: "2.0.0"}, Options{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"Makefile", "VERSION"}
	if len(written) != len(want) {
		t.Fatalf("expected %v, got %v", want, written)
	}
	for i, name := range want {
		if written[i] != name {
			t.Errorf("written[%d] = %q, want %q", i, written[i], name)
		}
	}
	if got := readDist(t, p, "VERSION"); got != "version:=2.0.0\n" {
		t.Errorf("VERSION = %q, want %q", got, "version:=2.0.0\n")
	}
}

func TestGenerateMakefileSymlinks(t *testing.T) {
	gen, p := newGenerator(t)

	resourceDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(resourceDir, "bin"), 0o755); err != nil {
		t.Fatalf("mkdir resource bin: %v", err)
	}
	if err := os.WriteFile(filepath.Join(resourceDir, "bin", "extra.sh"), []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write resource script: %v", err)
	}

	in := Inputs{
		ProjectName:  "myapp",
		Version:      "1.0.0",
		Entries:      []Entry{{Name: "My Tool", MainClass: "com.example.Tool"}},
		ResourceDirs: []string{resourceDir},
	}
	if _, err := gen.Generate(context.Background(), in, Options{}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	mk := readDist(t, p, "Makefile")
	if !strings.Contains(mk, "include VERSION") {
		t.Errorf("Makefile should include VERSION:\n%s", mk)
	}
	if !strings.Contains(mk, "PROG    := myapp") {
		t.Errorf("Makefile missing project name:\n%s", mk)
	}
	wantLines := []string{
		`ln -sf "../$(PROG)/current/bin/MyTool" "$(PREFIX)/bin/MyTool"`,
		`ln -sf "../$(PROG)/current/bin/extra.sh" "$(PREFIX)/bin/extra.sh"`,
	}
	for _, line := range wantLines {
		if !strings.Contains(mk, line) {
			t.Errorf("Makefile missing symlink line %q:\n%s", line, mk)
		}
	}
}

func TestGenerateTemplateOverride(t *testing.T) {
	gen, p := newGenerator(t)

	override := filepath.Join(t.TempDir(), "custom.sh.tmpl")
	if err := os.WriteFile(override, []byte("#!/bin/sh\nexec run {{.MainClass}}\n"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Entries:     []Entry{{Name: "hello", MainClass: "com.example.Hello"}},
		Overrides:   Overrides{Bash: override},
	}
	if _, err := gen.Generate(context.Background(), in, Options{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := readDist(t, p, "bin/hello"); got != "#!/bin/sh\nexec run com.example.Hello\n" {
		t.Errorf("override launcher = %q", got)
	}
}

func TestGenerateMissingOverrideFails(t *testing.T) {
	gen, _ := newGenerator(t)

	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Overrides:   Overrides{Makefile: filepath.Join(t.TempDir(), "missing.tmpl")},
	}
	_, err := gen.Generate(context.Background(), in, Options{})
	if err == nil {
		t.Fatal("expected error for missing template override")
	}
	if !strings.Contains(err.Error(), "read template override") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGenerateReportsProgress(t *testing.T) {
	gen, _ := newGenerator(t)

	reporter := &recordingReporter{}
	in := Inputs{
		ProjectName: "myapp",
		Version:     "1.0.0",
		Entries:     []Entry{{Name: "hello", MainClass: "com.example.Hello"}},
	}
	if _, err := gen.Generate(context.Background(), in, Options{Reporter: reporter}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(reporter.started) != 3 || len(reporter.completed) != 3 {
		t.Errorf("expected 3 start/complete pairs, got %d/%d", len(reporter.started), len(reporter.completed))
	}
	if len(reporter.failed) != 0 {
		t.Errorf("expected no failures, got %v", reporter.failed)
	}
}
