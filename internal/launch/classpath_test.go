package launch

import (
	"testing"
)

func TestSanitizeProgramName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"inner space", "My Prog", "MyProg"},
		{"tabs and newlines", "my\tcool\nprog", "mycoolprog"},
		{"surrounding space", "  trimmed  ", "trimmed"},
		{"only whitespace", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeProgramName(tt.in); got != tt.want {
				t.Errorf("SanitizeProgramName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnixClasspath(t *testing.T) {
	got := UnixClasspath([]string{"app-1.0.0.jar", "commons-io-2.11.0.jar"})
	want := "${PROG_HOME}/lib/app-1.0.0.jar:${PROG_HOME}/lib/commons-io-2.11.0.jar"
	if got != want {
		t.Errorf("UnixClasspath = %q, want %q", got, want)
	}
}

func TestUnixClasspathEmpty(t *testing.T) {
	if got := UnixClasspath(nil); got != "" {
		t.Errorf("UnixClasspath(nil) = %q, want empty", got)
	}
}

func TestWindowsClasspath(t *testing.T) {
	in := "${PROG_HOME}/lib/app-1.0.0.jar:${PROG_HOME}/etc"
	want := `%PROG_HOME%\lib\app-1.0.0.jar;%PROG_HOME%\etc`
	if got := WindowsClasspath(in); got != want {
		t.Errorf("WindowsClasspath = %q, want %q", got, want)
	}
}

func TestWindowsClasspathEmpty(t *testing.T) {
	if got := WindowsClasspath(""); got != "" {
		t.Errorf("WindowsClasspath(\"\") = %q, want empty", got)
	}
}

func TestQuoteJoin(t *testing.T) {
	got := quoteJoin([]string{"-Xmx1g", "-Dapp.env=dev"})
	want := `"-Xmx1g" "-Dapp.env=dev"`
	if got != want {
		t.Errorf("quoteJoin = %q, want %q", got, want)
	}
	if got := quoteJoin(nil); got != "" {
		t.Errorf("quoteJoin(nil) = %q, want empty", got)
	}
}
