package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode selects how a command reports pipeline progress.
type OutputMode int

const (
	// ModeTUI renders the live bubbletea progress table.
	ModeTUI OutputMode = iota
	// ModePlain prints one line per file, suitable for CI logs.
	ModePlain
	// ModeJSON suppresses progress; the command emits a JSON document once
	// the pipeline finishes.
	ModeJSON
)

// DetectMode picks the output mode for out. JSON wins over everything else,
// --no-progress forces plain, and the TUI only runs when out is a terminal
// with a capable TERM.
func DetectMode(out io.Writer, noProgress, jsonOutput bool) OutputMode {
	if jsonOutput {
		return ModeJSON
	}
	if noProgress || !isTerminal(out) {
		return ModePlain
	}
	return ModeTUI
}

func isTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return false
	}
	if runtime.GOOS != "windows" {
		term := os.Getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return false
		}
	}
	return true
}
