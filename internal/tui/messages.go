package tui

// Messages passed from the packaging pipeline goroutine into the progress
// model. The work closure sends them through the program's Send function;
// Update consumes them.

// RowUpdateMsg changes named columns of one table row. Key must match a row
// registered with AddRow; updates for unknown keys are dropped.
type RowUpdateMsg struct {
	Key    string
	Fields map[string]string
}

// WorkDoneMsg marks the pipeline as finished so the model can stop ticking
// and quit on the next frame.
type WorkDoneMsg struct{}

// ErrorMsg aborts the TUI, carrying the pipeline's fatal error.
type ErrorMsg struct {
	Err error
}
