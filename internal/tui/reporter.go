package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// StageReporter adapts bubbletea message sending to the progress reporter
// interfaces of the layout builder and launch generator (Start/Complete keyed
// by item name). Callers supply the field mappings so the tui package doesn't
// need to know about specific column layouts.
type StageReporter struct {
	send           func(tea.Msg)
	startFields    func(name string) map[string]string
	completeFields func(name string, err error) map[string]string
}

// NewStageReporter constructs a reporter with the given mapping functions.
func NewStageReporter(
	send func(tea.Msg),
	startFields func(name string) map[string]string,
	completeFields func(name string, err error) map[string]string,
) *StageReporter {
	return &StageReporter{
		send:           send,
		startFields:    startFields,
		completeFields: completeFields,
	}
}

// Start marks an item as in progress.
func (r *StageReporter) Start(name string) {
	r.send(RowUpdateMsg{
		Key:    name,
		Fields: r.startFields(name),
	})
}

// Complete marks an item as finished, successfully or not.
func (r *StageReporter) Complete(name string, err error) {
	r.send(RowUpdateMsg{
		Key:    name,
		Fields: r.completeFields(name, err),
	})
}
