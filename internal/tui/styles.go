package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"staged":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"generated": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"collected": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"loaded":    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"archived":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"complete":  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"staging":    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"generating": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"collecting": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"loading":    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"archiving":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"skipped":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"missing":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"excluded": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"error": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
