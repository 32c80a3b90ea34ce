package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#263238")
	Foreground = lipgloss.Color("#EEFFFF")
)

// Base styles
var (
	// Title style for headings
	TitleStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		MarginBottom(1)

	TextStyle = lipgloss.NewStyle().
		Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
		Foreground(Muted)

	// Selected row in the order editor
	SelectedStyle = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Row being moved
	GrabbedStyle = lipgloss.NewStyle().
		Foreground(Background).
		Background(Primary).
		Bold(true)

	// Status styles
	StatusProcessing = lipgloss.NewStyle().
		Foreground(Info).
		Bold(true)

	StatusCompleted = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	StatusWarning = lipgloss.NewStyle().
		Foreground(Warning).
		Bold(true)

	StatusError = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	ProgressBarStyle = lipgloss.NewStyle().
		Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
		Foreground(Muted)

	// Help text
	HelpStyle = lipgloss.NewStyle().
		Foreground(Muted).
		Italic(true).
		MarginTop(1)
)

// StatusStyle picks the style for a build or order status.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "processing", "new":
		return StatusProcessing
	case "complete", "created", "ok":
		return StatusCompleted
	case "note":
		return StatusWarning
	case "skipped", "missing content", "error":
		return StatusError
	default:
		return MutedStyle
	}
}
