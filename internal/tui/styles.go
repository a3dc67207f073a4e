package tui

import (
	"github.com/charmbracelet/lipgloss"

	"timetable/internal/status"
)

var (
	ColorBg        = lipgloss.Color("#171717")
	ColorCard      = lipgloss.Color("#262626")
	ColorFgPrimary = lipgloss.Color("#FAFAFA")
	ColorFgMuted   = lipgloss.Color("#A3A3A3")
	ColorFgDim     = lipgloss.Color("#737373")
	ColorAccent    = lipgloss.Color("#2563EB")
	ColorBorder    = lipgloss.Color("#404040")

	ColorYellow = lipgloss.Color("#EAB308")
	ColorGreen  = lipgloss.Color("#22C55E")
	ColorRed    = lipgloss.Color("#EF4444")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true)

	ClockStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	TimeStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Bold(true)

	NameStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Bold(true)

	DetailStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	LocationStyle = lipgloss.NewStyle().
			Foreground(ColorFgDim)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(ColorFgDim).
			Italic(true).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)
)

// StatusStyle colours a status label: yellow before, green during and red
// after a session.
func StatusStyle(k status.Kind) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch k {
	case status.NotStarted:
		return base.Foreground(ColorYellow)
	case status.InProgress:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorRed)
	}
}
