// Package tui is the terminal front end: day tabs over a list of session
// cards, re-drawn on every board update.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timetable/internal/board"
	"timetable/internal/model"
)

// boardPort is what the view needs from a board.Board.
type boardPort interface {
	Snapshot() board.Snapshot
	SelectDay(day string) board.Snapshot
	Step(delta int) board.Snapshot
	Refresh()
	Updates() <-chan board.Snapshot
}

// snapshotMsg carries a board update into the Bubble Tea loop.
type snapshotMsg board.Snapshot

// Model is the root Bubble Tea model.
type Model struct {
	board boardPort
	snap  board.Snapshot

	keys     KeyMap
	help     help.Model
	showHelp bool
	notice   string
	width    int
	height   int
}

// New builds a Model over an opened board.
func New(b boardPort) Model {
	return Model{
		board: b,
		snap:  b.Snapshot(),
		keys:  DefaultKeyMap(),
		help:  help.New(),
	}
}

// Snapshot is the frame currently on screen.
func (m Model) Snapshot() board.Snapshot {
	return m.snap
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.board.Updates())
}

// waitForUpdate blocks on the board's update channel. It is re-armed after
// every delivered snapshot.
func waitForUpdate(ch <-chan board.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		m.snap = board.Snapshot(msg)
		return m, waitForUpdate(m.board.Updates())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Prev):
		m.snap = m.board.Step(-1)
	case key.Matches(msg, m.keys.Next):
		m.snap = m.board.Step(1)
	case key.Matches(msg, m.keys.Today):
		today := model.WeekdayName(m.snap.Now)
		if !containsDay(m.snap.Days, today) {
			m.notice = fmt.Sprintf("No timetable for %s", today)
			break
		}
		m.snap = m.board.SelectDay(today)
	case key.Matches(msg, m.keys.Refresh):
		m.board.Refresh()
		m.snap = m.board.Snapshot()
	}
	return m, nil
}

func containsDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderSessions())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(ErrorStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("My Timetable")
	clock := ClockStyle.Render(m.snap.Now.Format("Monday, 03:04 PM"))
	if m.width <= 0 {
		return title + "  " + clock
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(clock)
	if gap < 2 {
		gap = 2
	}
	return title + strings.Repeat(" ", gap) + clock
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.snap.Days))
	for _, d := range m.snap.Days {
		if d == m.snap.Day {
			tabs = append(tabs, ActiveTabStyle.Render(d))
			continue
		}
		tabs = append(tabs, TabStyle.Render(d))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderSessions() string {
	if len(m.snap.Entries) == 0 {
		return EmptyStyle.Render(fmt.Sprintf("No sessions on %s.", m.snap.Day))
	}

	width := 0
	if m.width > 4 {
		width = m.width - 2
	}
	cards := make([]string, 0, len(m.snap.Entries))
	for _, e := range m.snap.Entries {
		cards = append(cards, renderCard(e, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderCard(e board.Entry, width int) string {
	s := e.Session
	lines := []string{
		TimeStyle.Render(s.Window.String()) + "  " + StatusStyle(e.Status.Kind).Render(e.Status.Label()),
		NameStyle.Render(s.Name),
	}
	if code := s.CodeOrEmpty(); code != "" {
		lines = append(lines, DetailStyle.Render(code))
	}
	if inst := s.InstructorOrEmpty(); inst != "" {
		lines = append(lines, DetailStyle.Render("Instructor: "+inst))
	}
	lines = append(lines, LocationStyle.Render("Classroom: "+s.Location))

	style := CardStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Run starts the full-screen program and blocks until the user quits.
func Run(b *board.Board) error {
	p := tea.NewProgram(New(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
