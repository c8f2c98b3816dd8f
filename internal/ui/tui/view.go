package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"timeout/internal/core/scheduler"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	timerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 4).
			Align(lipgloss.Center)
)

// View implements tea.Model.
func (m Model) View() string {
	if active, ok := m.snapshot.State.ActiveBreak(); ok {
		return m.breakView(active)
	}
	return m.workingView()
}

func (m Model) breakView(active scheduler.Break) string {
	lines := []string{
		titleStyle.Render(active.Config.Name + " Break"),
		"",
		m.progress.ViewAs(m.snapshot.Progress),
		"",
		timerStyle.Render(m.snapshot.RemainingText),
	}
	if m.snapshot.Paused {
		lines = append(lines, dimStyle.Render("paused"))
	}
	lines = append(lines, "", m.help.View(m.keys))

	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) workingView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TimeOut"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(statusLine(m.snapshot)))
	b.WriteString("\n\n")

	for _, config := range m.breaks {
		due, ok := m.due[config.ID]
		var when string
		switch {
		case !config.Enabled || !ok:
			when = dimStyle.Render("disabled")
		default:
			when = "in " + scheduler.FormatRemaining(due.Sub(m.snapshot.At))
		}
		fmt.Fprintf(&b, "  %-16s %s\n", config.Name, when)
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func statusLine(snapshot scheduler.Snapshot) string {
	status := "all breaks disabled"
	if snapshot.HasNextBreak {
		status = "next break in " + scheduler.FormatRemaining(snapshot.NextBreakIn)
	}
	if snapshot.Paused {
		status += " (paused)"
	}
	return status
}
