package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"daybook/task"
)

var (
	urgentStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	highStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	mediumStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	lowStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	importantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	completedStyle = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	activeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
)

// StylePriority renders a priority with its color when ANSI output is
// enabled.
func StylePriority(p task.Priority) string {
	if !ColorsEnabled() {
		return string(p)
	}
	switch p {
	case task.PriorityUrgent:
		return urgentStyle.Render(string(p))
	case task.PriorityHigh:
		return highStyle.Render(string(p))
	case task.PriorityMedium:
		return mediumStyle.Render(string(p))
	case task.PriorityLow:
		return lowStyle.Render(string(p))
	}
	return string(p)
}

// StyleTitle renders a task title, dimming completed tasks and
// highlighting important ones.
func StyleTitle(t task.Task) string {
	if !ColorsEnabled() {
		return t.Title
	}
	if t.Completed {
		return completedStyle.Render(t.Title)
	}
	if t.Important {
		return importantStyle.Render(t.Title)
	}
	return t.Title
}

// StyleHeader renders a section header.
func StyleHeader(s string) string {
	if !ColorsEnabled() {
		return s
	}
	return headerStyle.Render(s)
}

// StyleActive renders the active-timer marker.
func StyleActive(s string) string {
	if !ColorsEnabled() {
		return s
	}
	return activeStyle.Render(s)
}

var idPrefixStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))

// HighlightID renders an ID with its unique prefix highlighted, so the
// shortest reference that still resolves is visible at a glance.
func HighlightID(id string, prefixLen int) string {
	if id == "" || prefixLen <= 0 || prefixLen > len(id) || !ColorsEnabled() {
		return id
	}
	return idPrefixStyle.Render(id[:prefixLen]) + id[prefixLen:]
}

// Glyph returns the completion glyph for a task or subtask.
func Glyph(completed bool) string {
	if completed {
		return "✓"
	}
	return "○"
}

// ColorsEnabled reports whether styled output is in effect. NO_COLOR,
// dumb terminals, and piped stdout all disable it.
func ColorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
