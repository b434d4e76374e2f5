package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// headerLines is the height of the header plus the command bar.
const headerLines = 2

// renderMain renders the header, command bar and active view.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewSettings:
		b.WriteString(m.renderSettings())
	default:
		b.WriteString(m.renderPrograms())
	}
	return b.String()
}

// renderHeader renders the title bar with the view tabs and load status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	tab := func(label string, v View) string {
		if m.currentView == v {
			return bg.Render(label, styles.AccentText.Bold(true))
		}
		return bg.Render(label, styles.MutedText)
	}

	parts := []string{
		bg.Render("cadre", styles.Logo),
		tab("Programs", ViewPrograms),
		tab("Settings", ViewSettings),
	}

	switch {
	case m.page.Loading:
		parts = append(parts, bg.Render("loading…", styles.FaintText))
	case m.page.LoadErr != nil:
		parts = append(parts, bg.Render("load failed, see log", styles.WarningText))
	case m.page.Loaded:
		parts = append(parts, bg.Render(countLabel(len(m.page.Programs), "program"), styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(strings.Join(parts, bg.Spaces(2)))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewSettings:
		commands = []cmd{
			{"p", "Programs"},
			{"?", "More"},
			{"q", "Quit"},
		}
	default:
		commands = []cmd{
			{"n", "Create"},
			{"j/k", "Navigate"},
			{"s", "Settings"},
			{"?", "More"},
			{"q", "Quit"},
		}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// truncate truncates a string to max runes with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
