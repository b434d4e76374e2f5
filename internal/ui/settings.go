package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderSettings shows the active configuration. Nothing here is editable.
func (m Model) renderSettings() string {
	styles := m.theme.Styles()

	rows := [][2]string{
		{"Theme", m.theme.Name},
		{"Locale", m.locale},
	}
	if c := m.config; c != nil {
		rows = append(rows,
			[2]string{"Backend", c.Backend},
			[2]string{"Collection", c.Collection},
			[2]string{"Request timeout", c.RequestTimeout.String()},
			[2]string{"Log file", c.LogFile},
		)
		if c.MetricsAddr != "" {
			rows = append(rows, [2]string{"Metrics", "http://" + c.MetricsAddr + "/metrics"})
		}
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Settings"))
	b.WriteString("\n\n")
	labelStyle := styles.MutedText.Width(18)
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = "-"
		}
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Edit config.toml or prefs.toml to change these."))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
