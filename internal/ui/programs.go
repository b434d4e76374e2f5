package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cadre/internal/program"
	"github.com/five82/cadre/internal/state"
)

// cardHeight is the rendered height of one program card, border included.
const cardHeight = 4

const emptyIllustration = `   ┌─────────┐
   │ ▢ ▢ ▢ ▢ │
   │ ▢ ▢ ▢ ▢ │
   └─────────┘`

// renderPrograms renders the Programs view for the current display state.
func (m Model) renderPrograms() string {
	switch m.page.Display() {
	case state.DisplayLoading:
		return m.renderLoading()
	case state.DisplayEmpty:
		return m.renderEmpty()
	default:
		return m.renderToolbar() + "\n" + m.listView.View()
	}
}

func (m Model) renderLoading() string {
	styles := m.theme.Styles()
	return lipgloss.Place(
		m.width,
		m.contentHeight(),
		lipgloss.Center,
		lipgloss.Center,
		m.spinner.View()+" "+styles.MutedText.Render("Loading programs"),
	)
}

func (m Model) renderEmpty() string {
	styles := m.theme.Styles()
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		styles.FaintText.Render(emptyIllustration),
		"",
		styles.Text.Bold(true).Render("No programs yet"),
		styles.MutedText.Render("Programs you create will show up here."),
		"",
		styles.Button.Render("n  Create program"),
	)
	return lipgloss.Place(m.width, m.contentHeight(), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderToolbar() string {
	styles := m.theme.Styles()
	left := styles.Text.Bold(true).Render("Programs")
	right := styles.AccentText.Render("n") + styles.MutedText.Render(" Create program")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return " " + left + strings.Repeat(" ", gap) + right + " "
}

// renderCard renders one program: title, trainee count and creation date.
func (m Model) renderCard(p program.Program, selected bool, width int) string {
	styles := m.theme.Styles()
	card := styles.Card
	title := styles.Text.Bold(true)
	if selected {
		card = styles.CardFocused
		title = styles.Selected.Bold(true)
	}

	inner := max(width-4, 10)
	line1 := title.Render(truncate(p.Title, inner))

	details := []string{countLabel(p.TraineeCount, "trainee"), countLabel(p.DurationInWeeks, "week")}
	if date := program.FormatLongDate(p.CreatedAt, m.locale); date != "" {
		details = append(details, date)
	}
	line2 := styles.MutedText.Render(truncate(strings.Join(details, " · "), inner))

	return card.Width(max(width-2, 12)).Render(line1 + "\n" + line2)
}

// updateListViewport re-renders the cards and keeps the selection visible.
func (m *Model) updateListViewport() {
	if !m.ready {
		return
	}
	m.listView.Height = max(m.contentHeight()-1, 0)

	idx := m.selectedIndex()
	cards := make([]string, len(m.page.Programs))
	for i, p := range m.page.Programs {
		cards[i] = m.renderCard(p, i == idx, m.width)
	}
	m.listView.SetContent(strings.Join(cards, "\n"))

	top := idx * cardHeight
	switch {
	case top < m.listView.YOffset:
		m.listView.SetYOffset(top)
	case top+cardHeight > m.listView.YOffset+m.listView.Height:
		m.listView.SetYOffset(top + cardHeight - m.listView.Height)
	}
}

// selectedIndex finds the selected program by key, defaulting to the first.
func (m Model) selectedIndex() int {
	for i, p := range m.page.Programs {
		if p.Key() == m.selectedKey {
			return i
		}
	}
	return 0
}
