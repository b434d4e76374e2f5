package ui

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/cadre/internal/program"
	"github.com/five82/cadre/internal/state"
)

const submitWaitLabel = "Please Wait..."

type dialogField struct {
	name        string
	label       string
	placeholder string
	numeric     bool
	charLimit   int
}

// dialogFields are the create form fields, in tab order.
var dialogFields = []dialogField{
	{name: program.FieldTitle, label: "Title:        ", placeholder: "e.g. Spring cohort", charLimit: 120},
	{name: program.FieldDurationInWeeks, label: "Weeks:        ", placeholder: "2", numeric: true, charLimit: 4},
	{name: program.FieldTraineeCount, label: "Trainees:     ", placeholder: "0", numeric: true, charLimit: 6},
	{name: program.FieldPrerequisite, label: "Prerequisite: ", placeholder: "program id (optional)", charLimit: 80},
}

func newFieldInputs() []textinput.Model {
	inputs := make([]textinput.Model, len(dialogFields))
	for i, f := range dialogFields {
		ti := textinput.New()
		ti.Placeholder = f.placeholder
		ti.CharLimit = f.charLimit
		ti.Width = 30
		ti.Prompt = ""
		inputs[i] = ti
	}
	return inputs
}

// openFieldInputs seeds the inputs from the page draft and focuses the first.
func (m *Model) openFieldInputs() {
	for i, f := range dialogFields {
		m.fieldInputs[i].SetValue(m.page.Draft.Value(f.name))
		m.fieldInputs[i].CursorEnd()
		m.fieldInputs[i].Blur()
	}
	m.fieldFocusIdx = 0
	m.fieldInputs[0].Focus()
}

func (m *Model) focusField(idx int) {
	m.fieldInputs[m.fieldFocusIdx].Blur()
	m.fieldFocusIdx = idx
	m.fieldInputs[m.fieldFocusIdx].Focus()
}

// handleDialogKey processes keyboard input while the create dialog is open.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Nothing but quitting while the create call is in flight.
	if m.page.Submitting() {
		return m, nil
	}

	n := len(m.fieldInputs)
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, m.apply(state.DialogClosed{})

	case key.Matches(msg, m.keys.Submit):
		return m, m.apply(state.Submitted{At: m.now()})

	case key.Matches(msg, m.keys.NextField):
		m.focusField((m.fieldFocusIdx + 1) % n)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.focusField((m.fieldFocusIdx - 1 + n) % n)
		return m, nil
	}

	field := dialogFields[m.fieldFocusIdx]
	if field.numeric && msg.Type == tea.KeyRunes && !allDigits(msg.Runes) {
		return m, nil
	}

	input := &m.fieldInputs[m.fieldFocusIdx]
	before := input.Value()
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	after := input.Value()
	if after == before {
		return m, cmd
	}

	// The input mirrors the draft; text the draft cannot hold is rolled back.
	check := m.page.Draft
	if err := check.Set(field.name, after); err != nil {
		input.SetValue(m.page.Draft.Value(field.name))
		return m, cmd
	}
	if edit := m.apply(state.FieldEdited{Field: field.name, Value: after}); edit != nil {
		cmd = tea.Batch(cmd, edit)
	}
	return m, cmd
}

func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// formErrors returns the errors that belong to no input: the form-level
// message and issues reported for fields the dialog does not edit.
func (m Model) formErrors() []string {
	var msgs []string
	for _, key := range slices.Sorted(maps.Keys(m.page.Errors)) {
		if slices.ContainsFunc(dialogFields, func(f dialogField) bool { return f.name == key }) {
			continue
		}
		msgs = append(msgs, m.page.Errors[key])
	}
	return msgs
}

// renderCreateDialog renders the create program modal over the page.
func (m Model) renderCreateDialog() string {
	styles := m.theme.Styles()

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render("Create Program"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	for i, f := range dialogFields {
		label := f.label
		if i == m.fieldFocusIdx {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(m.fieldInputs[i].View())
		b.WriteString("\n")
		if msg, ok := m.page.Errors[f.name]; ok {
			b.WriteString(strings.Repeat(" ", len(f.label)))
			b.WriteString(styles.DangerText.Render(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if msgs := m.formErrors(); len(msgs) > 0 {
		b.WriteString(styles.DangerText.Render(strings.Join(msgs, "\n")))
		b.WriteString("\n\n")
	}

	if m.page.Submitting() {
		b.WriteString(styles.ButtonDisabled.Render(submitWaitLabel))
	} else {
		b.WriteString(styles.Button.Render("Create"))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Close"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2).
		Width(54)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
