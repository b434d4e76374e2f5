// Package ui provides the cadre terminal interface, built on Bubble Tea.
//
// # Views
//
// Two views share a header and a command bar:
//
//   - Programs: a spinner while the initial load runs, then either an empty
//     state with a create prompt or a scrollable list of program cards
//     (title, trainee count, duration, long-form creation date).
//   - Settings: the active configuration, read-only.
//
// # State
//
// The Programs page is a state.Page. Key presses and gateway replies become
// state events; Model.apply runs state.Apply and converts the returned
// effect into a tea.Cmd (load, create) or a log entry. The UI never changes
// page fields directly.
//
// # Create dialog
//
// Pressing n opens a centered modal with one text input per draft field.
// Every keystroke that changes a value is forwarded as state.FieldEdited, so
// the draft always matches what is on screen and survives closing the
// dialog. Numeric fields drop non-digit input. Enter submits; while the
// create call runs the button reads "Please Wait..." and input is ignored.
// A rejected draft shows one message under the offending field.
//
// # Files
//
//   - app.go: Model, Update loop, messages and gateway commands
//   - dialog.go: create dialog inputs, key handling and rendering
//   - programs.go: loading, empty and populated renderings
//   - settings.go: settings view
//   - header.go: header and command bar
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: palettes and lipgloss helpers
package ui
