package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/five82/cadre/internal/config"
	"github.com/five82/cadre/internal/program"
	"github.com/five82/cadre/internal/state"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local)

type fakeGateway struct {
	mu        sync.Mutex
	snaps     []program.Snapshot
	getErr    error
	createID  string
	createErr error
	created   []program.Draft
}

func (f *fakeGateway) GetAll(context.Context) ([]program.Snapshot, error) {
	return f.snaps, f.getErr
}

func (f *fakeGateway) Create(_ context.Context, d program.Draft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	if err := program.Validate(d); err != nil {
		return "", err
	}
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}

func newTestModel(t *testing.T, gw program.Gateway) Model {
	t.Helper()
	m := New(Options{
		Gateway:   gw,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Locale:    "en",
		Now:       func() time.Time { return testNow },
		NewKey:    func() string { return "draft-1" },
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// collect runs cmd and returns the messages it produces, expanding batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// deliver feeds the gateway replies produced by cmd back into the model.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case programsLoadedMsg, programCreatedMsg:
			m, _ = update(t, m, msg)
		}
	}
	return m
}

func loaded(t *testing.T, gw program.Gateway) Model {
	t.Helper()
	m := newTestModel(t, gw)
	m, cmd := update(t, m, m.Init()())
	if !m.Page().Loading {
		t.Fatalf("page not loading after init")
	}
	return deliver(t, m, cmd)
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

func TestModel_LoadingShowsSpinnerOnly(t *testing.T) {
	m := newTestModel(t, &fakeGateway{})
	m, _ = update(t, m, m.Init()())

	if got := m.Page().Display(); got != state.DisplayLoading {
		t.Fatalf("display = %v, want loading", got)
	}
	view := m.View()
	if !strings.Contains(view, "Loading programs") {
		t.Fatalf("view missing loading indicator:\n%s", view)
	}
	if strings.Contains(view, "No programs yet") {
		t.Fatalf("loading view shows empty state:\n%s", view)
	}

	// create is unavailable until the load finishes
	m = typeText(t, m, "n")
	if m.Page().DialogOpen() {
		t.Fatalf("dialog opened while loading")
	}
}

func TestModel_EmptyLoadShowsEmptyState(t *testing.T) {
	m := loaded(t, &fakeGateway{})

	if got := m.Page().Display(); got != state.DisplayEmpty {
		t.Fatalf("display = %v, want empty", got)
	}
	if view := m.View(); !strings.Contains(view, "No programs yet") || !strings.Contains(view, "Create program") {
		t.Fatalf("view missing empty state:\n%s", view)
	}
}

func TestModel_LoadFailureShowsEmptyState(t *testing.T) {
	m := loaded(t, &fakeGateway{getErr: errors.New("unreachable")})

	if got := m.Page().Display(); got != state.DisplayEmpty {
		t.Fatalf("display = %v, want empty", got)
	}
	if !strings.Contains(m.View(), "load failed") {
		t.Fatalf("header does not mention the failed load")
	}
}

func TestModel_RendersProgramCards(t *testing.T) {
	gw := &fakeGateway{snaps: []program.Snapshot{
		{ID: "a", Data: map[string]any{
			program.FieldTitle:        "Morning cohort",
			program.FieldTraineeCount: 12,
			program.FieldCreatedAt:    map[string]any{"seconds": testNow.Unix(), "nanos": 0},
		}},
		{ID: "b", Data: map[string]any{program.FieldTitle: "Evening cohort"}},
	}}
	m := loaded(t, gw)

	view := m.View()
	for _, want := range []string{"Morning cohort", "Evening cohort", "12 trainees", "June 1, 2024"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	m = typeText(t, m, "j")
	if m.selectedKey != "b" {
		t.Fatalf("selectedKey = %q, want b", m.selectedKey)
	}
	m = typeText(t, m, "j")
	if m.selectedKey != "b" {
		t.Fatalf("selection moved past the last card: %q", m.selectedKey)
	}
}

func TestModel_CreateProgramEndToEnd(t *testing.T) {
	gw := &fakeGateway{createID: "abc123"}
	m := loaded(t, gw)
	before := len(m.Page().Programs)

	m = typeText(t, m, "n")
	if !m.Page().DialogOpen() {
		t.Fatalf("dialog not open after n")
	}
	m = typeText(t, m, "Cohort 5")
	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyBackspace)
	m = typeText(t, m, "6")

	m, cmd := press(t, m, tea.KeyEnter)
	if !m.Page().Submitting() {
		t.Fatalf("page not submitting after enter")
	}
	if !strings.Contains(m.View(), submitWaitLabel) {
		t.Fatalf("submit button does not show %q", submitWaitLabel)
	}

	m = deliver(t, m, cmd)
	page := m.Page()
	if page.DialogOpen() || page.Submitting() {
		t.Fatalf("dialog still open after success: phase %v", page.Phase)
	}
	if len(page.Errors) != 0 {
		t.Fatalf("errors = %v, want none", page.Errors)
	}
	if len(page.Programs) != before+1 {
		t.Fatalf("programs = %d, want %d", len(page.Programs), before+1)
	}
	got := page.Programs[len(page.Programs)-1]
	if got.ID != "abc123" || got.Title != "Cohort 5" || got.DurationInWeeks != 6 || got.TraineeCount != 0 {
		t.Fatalf("created program = %#v", got)
	}
	if !got.CreatedAt.Equal(testNow) {
		t.Fatalf("CreatedAt = %v, want %v", got.CreatedAt, testNow)
	}
	if !strings.Contains(m.View(), "Cohort 5") {
		t.Fatalf("new program not rendered")
	}
}

func TestModel_ValidationErrorKeepsDialogAndDraft(t *testing.T) {
	m := loaded(t, &fakeGateway{createID: "x"})

	m = typeText(t, m, "n")
	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "7")

	m, cmd := press(t, m, tea.KeyEnter)
	m = deliver(t, m, cmd)

	page := m.Page()
	if !page.DialogOpen() || page.Submitting() {
		t.Fatalf("phase = %v, want editing", page.Phase)
	}
	if len(page.Errors) != 1 || page.Errors[program.FieldTitle] != "Field is required" {
		t.Fatalf("errors = %v, want one title error", page.Errors)
	}
	if !strings.Contains(m.View(), "Field is required") {
		t.Fatalf("error message not rendered")
	}
	if page.Draft.TraineeCount != 7 {
		t.Fatalf("draft trainees = %d, want 7", page.Draft.TraineeCount)
	}

	// closing and reopening shows the retained values
	m, _ = press(t, m, tea.KeyEsc)
	m = typeText(t, m, "n")
	if got := m.fieldInputs[2].Value(); got != "7" {
		t.Fatalf("trainee input = %q, want retained 7", got)
	}
}

func TestModel_TransportErrorAllowsRetry(t *testing.T) {
	gw := &fakeGateway{createErr: errors.New("connection reset")}
	m := loaded(t, gw)

	m = typeText(t, m, "n")
	m = typeText(t, m, "Retry me")
	m, cmd := press(t, m, tea.KeyEnter)
	m = deliver(t, m, cmd)

	page := m.Page()
	if page.Submitting() {
		t.Fatalf("still submitting after transport error")
	}
	if page.Errors[program.FormErrorKey] != state.GenericCreateError {
		t.Fatalf("errors = %v, want generic form error", page.Errors)
	}
	if !strings.Contains(m.View(), state.GenericCreateError) {
		t.Fatalf("generic error not rendered")
	}

	gw.createErr = nil
	gw.createID = "second"
	m, cmd = press(t, m, tea.KeyEnter)
	m = deliver(t, m, cmd)
	if n := len(m.Page().Programs); n != 1 {
		t.Fatalf("programs = %d after retry, want 1", n)
	}
}

func TestModel_FailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gw := &fakeGateway{getErr: errors.New("unreachable"), createErr: errors.New("connection reset")}
	m := New(Options{
		Gateway:   gw,
		Logger:    zap.New(core),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Now:       func() time.Time { return testNow },
		NewKey:    func() string { return "draft-1" },
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, cmd := update(t, m, m.Init()())
	m = deliver(t, m, cmd)

	m = typeText(t, m, "n")
	m = typeText(t, m, "Evening")
	m, cmd = press(t, m, tea.KeyEnter)
	_ = deliver(t, m, cmd)

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(errs) != 2 {
		t.Fatalf("error entries = %d, want load and create failures", len(errs))
	}
	for _, entry := range errs {
		if _, ok := entry.ContextMap()["error"]; !ok {
			t.Fatalf("entry %q has no error field", entry.Message)
		}
	}
}

func TestModel_DuplicateSubmitIgnored(t *testing.T) {
	gw := &fakeGateway{createID: "once"}
	m := loaded(t, gw)

	m = typeText(t, m, "n")
	m = typeText(t, m, "Cohort 9")
	m, first := press(t, m, tea.KeyEnter)
	m, second := press(t, m, tea.KeyEnter)
	if second != nil {
		t.Fatalf("second enter returned a command while submitting")
	}
	m = typeText(t, m, "zzz")
	if got := m.Page().Draft.Title; got != "Cohort 9" {
		t.Fatalf("draft edited while submitting: %q", got)
	}

	m = deliver(t, m, first)
	if len(gw.created) != 1 {
		t.Fatalf("gateway called %d times, want 1", len(gw.created))
	}
	if n := len(m.Page().Programs); n != 1 {
		t.Fatalf("programs = %d, want 1", n)
	}
}

func TestModel_NumericFieldsRejectLetters(t *testing.T) {
	m := loaded(t, &fakeGateway{})

	m = typeText(t, m, "n")
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "x")
	if got := m.fieldInputs[1].Value(); got != "2" {
		t.Fatalf("weeks input = %q, want unchanged 2", got)
	}
	if got := m.Page().Draft.DurationInWeeks; got != program.DefaultDurationInWeeks {
		t.Fatalf("draft weeks = %d", got)
	}
}

func TestModel_NumericFieldsRejectNonASCIIDigits(t *testing.T) {
	m := loaded(t, &fakeGateway{createID: "w"})

	m = typeText(t, m, "n")
	m = typeText(t, m, "Cohort 7")
	m, _ = press(t, m, tea.KeyTab)
	m = typeText(t, m, "٣")
	m = typeText(t, m, "5")

	weeks := m.fieldInputs[1].Value()
	if want := m.Page().Draft.Value(program.FieldDurationInWeeks); weeks != want {
		t.Fatalf("weeks input = %q, draft = %q; want equal", weeks, want)
	}
	if weeks != "25" {
		t.Fatalf("weeks input = %q, want 25", weeks)
	}

	m, cmd := press(t, m, tea.KeyEnter)
	m = deliver(t, m, cmd)
	if got := m.Page().Programs[0].DurationInWeeks; got != 25 {
		t.Fatalf("saved weeks = %d, want 25", got)
	}
}

func TestModel_ValidationErrorOnHiddenFieldIsShown(t *testing.T) {
	gw := &fakeGateway{createErr: &program.ValidationError{Issues: []program.Issue{
		{Path: []string{program.FieldCreatedAt}, Message: `"createdAt" must be a valid date`},
	}}}
	m := loaded(t, gw)

	m = typeText(t, m, "n")
	m = typeText(t, m, "Cohort 8")
	m, cmd := press(t, m, tea.KeyEnter)
	m = deliver(t, m, cmd)

	page := m.Page()
	if !page.DialogOpen() || page.Submitting() {
		t.Fatalf("phase = %v, want editing", page.Phase)
	}
	if page.Errors[program.FieldCreatedAt] != "Field must be a valid date" {
		t.Fatalf("errors = %v, want createdAt error", page.Errors)
	}
	if !strings.Contains(m.View(), "Field must be a valid date") {
		t.Fatalf("createdAt error not rendered in the dialog")
	}
}

func TestModel_ThemeCycleSavesPrefs(t *testing.T) {
	m := loaded(t, &fakeGateway{})

	m = typeText(t, m, "T")
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	raw, err := os.ReadFile(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs not written: %v", err)
	}
	if !strings.Contains(string(raw), "Kanagawa") || !strings.Contains(string(raw), "en") {
		t.Fatalf("prefs = %q, want theme and locale", raw)
	}
}

func TestModel_SettingsView(t *testing.T) {
	m := New(Options{
		Gateway: &fakeGateway{},
		Config: &config.Config{
			Backend:        config.BackendDocstore,
			Collection:     "cohorts",
			RequestTimeout: 3 * time.Second,
		},
		Locale: "de",
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = typeText(t, m, "s")

	if m.currentView != ViewSettings {
		t.Fatalf("view = %v, want settings", m.currentView)
	}
	view := m.View()
	for _, want := range []string{"Settings", "docstore", "cohorts", "3s", "de"} {
		if !strings.Contains(view, want) {
			t.Fatalf("settings view missing %q:\n%s", want, view)
		}
	}

	m, _ = press(t, m, tea.KeyTab)
	if m.currentView != ViewPrograms {
		t.Fatalf("tab did not return to programs")
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := loaded(t, &fakeGateway{})

	m = typeText(t, m, "?")
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = typeText(t, m, "x")
	if m.showHelp {
		t.Fatalf("help overlay still open")
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := loaded(t, &fakeGateway{})

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if msgs := collect(cmd); len(msgs) != 1 {
		t.Fatalf("q produced %d messages, want quit", len(msgs))
	} else if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Fatalf("q produced %T, want tea.QuitMsg", msgs[0])
	}

	// q types into the dialog instead of quitting
	m = typeText(t, m, "n")
	m = typeText(t, m, "q")
	if got := m.Page().Draft.Title; got != "q" {
		t.Fatalf("title = %q, want q", got)
	}
}
