package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/cadre/internal/config"
	"github.com/five82/cadre/internal/prefs"
	"github.com/five82/cadre/internal/program"
	"github.com/five82/cadre/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewPrograms View = iota
	ViewSettings
)

const defaultRequestTimeout = 10 * time.Second

// Options configures the UI.
type Options struct {
	Context        context.Context
	Gateway        program.Gateway
	Config         *config.Config
	Logger         *zap.Logger
	RequestTimeout time.Duration
	ThemeName      string
	Locale         string
	PrefsPath      string
	// Now and NewKey default to time.Now and uuid.NewString.
	Now    func() time.Time
	NewKey func() string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	gateway   program.Gateway
	config    *config.Config
	log       *zap.Logger
	timeout   time.Duration
	prefsPath string
	locale    string
	now       func() time.Time
	newKey    func() string
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Programs page
	page        state.Page
	spinner     spinner.Model
	listView    viewport.Model
	selectedKey string

	// Create dialog
	fieldInputs   []textinput.Model
	fieldFocusIdx int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newKey := opts.NewKey
	if newKey == nil {
		newKey = uuid.NewString
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		gateway:     opts.Gateway,
		config:      opts.Config,
		log:         logger,
		timeout:     timeout,
		prefsPath:   prefsPath,
		locale:      opts.Locale,
		now:         now,
		newKey:      newKey,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewPrograms,
		spinner:     sp,
		fieldInputs: newFieldInputs(),
	}
}

// Page returns the Programs page state.
func (m Model) Page() state.Page {
	return m.page
}

// Init implements tea.Model. The program list is fetched once, here.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startLoadMsg{} }
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.listView = viewport.New(msg.Width, m.contentHeight())
		}
		m.ready = true
		m.listView.Width = msg.Width
		m.listView.Height = m.contentHeight()
		m.updateListViewport()
		return m, nil

	case startLoadMsg:
		cmd := m.apply(state.LoadStarted{})
		if m.page.Loading {
			return m, tea.Batch(cmd, m.spinner.Tick)
		}
		return m, cmd

	case spinner.TickMsg:
		if !m.page.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case programsLoadedMsg:
		if msg.err != nil {
			return m, m.apply(state.LoadFailed{Err: msg.err})
		}
		if msg.decodeErr != nil {
			m.log.Warn("skipped unreadable programs", zap.Error(msg.decodeErr))
		}
		m.log.Debug("programs loaded", zap.Int("count", len(msg.programs)))
		return m, m.apply(state.LoadSucceeded{Programs: msg.programs})

	case programCreatedMsg:
		if msg.err != nil {
			return m, m.apply(state.CreateFailed{Err: msg.err})
		}
		m.log.Info("program created", zap.String("id", msg.id))
		m.selectedKey = msg.id
		return m, m.apply(state.CreateSucceeded{ID: msg.id})
	}

	return m, nil
}

// apply runs a page transition and turns its effect into a command.
func (m *Model) apply(ev state.Event) tea.Cmd {
	wasOpen := m.page.DialogOpen()
	var eff state.Effect
	m.page, eff = state.Apply(m.page, ev)
	if m.page.DialogOpen() && !wasOpen {
		m.openFieldInputs()
	}
	m.updateListViewport()

	switch eff := eff.(type) {
	case state.EffectLoad:
		return loadProgramsCmd(m.ctx, m.gateway, m.timeout)
	case state.EffectCreate:
		return createProgramCmd(m.ctx, m.gateway, m.timeout, eff.Draft)
	case state.EffectLog:
		m.log.Error(eff.Msg, zap.Error(eff.Err))
	}
	return nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.currentView == ViewPrograms && m.page.DialogOpen() {
		return m.renderCreateDialog()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.currentView == ViewPrograms && m.page.DialogOpen() {
		return m.handleDialogKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Locale: m.locale}); err != nil {
				m.log.Warn("save prefs", zap.Error(err))
			}
		}
		m.updateListViewport()
		return m, nil

	case key.Matches(msg, m.keys.ViewPrograms):
		m.currentView = ViewPrograms
		return m, nil

	case key.Matches(msg, m.keys.ViewSettings):
		m.currentView = ViewSettings
		return m, nil

	case key.Matches(msg, m.keys.NextView):
		if m.currentView == ViewPrograms {
			m.currentView = ViewSettings
		} else {
			m.currentView = ViewPrograms
		}
		return m, nil
	}

	if m.currentView == ViewPrograms {
		return m.handleProgramsKey(msg)
	}
	return m, nil
}

// handleProgramsKey processes keyboard input for the Programs view.
func (m Model) handleProgramsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.page.Loading {
		return m, nil
	}

	if key.Matches(msg, m.keys.Create) {
		cmd := m.apply(state.DialogOpened{Fresh: program.NewDraft(m.newKey())})
		return m, cmd
	}

	count := len(m.page.Programs)
	if count == 0 {
		return m, nil
	}
	idx := m.selectedIndex()
	switch {
	case key.Matches(msg, m.keys.Down):
		idx = min(idx+1, count-1)
	case key.Matches(msg, m.keys.Up):
		idx = max(idx-1, 0)
	case key.Matches(msg, m.keys.Top):
		idx = 0
	case key.Matches(msg, m.keys.Bottom):
		idx = count - 1
	default:
		return m, nil
	}
	m.selectedKey = m.page.Programs[idx].Key()
	m.updateListViewport()
	return m, nil
}

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-headerLines, 0)
}

// Messages

type startLoadMsg struct{}

type programsLoadedMsg struct {
	programs  []program.Program
	decodeErr error
	err       error
}

type programCreatedMsg struct {
	id  string
	err error
}

// Commands

func loadProgramsCmd(ctx context.Context, gw program.Gateway, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		snaps, err := gw.GetAll(ctx)
		if err != nil {
			return programsLoadedMsg{err: err}
		}
		programs, decodeErr := program.FromSnapshots(snaps)
		return programsLoadedMsg{programs: programs, decodeErr: decodeErr}
	}
}

func createProgramCmd(ctx context.Context, gw program.Gateway, timeout time.Duration, draft program.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		id, err := gw.Create(ctx, draft)
		return programCreatedMsg{id: id, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
