package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/session"
	"github.com/five82/stockroom/internal/state"
)

var errNoAPI = errors.New("no catalog API configured")

// screen is the top-level page being shown.
type screen int

const (
	screenLogin screen = iota
	screenProducts
	screenActivity
)

// ThemeSaver persists the selected theme.
type ThemeSaver interface {
	SaveTheme(name string) error
}

// Options configures the UI.
type Options struct {
	Context        context.Context
	API            catalog.API
	Store          *state.Store
	Session        *session.Store
	Prefs          ThemeSaver // optional
	ThemeName      string
	RequestTimeout time.Duration
	RefreshEvery   time.Duration // zero disables auto-refresh
	LogPath        string
	Logger         *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	api          catalog.API
	store        *state.Store
	sessions     *session.Store
	prefs        ThemeSaver
	timeout      time.Duration
	refreshEvery time.Duration
	logPath      string
	logger       *zap.Logger
	keys         keyMap

	// UI state
	theme    Theme
	screen   screen
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	spinner  spinner.Model
	spinning bool
	notice   string
	noticeID int

	// initial holds the first listing request when a session was restored.
	initial *state.Request

	// Login state
	login loginForm

	// Products state
	snapshot    state.Snapshot
	selectedRow int
	search      searchBox

	// Activity state
	activity viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	store := opts.Store
	if store == nil {
		store = state.NewStore(state.Options{Logger: logger})
	}
	sessions := opts.Session
	if sessions == nil {
		sessions = session.NewStore("", logger)
	}

	m := Model{
		ctx:          ctx,
		api:          opts.API,
		store:        store,
		sessions:     sessions,
		prefs:        opts.Prefs,
		timeout:      timeout,
		refreshEvery: opts.RefreshEvery,
		logPath:      opts.LogPath,
		logger:       logger.Named("ui"),
		keys:         DefaultKeyMap(),
		theme:        GetTheme(opts.ThemeName),
		screen:       screenLogin,
		spinner:      spinner.New(spinner.WithSpinner(spinner.Dot)),
		login:        newLoginForm(),
		search:       newSearchBox(),
		snapshot:     store.Snapshot(),
	}
	if _, ok := sessions.Current(); ok {
		m.screen = screenProducts
		req := store.LoadProducts()
		m.initial = &req
		m.snapshot = store.Snapshot()
		m.spinning = true
	}
	m.search.SetValue(m.snapshot.Query.Search)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.initial != nil {
		cmds = append(cmds, m.fetchCmd(*m.initial), m.spinner.Tick)
	} else {
		cmds = append(cmds, textinput.Blink)
	}
	if m.refreshEvery > 0 {
		cmds = append(cmds, refreshTickCmd(m.refreshEvery))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeActivity()
		return m, nil

	case listingMsg:
		if m.store.Apply(state.Outcome(msg)) {
			m.syncSnapshot()
		}
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(msg)

	case productAddedMsg:
		added := m.store.AddLocal(msg.product)
		m.syncSnapshot()
		m.selectedRow = 0
		m.logger.Info("Product added", zap.Int64("id", added.ID))
		return m, m.showNotice("Product added")

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case searchDebounceMsg:
		if m.screen == screenLogin {
			return m, nil
		}
		if m.search.debounce.Fire(msg) {
			return m, m.commitSearch()
		}
		return m, nil

	case refreshTickMsg:
		var cmd tea.Cmd
		if m.screen == screenProducts && !m.snapshot.Loading && m.modal == nil {
			cmd = m.begin(m.store.LoadProducts())
		}
		return m, tea.Batch(cmd, refreshTickCmd(m.refreshEvery))

	case activityMsg:
		m.handleActivity(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading && !m.login.submitting {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.spinning = true
		return m, cmd
	}

	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.screen == screenLogin {
		var userCmd, passCmd tea.Cmd
		m.login.username, userCmd = m.login.username.Update(msg)
		m.login.password, passCmd = m.login.password.Update(msg)
		return m, tea.Batch(userCmd, passCmd)
	}
	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.screen == screenLogin {
		return m.renderLogin()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.CycleTheme) {
		m.cycleTheme()
		return m, nil
	}
	if m.modal != nil {
		return m.updateModal(msg)
	}

	switch m.screen {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenActivity:
		return m.handleActivityKey(msg)
	}

	if !m.search.Focused() && key.Matches(msg, m.keys.Help) {
		m.showHelp = true
		return m, nil
	}
	return m.handleProductsKey(msg)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd tea.Cmd
		req *catalog.LoginRequest
	)
	m.login, cmd, req = m.login.Update(msg, m.keys)
	if req == nil {
		return m, cmd
	}
	m.logger.Info("Signing in", zap.String("username", req.Username))
	return m, tea.Batch(cmd, m.startSpinner(), loginCmd(m.ctx, m.api, m.timeout, *req, m.login.remember))
}

func (m Model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("Sign in failed", zap.Error(msg.err))
		m.login.failed(state.ErrorMessage(msg.err))
		return m, nil
	}
	if _, err := m.sessions.Begin(msg.resp, msg.remember); err != nil {
		m.logger.Warn("Start session failed", zap.Error(err))
		if _, ok := m.sessions.Current(); !ok {
			m.login.failed(state.ErrorMessage(err))
			return m, nil
		}
	}
	m.login.submitting = false
	m.screen = screenProducts
	return m, m.begin(m.store.LoadProducts())
}

// logout ends the session and returns to the login screen.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.sessions.End()
	m.screen = screenLogin
	m.modal = nil
	m.search.Blur()
	m.search.debounce.Cancel()
	return m, m.login.reset()
}

func (m *Model) updateModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd, closed := m.modal.Update(msg, m.keys)
	if closed {
		m.modal = nil
	} else {
		m.modal = next
	}
	return *m, cmd
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.resizeActivity()
	if m.prefs == nil {
		return
	}
	if err := m.prefs.SaveTheme(m.theme.Name); err != nil {
		m.logger.Warn("Save theme failed", zap.Error(err))
	}
}

func (m *Model) currentSession() (session.Session, bool) {
	return m.sessions.Current()
}

// begin dispatches a listing request and keeps the snapshot in sync.
func (m *Model) begin(req state.Request) tea.Cmd {
	m.syncSnapshot()
	return tea.Batch(m.fetchCmd(req), m.startSpinner())
}

func (m *Model) syncSnapshot() {
	m.snapshot = m.store.Snapshot()
	if n := len(m.snapshot.Products); m.selectedRow >= n {
		m.selectedRow = max(n-1, 0)
	}
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) showNotice(text string) tea.Cmd {
	m.noticeID++
	m.notice = text
	id := m.noticeID
	return tea.Tick(NoticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// renderMain renders header, command bar and the active screen.
func (m Model) renderMain() string {
	body := m.renderProducts()
	if m.screen == screenActivity {
		body = m.renderActivity()
	}
	return m.renderHeader() + "\n" + m.renderCommandBar() + "\n" + body
}

// Messages

// listingMsg is a finished listing fetch.
type listingMsg state.Outcome

type refreshTickMsg time.Time

type noticeExpiredMsg struct {
	id int
}

// Commands

func (m *Model) fetchCmd(req state.Request) tea.Cmd {
	ctx, api, timeout := m.ctx, m.api, m.timeout
	return func() tea.Msg {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		var src state.Source
		if api != nil {
			src = api
		}
		return listingMsg(state.Fetch(callCtx, src, req))
	}
}

func refreshTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context.Err() != nil {
		return nil
	}
	return err
}
