// ABOUTME: Root Bubble Tea model for care4u.
// ABOUTME: Routes keys to controller intents and renders onboarding or the active view.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"

	"github.com/harperreed/care4u/internal/companion"
	"github.com/harperreed/care4u/internal/models"
	"github.com/harperreed/care4u/internal/onboarding"
	"github.com/harperreed/care4u/internal/store"
	"github.com/harperreed/care4u/internal/tui/views"
)

const (
	defaultWidth   = 80
	defaultHeight  = 24
	defaultTimeout = 60 * time.Second
	eventBuffer    = 64
	chromeHeight   = 10
)

// Model is the main TUI model. All state lives in the store; the model only
// keeps what the terminal needs: inputs, cursors, and the status line.
type Model struct {
	store     *store.Store
	responder companion.Responder
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	timeout   time.Duration
	now       func() time.Time

	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	markdown *glamour.TermRenderer
	mdTheme  models.Theme
	mdWidth  int

	// onboarding
	form     *form
	formStep onboarding.Step
	cursor   int

	// dashboard
	chatInput      textinput.Model
	chatView       viewport.Model
	follow         bool
	scheduleCursor int
	settingsCursor int
	medForm        *form
	accountForm    *form

	events    chan tea.Msg
	status    string
	statusErr bool

	width  int
	height int
}

// Option customizes a Model.
type Option func(*Model)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		m.logger = l
	}
}

// WithTimeout bounds each companion reply.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithContext sets the parent context for replies and logins.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// New creates the root model over a store.
func New(st *store.Store, responder companion.Responder, opts ...Option) *Model {
	ci := textinput.New()
	ci.Placeholder = "Say something to your companion..."
	ci.CharLimit = 1000
	ci.Prompt = "› "
	ci.Width = defaultWidth - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		store:     st,
		responder: responder,
		logger:    log.Default(),
		ctx:       context.Background(),
		timeout:   defaultTimeout,
		now:       time.Now,
		keys:      DefaultKeyMap,
		help:      help.New(),
		spinner:   sp,
		chatInput: ci,
		chatView:  viewport.New(defaultWidth, defaultHeight-chromeHeight),
		follow:    true,
		events:    make(chan tea.Msg, eventBuffer),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.responder == nil {
		m.responder = companion.NewScripted(0)
	}
	m.ctx, m.cancel = context.WithCancel(m.ctx)
	m.syncForm()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.chatInput.Width = msg.Width - 4
		m.chatView.Width = msg.Width
		m.chatView.Height = max(msg.Height-chromeHeight, 3)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if m.store.Step().Terminal() {
			return m, m.updateDashboard(msg)
		}
		return m, m.updateOnboarding(msg)

	case fragmentMsg:
		return m, m.applyFragment(msg.fragment)

	case spinner.TickMsg:
		if !m.store.Replying() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.store.Snapshot()
	s := views.NewStyles(snap.Theme)
	if !snap.OnDashboard() {
		return m.viewOnboarding(s, snap)
	}
	return m.viewDashboard(s, snap)
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m *Model) setStatus(text string) {
	m.status, m.statusErr = text, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = friendlyError(err), true
	m.logger.Warn("action failed", "err", err)
}

func friendlyError(err error) string {
	switch {
	case errors.Is(err, onboarding.ErrGuardFailed):
		return "Please fill in the required fields."
	case errors.Is(err, store.ErrNotFound):
		return "Not found: " + err.Error()
	case errors.Is(err, store.ErrReplyInProgress):
		return "Your companion is still replying."
	}
	return err.Error()
}

func (m *Model) clearStatus() {
	m.status, m.statusErr = "", false
}

// keyIs reports whether a key message matches a binding.
func keyIs(msg tea.KeyMsg, b key.Binding) bool {
	return key.Matches(msg, b)
}
