package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/auth"
	"github.com/luminalabs/lumina-cli/internal/config"
	"github.com/luminalabs/lumina-cli/internal/logging"
)

// surface identifies which screen the app is showing
type surface int

const (
	surfaceLogin surface = iota
	surfaceChat
	surfaceProfile
)

// Messages exchanged between surfaces and the root model
type (
	// sessionExpiredMsg is injected by the navigator when the gateway
	// rejects the credential mid-session
	sessionExpiredMsg struct{}

	// authenticatedMsg is sent by the login surface after the token is
	// stored and the credential handle is populated
	authenticatedMsg struct {
		email string
	}

	// showProfileMsg asks the root model to open the profile surface
	showProfileMsg struct{}

	// closeProfileMsg returns from the profile surface to the chat
	closeProfileMsg struct{}
)

// navigatorHandle bridges the gateway's credential rejections into the
// running bubbletea program. The gateway calls it from request
// goroutines, so state lives behind a mutex rather than on the model.
type navigatorHandle struct {
	mu            sync.Mutex
	onAuthSurface bool
	send          func(tea.Msg)
}

// Ensure navigatorHandle satisfies the gateway's Navigator
var _ api.Navigator = (*navigatorHandle)(nil)

func newNavigatorHandle() *navigatorHandle {
	return &navigatorHandle{}
}

// OnAuthSurface reports whether the login/register surface is showing
func (n *navigatorHandle) OnAuthSurface() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.onAuthSurface
}

// NavigateToLogin pushes the app to the login surface. Safe to call
// before the program is attached; navigation is then skipped.
func (n *navigatorHandle) NavigateToLogin() {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()

	if send != nil {
		send(sessionExpiredMsg{})
	}
}

func (n *navigatorHandle) setOnAuthSurface(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onAuthSurface = v
}

func (n *navigatorHandle) attach(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

// App is the root model. It owns surface switching and routes every
// other message to whichever surface is active.
type App struct {
	client api.LuminaClientInterface
	creds  *auth.Credentials
	store  *auth.Store
	cfg    config.Config
	logger *zap.Logger
	nav    *navigatorHandle

	surface surface
	login   LoginModel
	chat    ChatModel
	profile ProfileModel

	width  int
	height int
}

// NewApp creates the root model. The starting surface depends on
// whether a credential is already held.
func NewApp(client api.LuminaClientInterface, creds *auth.Credentials, store *auth.Store, cfg config.Config, logger *zap.Logger, nav *navigatorHandle) App {
	if logger == nil {
		logger = logging.Nop()
	}
	if nav == nil {
		nav = newNavigatorHandle()
	}

	app := App{
		client:  client,
		creds:   creds,
		store:   store,
		cfg:     cfg,
		logger:  logger,
		nav:     nav,
		surface: surfaceLogin,
		login:   NewLoginModel(client, creds, store, cfg),
	}

	if creds != nil && creds.IsAuthenticated() {
		app.surface = surfaceChat
		app.chat = NewChatModel(client, store, cfg, logger)
	}
	nav.setOnAuthSurface(app.surface == surfaceLogin)

	return app
}

// Init initializes the active surface
func (a App) Init() tea.Cmd {
	switch a.surface {
	case surfaceChat:
		return a.chat.Init()
	default:
		return a.login.Init()
	}
}

// Update handles surface switching and routes everything else down
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Remember the size so surfaces created later can be replayed it
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case sessionExpiredMsg:
		// Repeated rejections while already on the login surface must
		// not reset the form under the user
		if a.surface == surfaceLogin {
			return a, nil
		}
		a.logger.Info("session expired, returning to login")
		a.surface = surfaceLogin
		a.nav.setOnAuthSurface(true)
		a.login = NewLoginModel(a.client, a.creds, a.store, a.cfg)
		a.login.notice = "Your session has expired. Please sign in again."
		return a, tea.Batch(a.login.Init(), a.resize())

	case authenticatedMsg:
		a.logger.Info("authenticated", zap.String("email", msg.email))
		a.surface = surfaceChat
		a.nav.setOnAuthSurface(false)
		a.chat = NewChatModel(a.client, a.store, a.cfg, a.logger)
		return a, tea.Batch(a.chat.Init(), a.resize())

	case showProfileMsg:
		a.surface = surfaceProfile
		a.profile = NewProfileModel(a.client, a.cfg)
		return a, tea.Batch(a.profile.Init(), a.resize())

	case closeProfileMsg:
		a.surface = surfaceChat
		return a, a.resize()
	}

	var cmd tea.Cmd
	switch a.surface {
	case surfaceLogin:
		a.login, cmd = a.login.Update(msg)
	case surfaceChat:
		a.chat, cmd = a.chat.Update(msg)
	case surfaceProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

// resize replays the last known window size to the active surface
func (a App) resize() tea.Cmd {
	if a.width == 0 && a.height == 0 {
		return nil
	}
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// View renders the active surface
func (a App) View() string {
	switch a.surface {
	case surfaceChat:
		return a.chat.View()
	case surfaceProfile:
		return a.profile.View()
	default:
		return a.login.View()
	}
}

// Run starts the full-screen app. The navigator is wired to the client
// so credential rejections during any request land back on the login
// surface.
func Run(client *api.LuminaClient, creds *auth.Credentials, store *auth.Store, cfg config.Config, logger *zap.Logger) error {
	UpdateTheme(cfg.Theme)

	nav := newNavigatorHandle()
	app := NewApp(client, creds, store, cfg, logger, nav)

	p := tea.NewProgram(app, tea.WithAltScreen())
	nav.attach(p.Send)
	client.SetNavigator(nav)

	_, err := p.Run()
	return err
}
