package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/auth"
	"github.com/luminalabs/lumina-cli/internal/chat"
	"github.com/luminalabs/lumina-cli/internal/config"
	"github.com/luminalabs/lumina-cli/internal/logging"
	"github.com/luminalabs/lumina-cli/internal/models"
	"github.com/luminalabs/lumina-cli/internal/render"
)

// Message types for the chat surface
type (
	// sessionsLoadedMsg carries the session list fetched at startup
	sessionsLoadedMsg struct {
		sessions []models.Session
		err      error
	}

	// userLoadedMsg carries the signed-in account for the header
	userLoadedMsg struct {
		user models.User
		err  error
	}

	// sendResultMsg pairs a send outcome with the ticket that issued it
	sendResultMsg struct {
		ticket  chat.SendTicket
		outcome chat.SendOutcome
	}

	// historyFetchedMsg pairs fetched history with its load ticket
	historyFetchedMsg struct {
		ticket   chat.LoadTicket
		messages []models.Message
		err      error
	}

	// sessionDeletedMsg reports a delete request finishing
	sessionDeletedMsg struct {
		id  string
		err error
	}

	// clearFeedbackMsg expires the transient status line
	clearFeedbackMsg struct{}
)

// ChatModel is the main surface: session sidebar, conversation view,
// and input. All view state lives in the chat package; this model only
// translates key presses into its operations and runs the network
// steps inside tea.Cmds.
type ChatModel struct {
	client   api.LuminaClientInterface
	conv     *chat.Conversation
	registry *chat.Registry
	store    *auth.Store
	cfg      config.Config
	timeout  time.Duration
	logger   *zap.Logger

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model
	sidebar  sidebar

	sidebarFocused bool
	user           models.User
	welcome        string
	feedback       string
	err            error

	width  int
	height int
	ready  bool
}

// NewChatModel creates the chat surface. The fresh-login flag is
// consumed here, so the welcome line shows exactly once per login.
func NewChatModel(client api.LuminaClientInterface, store *auth.Store, cfg config.Config, logger *zap.Logger) ChatModel {
	if logger == nil {
		logger = logging.Nop()
	}

	ta := textarea.New()
	ta.Placeholder = "Ask Lumina anything..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := ChatModel{
		client:   client,
		conv:     chat.NewConversation(client, chat.WithLogger(logger)),
		registry: chat.NewRegistry(),
		store:    store,
		cfg:      cfg,
		timeout:  cfg.RequestTimeout(),
		logger:   logger,
		textarea: ta,
		spinner:  s,
	}

	if store != nil && store.ConsumeFreshLogin() {
		m.welcome = "Welcome to Lumina! Ask anything to get started."
	}

	return m
}

// Init starts the input blink, the spinner, and the startup fetches
func (m ChatModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
		m.loadSessions(),
		m.loadUser(),
	)
}

// loadSessions fetches the session list for the sidebar
func (m ChatModel) loadSessions() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		sessions, err := client.ListChats(ctx)
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

// loadUser fetches the account shown in the header
func (m ChatModel) loadUser() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := client.CurrentUser(ctx)
		return userLoadedMsg{user: user, err: err}
	}
}

// exchange runs the network half of a send off the update loop
func (m ChatModel) exchange(ticket chat.SendTicket) tea.Cmd {
	conv, timeout := m.conv, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sendResultMsg{ticket: ticket, outcome: conv.Exchange(ctx, ticket)}
	}
}

// fetchHistory runs the history fetch for an activation ticket
func (m ChatModel) fetchHistory(ticket chat.LoadTicket) tea.Cmd {
	conv, timeout := m.conv, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		messages, err := conv.FetchHistory(ctx, ticket)
		return historyFetchedMsg{ticket: ticket, messages: messages, err: err}
	}
}

// deleteSession asks the service to remove a session
func (m ChatModel) deleteSession(id string) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return sessionDeletedMsg{id: id, err: client.DeleteChat(ctx, id)}
	}
}

// clearFeedbackLater expires the status line after a short delay
func (m ChatModel) clearFeedbackLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearFeedbackMsg{}
	})
}

// Update handles messages and updates the model
func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()

	case tea.KeyMsg:
		handled, next, keyCmd := m.handleKey(msg)
		if handled {
			return next, keyCmd
		}
		m = next

	case sessionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.registry.Replace(msg.sessions)
			m.sidebar.setSessions(m.registry.Sessions())
		}

	case userLoadedMsg:
		// The header just goes without a name if this fails; a dead
		// credential already navigated via the gateway
		if msg.err == nil {
			m.user = msg.user
		}

	case sendResultMsg:
		// Server-side facts land in the registry even when the view
		// has moved on: the session and its title exist regardless.
		if msg.outcome.Provisioned != nil {
			m.registry.Prepend(*msg.outcome.Provisioned)
		}
		if msg.outcome.Result != nil && msg.outcome.Result.HasTitle() {
			m.registry.Rename(msg.outcome.Result.ChatID, msg.outcome.Result.Title)
		}
		m.sidebar.setSessions(m.registry.Sessions())
		if m.conv.Resolve(msg.ticket, msg.outcome) {
			m.sidebar.moveTo(m.conv.ActiveID())
			m.refreshViewport()
			m.viewport.GotoBottom()
		}

	case historyFetchedMsg:
		if m.conv.ResolveHistory(msg.ticket, msg.messages, msg.err) {
			if msg.err != nil {
				m.err = msg.err
			}
			m.refreshViewport()
			m.viewport.GotoBottom()
		}

	case sessionDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		cmds = append(cmds, m.applyRemoval(msg.id)...)

	case clearFeedbackMsg:
		m.feedback = ""

	case spinner.TickMsg:
		if m.conv.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Typing goes to the textarea only when it holds focus and no
	// request is in flight
	if !m.sidebarFocused && !m.conv.Busy() {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes a key press. handled true means the key was an
// action and must not fall through to the child components.
func (m ChatModel) handleKey(msg tea.KeyMsg) (bool, ChatModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return true, m, tea.Quit

	case "esc":
		if m.sidebarFocused {
			m.sidebarFocused = false
			return true, m, m.textarea.Focus()
		}
		return true, m, tea.Quit

	case "tab":
		m.sidebarFocused = !m.sidebarFocused
		if m.sidebarFocused {
			m.textarea.Blur()
			return true, m, nil
		}
		return true, m, m.textarea.Focus()

	case "ctrl+n":
		// New Chat is purely local: nothing is provisioned until the
		// first message goes out
		m.conv.Reset()
		m.err = nil
		m.welcome = ""
		m.sidebarFocused = false
		m.refreshViewport()
		return true, m, m.textarea.Focus()

	case "ctrl+p":
		return true, m, func() tea.Msg { return showProfileMsg{} }

	case "ctrl+y":
		reply, ok := lastModelReply(m.conv.Messages())
		if !ok {
			return true, m, nil
		}
		if err := clipboard.WriteAll(reply); err != nil {
			m.feedback = "Copy failed: no clipboard available"
		} else {
			m.feedback = "Reply copied to clipboard"
		}
		return true, m, m.clearFeedbackLater()

	case "ctrl+d":
		var target string
		if m.sidebarFocused {
			if sess, ok := m.sidebar.selected(); ok {
				target = sess.ID
			}
		} else {
			target = m.conv.ActiveID()
		}
		if target == "" {
			return true, m, nil
		}
		m.feedback = "Deleting session..."
		return true, m, m.deleteSession(target)

	case "up", "k":
		if m.sidebarFocused {
			m.sidebar.moveUp()
			return true, m, nil
		}

	case "down", "j":
		if m.sidebarFocused {
			m.sidebar.moveDown()
			return true, m, nil
		}

	case "enter":
		if m.sidebarFocused {
			next, cmd := m.activateSelected()
			return true, next, cmd
		}
		next, cmd := m.submitInput()
		return true, next, cmd
	}

	return false, m, nil
}

// activateSelected switches the view to the session under the cursor
func (m ChatModel) activateSelected() (ChatModel, tea.Cmd) {
	sess, ok := m.sidebar.selected()
	if !ok {
		return m, nil
	}

	ticket, ok := m.conv.Activate(sess.ID)
	if !ok {
		return m, nil
	}

	m.err = nil
	m.welcome = ""
	m.refreshViewport()
	return m, tea.Batch(m.fetchHistory(ticket), m.spinner.Tick)
}

// submitInput pushes the composed message and starts the exchange
func (m ChatModel) submitInput() (ChatModel, tea.Cmd) {
	ticket, err := m.conv.Push(m.textarea.Value())
	if err != nil {
		// Empty input and send-in-flight both swallow the keystroke;
		// the composed text stays put
		return m, nil
	}

	m.err = nil
	m.welcome = ""
	m.textarea.Reset()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.exchange(ticket), m.spinner.Tick)
}

// applyRemoval updates registry and view after a confirmed delete. The
// successor rule: if the removed session was showing, the first
// remaining session takes over; with none left the view resets.
func (m *ChatModel) applyRemoval(id string) []tea.Cmd {
	successor, removed := m.registry.Remove(id)
	if !removed {
		return nil
	}

	m.sidebar.setSessions(m.registry.Sessions())
	m.feedback = "Session deleted"
	cmds := []tea.Cmd{m.clearFeedbackLater()}

	if m.conv.ActiveID() == id {
		if successor != nil {
			if ticket, ok := m.conv.Activate(successor.ID); ok {
				m.sidebar.moveTo(successor.ID)
				cmds = append(cmds, m.fetchHistory(ticket), m.spinner.Tick)
			}
		} else {
			m.conv.Reset()
		}
		m.refreshViewport()
	}

	return cmds
}

// layout recomputes component dimensions from the window size
func (m *ChatModel) layout() {
	sidebarWidth := 30
	if m.width < 100 {
		sidebarWidth = m.width / 3
	}
	if sidebarWidth < 20 {
		sidebarWidth = 20
	}

	headerHeight := 3
	inputHeight := 4
	statusHeight := 2

	vpHeight := m.height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < 5 {
		vpHeight = 5
	}

	contentWidth := m.width - sidebarWidth - 6
	if contentWidth < 20 {
		contentWidth = 20
	}

	m.sidebar.width = sidebarWidth
	m.sidebar.height = vpHeight

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}

	m.textarea.SetWidth(m.width - 8)
}

// refreshViewport rebuilds the conversation pane from the view state
func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}

	wrap := m.viewport.Width - 4
	if wrap < 20 {
		wrap = 20
	}
	opts := render.OptionsFromConfig(&m.cfg, wrap-2)

	var content strings.Builder
	for i, msg := range m.conv.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			content.WriteString(userLabelStyle.Render("⬤ You") + "\n")
			content.WriteString(userBubbleStyle.Width(wrap).Render(msg.Content))
		} else {
			content.WriteString(assistantLabelStyle.Render("✦ Lumina") + "\n")
			rendered := strings.TrimRight(render.MarkdownOrPlain(msg.Content, opts), "\n")
			content.WriteString(assistantBubbleStyle.Width(wrap).Render(rendered))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// View renders the chat surface
func (m ChatModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 2

	sections = append(sections, m.renderHeader(contentWidth))

	if m.welcome != "" {
		sections = append(sections, welcomeStyle.Render("  "+m.welcome))
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebar.view(m.conv.ActiveID(), m.sidebarFocused),
		m.messagesPanel(),
	)
	sections = append(sections, body)

	sections = append(sections, m.renderInput(contentWidth))
	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.feedback != "" {
		sections = append(sections, feedbackStyle.Render("  "+m.feedback))
	}
	if m.err != nil {
		sections = append(sections, FormatError(m.err))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the top bar: product name, account, session
func (m ChatModel) renderHeader(width int) string {
	parts := []string{titleStyle.Render("✦ Lumina")}

	if name := m.user.DisplayName(); name != "" {
		parts = append(parts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(name))
	}

	if active, ok := m.registry.Get(m.conv.ActiveID()); ok {
		parts = append(parts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(shortTitle(active.DisplayTitle(), 40)))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	return headerStyle.Width(width).Render(content)
}

// messagesPanel renders the conversation pane or the empty-state hint
func (m ChatModel) messagesPanel() string {
	var content string
	if len(m.conv.Messages()) == 0 && !m.conv.Loading() {
		content = m.renderEmpty()
	} else {
		content = m.viewport.View()
	}

	return messagesAreaStyle.
		Width(m.viewport.Width).
		Height(m.viewport.Height).
		Render(content)
}

// renderEmpty renders the hint shown before any message exists
func (m ChatModel) renderEmpty() string {
	width := m.viewport.Width - 2
	height := m.viewport.Height

	lines := lipgloss.JoinVertical(
		lipgloss.Center,
		hintStyle.Width(width).Align(lipgloss.Center).Render("✦"),
		"",
		hintStyle.Width(width).Align(lipgloss.Center).Render("Type a message below to start a conversation"),
	)

	topPadding := (height - lipgloss.Height(lines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + lines
}

// renderInput renders the compose area, or progress while busy
func (m ChatModel) renderInput(width int) string {
	var content string
	switch {
	case m.conv.Sending():
		content = m.spinner.View() + loadingStyle.Render(" Lumina is thinking...")
	case m.conv.Loading():
		content = m.spinner.View() + loadingStyle.Render(" Loading conversation...")
	default:
		content = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	return inputPanelStyle.Width(width).Render(content)
}

// renderStatusBar renders the keybinding hints for the current focus
func (m ChatModel) renderStatusBar(width int) string {
	type shortcut struct {
		key  string
		desc string
	}

	var shortcuts []shortcut
	if m.sidebarFocused {
		shortcuts = []shortcut{
			{"↑↓", "Navigate"},
			{"Enter", "Open"},
			{"Ctrl+D", "Delete"},
			{"Tab", "Compose"},
			{"Esc", "Back"},
		}
	} else {
		shortcuts = []shortcut{
			{"Enter", "Send"},
			{"Tab", "Sessions"},
			{"Ctrl+N", "New"},
			{"Ctrl+P", "Profile"},
			{"Ctrl+Y", "Copy"},
			{"Esc", "Quit"},
		}
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// lastModelReply returns the newest assistant message, if any
func lastModelReply(msgs []models.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == models.RoleModel {
			return msgs[i].Content, true
		}
	}
	return "", false
}
