package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/auth"
	"github.com/luminalabs/lumina-cli/internal/config"
	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
)

// loginDoneMsg reports the sign-in attempt finishing. For registration
// the register call and the follow-up login are one attempt.
type loginDoneMsg struct {
	email string
	token string
	err   error
}

// Form fields in focus order
const (
	loginFieldEmail = iota
	loginFieldPassword
	loginFieldName
	loginFieldCount
)

// LoginModel is the sign-in surface, with a register mode folded in.
// Field-level rejections stay on this surface; only a successful token
// leaves it.
type LoginModel struct {
	client  api.LuminaClientInterface
	creds   *auth.Credentials
	store   *auth.Store
	timeout time.Duration

	inputs     [loginFieldCount]textinput.Model
	focusIndex int

	registering bool
	submitting  bool
	spinner     spinner.Model

	errText   string
	fieldErrs map[string]string
	notice    string

	width  int
	height int
}

// NewLoginModel creates the sign-in surface
func NewLoginModel(client api.LuminaClientInterface, creds *auth.Credentials, store *auth.Store, cfg config.Config) LoginModel {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Width = 40
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.Width = 40
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	name := textinput.New()
	name.Placeholder = "Ada Lovelace"
	name.CharLimit = 128
	name.Width = 40

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := LoginModel{
		client:  client,
		creds:   creds,
		store:   store,
		timeout: cfg.RequestTimeout(),
		spinner: s,
	}
	m.inputs[loginFieldEmail] = email
	m.inputs[loginFieldPassword] = password
	m.inputs[loginFieldName] = name

	return m
}

// Init starts the cursor blink
func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// fieldCount returns how many fields the current mode shows
func (m LoginModel) fieldCount() int {
	if m.registering {
		return loginFieldCount
	}
	return loginFieldName
}

func (m *LoginModel) blurCurrentField() {
	m.inputs[m.focusIndex].Blur()
}

func (m *LoginModel) focusCurrentField() {
	m.inputs[m.focusIndex].Focus()
}

// Update handles messages and updates the model
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			// The form is frozen while the attempt runs
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down":
			m.blurCurrentField()
			m.focusIndex++
			if m.focusIndex >= m.fieldCount() {
				m.focusIndex = 0
			}
			m.focusCurrentField()
			return m, textinput.Blink

		case "shift+tab", "up":
			m.blurCurrentField()
			m.focusIndex--
			if m.focusIndex < 0 {
				m.focusIndex = m.fieldCount() - 1
			}
			m.focusCurrentField()
			return m, textinput.Blink

		case "ctrl+r":
			m.registering = !m.registering
			m.errText = ""
			m.fieldErrs = nil
			if m.focusIndex >= m.fieldCount() {
				m.blurCurrentField()
				m.focusIndex = 0
				m.focusCurrentField()
			}
			return m, textinput.Blink

		case "enter":
			return m.submit()
		}

	case loginDoneMsg:
		return m.finishAttempt(msg)

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Typing goes to the focused input
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

// submit validates locally and starts the sign-in attempt. Local
// rejections never leave the form.
func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	email := strings.TrimSpace(m.inputs[loginFieldEmail].Value())
	password := m.inputs[loginFieldPassword].Value()
	name := strings.TrimSpace(m.inputs[loginFieldName].Value())

	fieldErrs := map[string]string{}
	if email == "" {
		fieldErrs["email"] = "Email is required"
	}
	if password == "" {
		fieldErrs["password"] = "Password is required"
	}
	if len(fieldErrs) > 0 {
		m.fieldErrs = fieldErrs
		m.errText = ""
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	m.fieldErrs = nil

	if m.registering {
		return m, tea.Batch(m.attemptRegister(email, password, name), m.spinner.Tick)
	}
	return m, tea.Batch(m.attemptLogin(email, password), m.spinner.Tick)
}

// attemptLogin exchanges the credentials for a token
func (m LoginModel) attemptLogin(email, password string) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		token, err := client.Login(ctx, email, password)
		return loginDoneMsg{email: email, token: token, err: err}
	}
}

// attemptRegister creates the account, then signs straight in with the
// same credentials
func (m LoginModel) attemptRegister(email, password, name string) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := client.Register(ctx, email, password, name); err != nil {
			return loginDoneMsg{email: email, err: err}
		}

		token, err := client.Login(ctx, email, password)
		return loginDoneMsg{email: email, token: token, err: err}
	}
}

// finishAttempt reconciles the attempt's result into the form, or
// stores the token and hands off to the chat surface.
func (m LoginModel) finishAttempt(msg loginDoneMsg) (LoginModel, tea.Cmd) {
	m.submitting = false

	if msg.err != nil {
		switch {
		case apierrors.IsValidationError(msg.err):
			m.fieldErrs = apierrors.FieldErrors(msg.err)
		case apierrors.IsAuthError(msg.err):
			m.errText = "Invalid email or password."
		default:
			m.errText = apierrors.UserMessage(msg.err)
		}
		return m, nil
	}

	m.creds.Set(msg.token)
	if m.store != nil {
		// A failed write only costs persistence across restarts; the
		// session itself is live
		_ = m.store.Save(msg.token)
	}

	email := msg.email
	return m, func() tea.Msg {
		return authenticatedMsg{email: email}
	}
}

// View renders the sign-in form
func (m LoginModel) View() string {
	var sb strings.Builder

	title := "Sign in to Lumina"
	action := "Signing in..."
	toggleHint := "Ctrl+R Create account"
	if m.registering {
		title = "Create your Lumina account"
		action = "Creating your account..."
		toggleHint = "Ctrl+R Sign in instead"
	}

	sb.WriteString(formTitleStyle.Render("✦ " + title))
	sb.WriteString("\n")

	if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	labels := [loginFieldCount]string{"Email", "Password", "Full name"}
	for i := 0; i < m.fieldCount(); i++ {
		label := formLabelStyle.Render(labels[i])
		if i == m.focusIndex {
			label = formFocusLabelStyle.Render(labels[i])
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(m.inputs[i].View())
		sb.WriteString("\n")

		if msg, ok := m.fieldErrs[fieldKey(i)]; ok {
			sb.WriteString(fieldErrorStyle.Render("  " + msg))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if m.submitting {
		sb.WriteString(m.spinner.View())
		sb.WriteString(loadingStyle.Render(" " + action))
		sb.WriteString("\n")
	} else if m.errText != "" {
		sb.WriteString(errorStyle.Render("✗ " + m.errText))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	shortcuts := []string{
		statusKeyStyle.Render("Enter") + statusDescStyle.Render(" Submit"),
		statusKeyStyle.Render("Tab") + statusDescStyle.Render(" Next field"),
		statusDescStyle.Render(toggleHint),
		statusKeyStyle.Render("Esc") + statusDescStyle.Render(" Quit"),
	}
	sb.WriteString(statusBarStyle.Render(strings.Join(shortcuts, "  │  ")))

	form := formPanelStyle.Render(sb.String())

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
	}
	return form
}

// fieldKey maps a field index to the service's field name
func fieldKey(i int) string {
	switch i {
	case loginFieldEmail:
		return "email"
	case loginFieldPassword:
		return "password"
	case loginFieldName:
		return "full_name"
	default:
		return ""
	}
}
