package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/auth"
	"github.com/luminalabs/lumina-cli/internal/config"
	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
)

func newTestLoginModel(t *testing.T, mock *api.MockLuminaClient) (LoginModel, *auth.Credentials, *auth.Store) {
	t.Helper()
	creds := auth.NewCredentials()
	store := auth.NewStore(filepath.Join(t.TempDir(), "token.json"))
	m := NewLoginModel(mock, creds, store, config.DefaultConfig())
	return m, creds, store
}

// fillLogin puts credentials into the form fields
func fillLogin(m *LoginModel, email, password string) {
	m.inputs[loginFieldEmail].SetValue(email)
	m.inputs[loginFieldPassword].SetValue(password)
}

// runLoginCmds executes a command tree and routes the results back in
func runLoginCmds(t *testing.T, m LoginModel, cmd tea.Cmd) (LoginModel, []tea.Msg) {
	t.Helper()
	var produced []tea.Msg
	if cmd == nil {
		return m, produced
	}

	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil {
			continue
		}
		produced = append(produced, msg)
		var next tea.Cmd
		m, next = m.Update(msg)
		if _, ok := msg.(loginDoneMsg); ok && next != nil {
			// finishAttempt hands off via its own command
			queue = append(queue, next)
		}
	}
	return m, produced
}

func TestLoginModel_SubmitSuccessStoresToken(t *testing.T) {
	mock := &api.MockLuminaClient{LoginToken: "tok-42"}
	m, creds, store := newTestLoginModel(t, mock)
	fillLogin(&m, "ada@example.com", "hunter2")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.submitting {
		t.Error("form should be submitting after enter")
	}

	m, produced := runLoginCmds(t, m, cmd)

	var sawAuthenticated bool
	for _, msg := range produced {
		if auth, ok := msg.(authenticatedMsg); ok {
			sawAuthenticated = true
			if auth.email != "ada@example.com" {
				t.Errorf("authenticated email = %q, want %q", auth.email, "ada@example.com")
			}
		}
	}
	if !sawAuthenticated {
		t.Error("a successful login should emit authenticatedMsg")
	}

	if token, ok := creds.Token(); !ok || token != "tok-42" {
		t.Errorf("creds token = %q, want %q", token, "tok-42")
	}

	tok, err := store.Load()
	if err != nil {
		t.Fatalf("store.Load() error = %v", err)
	}
	if tok.AccessToken != "tok-42" {
		t.Errorf("stored token = %q, want %q", tok.AccessToken, "tok-42")
	}
	if !tok.FreshLogin {
		t.Error("stored token should be marked as a fresh login")
	}
	if m.submitting {
		t.Error("form should be idle after the attempt finishes")
	}
}

func TestLoginModel_EmptyFieldsRejectedLocally(t *testing.T) {
	mock := &api.MockLuminaClient{}
	m, _, _ := newTestLoginModel(t, mock)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Error("empty form must not start a request")
	}
	if mock.LoginCalls != 0 {
		t.Errorf("LoginCalls = %d, want 0", mock.LoginCalls)
	}
	if m.fieldErrs["email"] == "" {
		t.Error("email field error should be set")
	}
	if m.fieldErrs["password"] == "" {
		t.Error("password field error should be set")
	}
}

func TestLoginModel_InvalidCredentialsStayOnForm(t *testing.T) {
	mock := &api.MockLuminaClient{
		LoginErr: apierrors.NewAuthErrorWithEndpoint("incorrect email or password", "/token"),
	}
	m, creds, _ := newTestLoginModel(t, mock)
	fillLogin(&m, "ada@example.com", "wrong")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, produced := runLoginCmds(t, m, cmd)

	for _, msg := range produced {
		if _, ok := msg.(authenticatedMsg); ok {
			t.Fatal("a rejected login must not authenticate")
		}
	}
	if m.errText != "Invalid email or password." {
		t.Errorf("errText = %q, want the invalid-credentials line", m.errText)
	}
	if creds.IsAuthenticated() {
		t.Error("credentials must stay empty after a rejected login")
	}
}

func TestLoginModel_ValidationErrorsMapToFields(t *testing.T) {
	mock := &api.MockLuminaClient{
		RegisterErr: apierrors.NewValidationError("/register", map[string]string{
			"email": "value is not a valid email address",
		}),
	}
	m, _, _ := newTestLoginModel(t, mock)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	fillLogin(&m, "not-an-email", "hunter2")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = runLoginCmds(t, m, cmd)

	if got := m.fieldErrs["email"]; got != "value is not a valid email address" {
		t.Errorf("field error = %q, want the service's message", got)
	}
	if m.errText != "" {
		t.Errorf("errText = %q, want empty for a field-level rejection", m.errText)
	}
}

func TestLoginModel_RegisterSignsInAfterCreate(t *testing.T) {
	mock := &api.MockLuminaClient{LoginToken: "tok-9"}
	m, creds, _ := newTestLoginModel(t, mock)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.registering {
		t.Fatal("ctrl+r should switch to register mode")
	}

	fillLogin(&m, "new@example.com", "hunter2")
	m.inputs[loginFieldName].SetValue("New Person")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, produced := runLoginCmds(t, m, cmd)

	var sawAuthenticated bool
	for _, msg := range produced {
		if _, ok := msg.(authenticatedMsg); ok {
			sawAuthenticated = true
		}
	}
	if !sawAuthenticated {
		t.Error("registration should finish signed in")
	}
	if token, _ := creds.Token(); token != "tok-9" {
		t.Errorf("creds token = %q, want %q", token, "tok-9")
	}
	if mock.LoginCalls != 1 {
		t.Errorf("LoginCalls = %d, want 1 after register", mock.LoginCalls)
	}
}

func TestLoginModel_RegisterFailureSkipsLogin(t *testing.T) {
	mock := &api.MockLuminaClient{
		RegisterErr: apierrors.NewAPIError(409, "/register", "email already registered"),
	}
	m, _, _ := newTestLoginModel(t, mock)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	fillLogin(&m, "taken@example.com", "hunter2")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = runLoginCmds(t, m, cmd)

	if mock.LoginCalls != 0 {
		t.Errorf("LoginCalls = %d, want 0 when registration fails", mock.LoginCalls)
	}
	if m.errText == "" {
		t.Error("the registration failure should show on the form")
	}
}

func TestLoginModel_TabCyclesFields(t *testing.T) {
	m, _, _ := newTestLoginModel(t, &api.MockLuminaClient{})

	if m.focusIndex != loginFieldEmail {
		t.Fatalf("focusIndex = %d, want email first", m.focusIndex)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusIndex != loginFieldPassword {
		t.Errorf("focusIndex = %d, want password after tab", m.focusIndex)
	}

	// Two fields in login mode: tab wraps back to email
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusIndex != loginFieldEmail {
		t.Errorf("focusIndex = %d, want wrap to email", m.focusIndex)
	}
}

func TestLoginModel_ToggleClampsFocus(t *testing.T) {
	m, _, _ := newTestLoginModel(t, &api.MockLuminaClient{})

	// Register mode exposes the name field; focus it, then leave the mode
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusIndex != loginFieldName {
		t.Fatalf("focusIndex = %d, want name field", m.focusIndex)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if m.registering {
		t.Error("second ctrl+r should leave register mode")
	}
	if m.focusIndex >= m.fieldCount() {
		t.Errorf("focusIndex = %d, want clamped below %d", m.focusIndex, m.fieldCount())
	}
}

func TestLoginModel_TypingReachesFocusedField(t *testing.T) {
	m, _, _ := newTestLoginModel(t, &api.MockLuminaClient{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})

	if got := m.inputs[loginFieldEmail].Value(); got != "ab" {
		t.Errorf("email value = %q, want %q", got, "ab")
	}
}

func TestLoginModel_ViewShowsMode(t *testing.T) {
	m, _, _ := newTestLoginModel(t, &api.MockLuminaClient{})

	view := m.View()
	if !strings.Contains(view, "Sign in to Lumina") {
		t.Error("login view should show the sign-in title")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	view = m.View()
	if !strings.Contains(view, "Create your Lumina account") {
		t.Error("register view should show the create-account title")
	}
	if !strings.Contains(view, "Full name") {
		t.Error("register view should show the name field")
	}
}

func TestLoginModel_NoticeShownOnView(t *testing.T) {
	m, _, _ := newTestLoginModel(t, &api.MockLuminaClient{})
	m.notice = "Your session has expired. Please sign in again."

	if !strings.Contains(m.View(), "session has expired") {
		t.Error("the expiry notice should show on the form")
	}
}
