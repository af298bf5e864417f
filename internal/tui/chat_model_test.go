package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/luminalabs/lumina-cli/internal/api"
	"github.com/luminalabs/lumina-cli/internal/auth"
	"github.com/luminalabs/lumina-cli/internal/chat"
	"github.com/luminalabs/lumina-cli/internal/config"
	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/models"
)

func errTestNetwork() error {
	return apierrors.NewNetworkError("/api/chats", errors.New("connection refused"))
}

// newTestChatModel builds a sized chat model around a mock client
func newTestChatModel(t *testing.T, mock *api.MockLuminaClient) ChatModel {
	t.Helper()
	m := NewChatModel(mock, nil, config.DefaultConfig(), nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	return m
}

// collectMsgs executes a command tree and returns every produced
// message. Only immediate commands are used in these tests.
func collectMsgs(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}

	var out []tea.Msg
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
		if msg != nil {
			out = append(out, msg)
		}
	}
	return out
}

// feed runs a command tree and routes every message back into the model
func feed(t *testing.T, m ChatModel, cmd tea.Cmd) ChatModel {
	t.Helper()
	for _, msg := range collectMsgs(t, cmd) {
		m, _ = m.Update(msg)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+d":
		return tea.KeyMsg{Type: tea.KeyCtrlD}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// typeAndSend puts text in the textarea and presses enter
func typeAndSend(t *testing.T, m ChatModel, text string) (ChatModel, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(text)
	return m.Update(keyMsg("enter"))
}

func TestChatModel_SendProvisionsAndPrepends(t *testing.T) {
	mock := &api.MockLuminaClient{
		CreateChatVal: models.Session{ID: "chat-1", Title: ""},
		SendResultVal: &models.SendResult{Reply: "Hi there!", ChatID: "chat-1", Title: "Greetings"},
	}
	m := newTestChatModel(t, mock)

	m, cmd := typeAndSend(t, m, "Hello")
	if !m.conv.Sending() {
		t.Error("conversation should be sending after enter")
	}
	m = feed(t, m, cmd)

	if mock.CreateChatCalls != 1 {
		t.Errorf("CreateChatCalls = %d, want 1", mock.CreateChatCalls)
	}
	if mock.LastSendChatID != "chat-1" {
		t.Errorf("LastSendChatID = %q, want %q", mock.LastSendChatID, "chat-1")
	}

	msgs := m.conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[1].Content != "Hi there!" {
		t.Errorf("reply content = %q, want %q", msgs[1].Content, "Hi there!")
	}

	if m.conv.ActiveID() != "chat-1" {
		t.Errorf("ActiveID() = %q, want %q", m.conv.ActiveID(), "chat-1")
	}
	if m.registry.Len() != 1 {
		t.Errorf("registry.Len() = %d, want 1", m.registry.Len())
	}
	sess, ok := m.registry.Get("chat-1")
	if !ok {
		t.Fatal("provisioned session should be in the registry")
	}
	if sess.Title != "Greetings" {
		t.Errorf("session title = %q, want %q", sess.Title, "Greetings")
	}
	if m.conv.Busy() {
		t.Error("conversation should be idle after the reply lands")
	}
}

func TestChatModel_SendToExistingSessionSkipsProvisioning(t *testing.T) {
	mock := &api.MockLuminaClient{
		ListChatsVal: []models.Session{{ID: "s1", Title: "Algebra"}},
		HistoryByID: map[string][]models.Message{
			"s1": {models.UserMessage("old"), models.ModelMessage("answer")},
		},
		SendResultVal: &models.SendResult{Reply: "More help", ChatID: "s1"},
	}
	m := newTestChatModel(t, mock)
	m = feed(t, m, m.loadSessions())

	// Open the session from the sidebar
	m, _ = m.Update(keyMsg("tab"))
	m, cmd := m.Update(keyMsg("enter"))
	m = feed(t, m, cmd)

	if m.conv.ActiveID() != "s1" {
		t.Fatalf("ActiveID() = %q, want %q", m.conv.ActiveID(), "s1")
	}
	if len(m.conv.Messages()) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2 after history load", len(m.conv.Messages()))
	}

	// Back to compose and send
	m, _ = m.Update(keyMsg("tab"))
	m, cmd = typeAndSend(t, m, "continue")
	m = feed(t, m, cmd)

	if mock.CreateChatCalls != 0 {
		t.Errorf("CreateChatCalls = %d, want 0 for an existing session", mock.CreateChatCalls)
	}
	if len(m.conv.Messages()) != 4 {
		t.Errorf("len(Messages()) = %d, want 4", len(m.conv.Messages()))
	}
}

func TestChatModel_FailedSendShowsSyntheticReply(t *testing.T) {
	mock := &api.MockLuminaClient{
		CreateChatVal: models.Session{ID: "chat-1"},
		SendErr:       errTestNetwork(),
	}
	m := newTestChatModel(t, mock)

	m, cmd := typeAndSend(t, m, "Hello")
	m = feed(t, m, cmd)

	msgs := m.conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len(Messages()) = %d, want 2", len(msgs))
	}
	if msgs[0].Content != "Hello" {
		t.Errorf("user message = %q, want kept", msgs[0].Content)
	}
	if msgs[1].Content != chat.UnreachableReply {
		t.Errorf("failure reply = %q, want the unreachable notice", msgs[1].Content)
	}
	// The failure reads as a chat message, not an error banner
	if m.err != nil {
		t.Errorf("m.err = %v, want nil", m.err)
	}
	// The provisioned session is still recorded
	if m.registry.Len() != 1 {
		t.Errorf("registry.Len() = %d, want 1", m.registry.Len())
	}
}

func TestChatModel_NewChatKeyResetsView(t *testing.T) {
	mock := &api.MockLuminaClient{
		CreateChatVal: models.Session{ID: "chat-1"},
		SendResultVal: &models.SendResult{Reply: "yes", ChatID: "chat-1"},
	}
	m := newTestChatModel(t, mock)

	m, cmd := typeAndSend(t, m, "Hello")
	m = feed(t, m, cmd)

	m, _ = m.Update(keyMsg("ctrl+n"))

	if len(m.conv.Messages()) != 0 {
		t.Errorf("len(Messages()) = %d, want 0 after new chat", len(m.conv.Messages()))
	}
	if m.conv.ActiveID() != "" {
		t.Errorf("ActiveID() = %q, want empty", m.conv.ActiveID())
	}
	// The old session stays listed
	if m.registry.Len() != 1 {
		t.Errorf("registry.Len() = %d, want 1", m.registry.Len())
	}
}

func TestChatModel_StaleSendAfterNewChatDiscarded(t *testing.T) {
	mock := &api.MockLuminaClient{
		CreateChatVal: models.Session{ID: "chat-1"},
		SendResultVal: &models.SendResult{Reply: "late answer", ChatID: "chat-1"},
	}
	m := newTestChatModel(t, mock)

	m, cmd := typeAndSend(t, m, "Hello")

	// The user starts a new chat before the response lands
	m, _ = m.Update(keyMsg("ctrl+n"))

	m = feed(t, m, cmd)

	if len(m.conv.Messages()) != 0 {
		t.Errorf("len(Messages()) = %d, want 0: stale reply must not appear", len(m.conv.Messages()))
	}
	if m.conv.ActiveID() != "" {
		t.Errorf("ActiveID() = %q, want empty", m.conv.ActiveID())
	}
	// The session was still provisioned server-side and belongs in the list
	if m.registry.Len() != 1 {
		t.Errorf("registry.Len() = %d, want 1", m.registry.Len())
	}
}

func TestChatModel_DeleteKeyCallsService(t *testing.T) {
	mock := &api.MockLuminaClient{
		ListChatsVal: []models.Session{{ID: "s1", Title: "Algebra"}},
		HistoryByID:  map[string][]models.Message{"s1": {}},
	}
	m := newTestChatModel(t, mock)
	m = feed(t, m, m.loadSessions())

	m, _ = m.Update(keyMsg("tab"))
	m, cmd := m.Update(keyMsg("ctrl+d"))

	msgs := collectMsgs(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	deleted, ok := msgs[0].(sessionDeletedMsg)
	if !ok {
		t.Fatalf("message type = %T, want sessionDeletedMsg", msgs[0])
	}
	if deleted.id != "s1" {
		t.Errorf("deleted id = %q, want %q", deleted.id, "s1")
	}
	if mock.LastDeletedID != "s1" {
		t.Errorf("LastDeletedID = %q, want %q", mock.LastDeletedID, "s1")
	}
}

func TestChatModel_DeleteActiveActivatesSuccessor(t *testing.T) {
	mock := &api.MockLuminaClient{
		ListChatsVal: []models.Session{
			{ID: "a", Title: "First"},
			{ID: "b", Title: "Second"},
			{ID: "c", Title: "Third"},
		},
		HistoryByID: map[string][]models.Message{
			"a": {models.UserMessage("in a")},
			"b": {models.UserMessage("in b")},
		},
	}
	m := newTestChatModel(t, mock)
	m = feed(t, m, m.loadSessions())

	m, _ = m.Update(keyMsg("tab"))
	m, cmd := m.Update(keyMsg("enter"))
	m = feed(t, m, cmd)
	if m.conv.ActiveID() != "a" {
		t.Fatalf("ActiveID() = %q, want %q", m.conv.ActiveID(), "a")
	}

	m, _ = m.Update(sessionDeletedMsg{id: "a"})

	if m.registry.Len() != 2 {
		t.Errorf("registry.Len() = %d, want 2", m.registry.Len())
	}
	if m.conv.ActiveID() != "b" {
		t.Errorf("ActiveID() = %q, want successor %q", m.conv.ActiveID(), "b")
	}
	if !m.conv.Loading() {
		t.Error("successor history should be loading")
	}
	if m.feedback == "" {
		t.Error("feedback should confirm the delete")
	}
}

func TestChatModel_DeleteInactiveKeepsView(t *testing.T) {
	mock := &api.MockLuminaClient{
		ListChatsVal: []models.Session{
			{ID: "a", Title: "First"},
			{ID: "b", Title: "Second"},
		},
		HistoryByID: map[string][]models.Message{
			"a": {models.UserMessage("in a")},
		},
	}
	m := newTestChatModel(t, mock)
	m = feed(t, m, m.loadSessions())

	m, _ = m.Update(keyMsg("tab"))
	m, cmd := m.Update(keyMsg("enter"))
	m = feed(t, m, cmd)

	m, _ = m.Update(sessionDeletedMsg{id: "b"})

	if m.conv.ActiveID() != "a" {
		t.Errorf("ActiveID() = %q, want %q unchanged", m.conv.ActiveID(), "a")
	}
	if len(m.conv.Messages()) != 1 {
		t.Errorf("len(Messages()) = %d, want 1 unchanged", len(m.conv.Messages()))
	}
	if m.registry.Len() != 1 {
		t.Errorf("registry.Len() = %d, want 1", m.registry.Len())
	}
}

func TestChatModel_DeleteLastSessionResets(t *testing.T) {
	mock := &api.MockLuminaClient{
		ListChatsVal: []models.Session{{ID: "only", Title: "Solo"}},
		HistoryByID:  map[string][]models.Message{"only": {models.UserMessage("hi")}},
	}
	m := newTestChatModel(t, mock)
	m = feed(t, m, m.loadSessions())

	m, _ = m.Update(keyMsg("tab"))
	m, cmd := m.Update(keyMsg("enter"))
	m = feed(t, m, cmd)

	m, _ = m.Update(sessionDeletedMsg{id: "only"})

	if m.registry.Len() != 0 {
		t.Errorf("registry.Len() = %d, want 0", m.registry.Len())
	}
	if m.conv.ActiveID() != "" {
		t.Errorf("ActiveID() = %q, want empty after deleting the last session", m.conv.ActiveID())
	}
	if len(m.conv.Messages()) != 0 {
		t.Errorf("len(Messages()) = %d, want 0", len(m.conv.Messages()))
	}
}

func TestChatModel_DeleteFailureKeepsEverything(t *testing.T) {
	mock := &api.MockLuminaClient{
		ListChatsVal: []models.Session{{ID: "s1", Title: "Keep me"}},
	}
	m := newTestChatModel(t, mock)
	m = feed(t, m, m.loadSessions())

	m, _ = m.Update(sessionDeletedMsg{id: "s1", err: errTestNetwork()})

	if m.err == nil {
		t.Error("m.err should report the failed delete")
	}
	if m.registry.Len() != 1 {
		t.Errorf("registry.Len() = %d, want 1: failed delete must not drop the session", m.registry.Len())
	}
}

func TestChatModel_ProfileKeyRequestsProfile(t *testing.T) {
	m := newTestChatModel(t, &api.MockLuminaClient{})

	_, cmd := m.Update(keyMsg("ctrl+p"))

	msgs := collectMsgs(t, cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if _, ok := msgs[0].(showProfileMsg); !ok {
		t.Errorf("message type = %T, want showProfileMsg", msgs[0])
	}
}

func TestChatModel_TabTogglesSidebarFocus(t *testing.T) {
	m := newTestChatModel(t, &api.MockLuminaClient{})

	if m.sidebarFocused {
		t.Fatal("sidebar should start unfocused")
	}
	m, _ = m.Update(keyMsg("tab"))
	if !m.sidebarFocused {
		t.Error("tab should focus the sidebar")
	}
	m, _ = m.Update(keyMsg("esc"))
	if m.sidebarFocused {
		t.Error("esc should return focus to the input")
	}
}

func TestChatModel_SessionsLoadedPopulatesSidebar(t *testing.T) {
	m := newTestChatModel(t, &api.MockLuminaClient{})

	sessions := []models.Session{
		{ID: "s1", Title: "One"},
		{ID: "s2", Title: "Two"},
	}
	m, _ = m.Update(sessionsLoadedMsg{sessions: sessions})

	if m.registry.Len() != 2 {
		t.Errorf("registry.Len() = %d, want 2", m.registry.Len())
	}
	if len(m.sidebar.sessions) != 2 {
		t.Errorf("sidebar rows = %d, want 2", len(m.sidebar.sessions))
	}
}

func TestChatModel_SessionsLoadFailureShowsError(t *testing.T) {
	m := newTestChatModel(t, &api.MockLuminaClient{})

	m, _ = m.Update(sessionsLoadedMsg{err: errTestNetwork()})

	if m.err == nil {
		t.Error("m.err should be set when the session list fails to load")
	}
}

func TestChatModel_WelcomeShownOnFreshLogin(t *testing.T) {
	store := auth.NewStore(filepath.Join(t.TempDir(), "token.json"))
	if err := store.Save("tok-1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	m := NewChatModel(&api.MockLuminaClient{}, store, config.DefaultConfig(), nil)
	if m.welcome == "" {
		t.Error("welcome line should show after a fresh login")
	}

	// The flag is consumed: a second chat surface shows no welcome
	m2 := NewChatModel(&api.MockLuminaClient{}, store, config.DefaultConfig(), nil)
	if m2.welcome != "" {
		t.Errorf("welcome = %q, want empty on the second run", m2.welcome)
	}
}

func TestChatModel_SendClearsWelcome(t *testing.T) {
	store := auth.NewStore(filepath.Join(t.TempDir(), "token.json"))
	if err := store.Save("tok-1"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	mock := &api.MockLuminaClient{
		CreateChatVal: models.Session{ID: "chat-1"},
		SendResultVal: &models.SendResult{Reply: "hi", ChatID: "chat-1"},
	}
	m := NewChatModel(mock, store, config.DefaultConfig(), nil)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	m, cmd := typeAndSend(t, m, "Hello")
	if m.welcome != "" {
		t.Errorf("welcome = %q, want cleared after the first send", m.welcome)
	}
	_ = feed(t, m, cmd)
}

func TestChatModel_ViewShowsConversation(t *testing.T) {
	mock := &api.MockLuminaClient{
		CreateChatVal: models.Session{ID: "chat-1"},
		SendResultVal: &models.SendResult{Reply: "The answer is 4.", ChatID: "chat-1"},
	}
	m := newTestChatModel(t, mock)

	m, cmd := typeAndSend(t, m, "What is 2+2?")
	m = feed(t, m, cmd)

	view := m.View()
	if !strings.Contains(view, "You") {
		t.Error("view should label the user message")
	}
	if !strings.Contains(view, "Lumina") {
		t.Error("view should label the assistant message")
	}
}

func TestChatModel_ViewNotReady(t *testing.T) {
	m := NewChatModel(&api.MockLuminaClient{}, nil, config.DefaultConfig(), nil)

	view := m.View()
	if !strings.Contains(view, "Initializing") {
		t.Error("view before the first resize should show initialization")
	}
}

func TestChatModel_UserLoadedShowsInHeader(t *testing.T) {
	m := newTestChatModel(t, &api.MockLuminaClient{})

	m, _ = m.Update(userLoadedMsg{user: models.User{Email: "ada@example.com", FullName: "Ada Lovelace"}})

	view := m.View()
	if !strings.Contains(view, "Ada Lovelace") {
		t.Error("header should show the signed-in user")
	}
}

func TestLastModelReply(t *testing.T) {
	tests := []struct {
		name   string
		msgs   []models.Message
		want   string
		wantOK bool
	}{
		{
			name:   "empty",
			msgs:   nil,
			wantOK: false,
		},
		{
			name:   "only user messages",
			msgs:   []models.Message{models.UserMessage("hi")},
			wantOK: false,
		},
		{
			name: "latest reply wins",
			msgs: []models.Message{
				models.UserMessage("one"),
				models.ModelMessage("first"),
				models.UserMessage("two"),
				models.ModelMessage("second"),
			},
			want:   "second",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lastModelReply(tt.msgs)
			if ok != tt.wantOK {
				t.Fatalf("lastModelReply() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("lastModelReply() = %q, want %q", got, tt.want)
			}
		})
	}
}
