package api

import (
	"context"

	"github.com/luminalabs/lumina-cli/internal/models"
)

// MockLuminaClient is a mock implementation of LuminaClientInterface for testing
type MockLuminaClient struct {
	// Mock return values
	LoginToken    string
	LoginErr      error
	RegisterUser  models.User
	RegisterErr   error
	UserVal       models.User
	UserErr       error
	ProfileVal    models.Profile
	ProfileErr    error
	CreateChatVal models.Session
	CreateChatErr error
	ListChatsVal  []models.Session
	ListChatsErr  error
	DeleteChatErr error
	SendResultVal *models.SendResult
	SendErr       error
	HistoryVal    []models.Message
	HistoryErr    error
	// HistoryByID overrides HistoryVal per chat id when set
	HistoryByID map[string][]models.Message

	// Call counters/recorders
	LoginCalls       int
	LastLoginEmail   string
	CreateChatCalls  int
	LastCreateTitle  string
	ListChatsCalls   int
	DeleteChatCalls  int
	LastDeletedID    string
	SendCalls        int
	LastSendChatID   string
	LastSendMessage  string
	HistoryCalls     int
	LastHistoryID    string
	ProfileCalls     int
	CurrentUserCalls int
}

// Ensure MockLuminaClient implements LuminaClientInterface
var _ LuminaClientInterface = (*MockLuminaClient)(nil)

func (m *MockLuminaClient) Login(ctx context.Context, email, password string) (string, error) {
	m.LoginCalls++
	m.LastLoginEmail = email
	return m.LoginToken, m.LoginErr
}

func (m *MockLuminaClient) Register(ctx context.Context, email, password, fullName string) (models.User, error) {
	return m.RegisterUser, m.RegisterErr
}

func (m *MockLuminaClient) CurrentUser(ctx context.Context) (models.User, error) {
	m.CurrentUserCalls++
	return m.UserVal, m.UserErr
}

func (m *MockLuminaClient) FetchProfile(ctx context.Context) (models.Profile, error) {
	m.ProfileCalls++
	return m.ProfileVal, m.ProfileErr
}

func (m *MockLuminaClient) CreateChat(ctx context.Context, title string) (models.Session, error) {
	m.CreateChatCalls++
	m.LastCreateTitle = title
	return m.CreateChatVal, m.CreateChatErr
}

func (m *MockLuminaClient) ListChats(ctx context.Context) ([]models.Session, error) {
	m.ListChatsCalls++
	return m.ListChatsVal, m.ListChatsErr
}

func (m *MockLuminaClient) DeleteChat(ctx context.Context, chatID string) error {
	m.DeleteChatCalls++
	m.LastDeletedID = chatID
	return m.DeleteChatErr
}

func (m *MockLuminaClient) SendMessage(ctx context.Context, chatID, message string) (*models.SendResult, error) {
	m.SendCalls++
	m.LastSendChatID = chatID
	m.LastSendMessage = message
	return m.SendResultVal, m.SendErr
}

func (m *MockLuminaClient) History(ctx context.Context, chatID string) ([]models.Message, error) {
	m.HistoryCalls++
	m.LastHistoryID = chatID
	if m.HistoryByID != nil {
		return m.HistoryByID[chatID], m.HistoryErr
	}
	return m.HistoryVal, m.HistoryErr
}
