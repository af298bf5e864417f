package api

import (
	"context"

	"github.com/luminalabs/lumina-cli/internal/models"
)

// LuminaClientInterface captures the client surface consumers depend on,
// so tests can swap in a double.
type LuminaClientInterface interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, email, password, fullName string) (models.User, error)
	CurrentUser(ctx context.Context) (models.User, error)
	FetchProfile(ctx context.Context) (models.Profile, error)
	CreateChat(ctx context.Context, title string) (models.Session, error)
	ListChats(ctx context.Context) ([]models.Session, error)
	DeleteChat(ctx context.Context, chatID string) error
	SendMessage(ctx context.Context, chatID, message string) (*models.SendResult, error)
	History(ctx context.Context, chatID string) ([]models.Message, error)
}

// Ensure LuminaClient implements LuminaClientInterface
var _ LuminaClientInterface = (*LuminaClient)(nil)
