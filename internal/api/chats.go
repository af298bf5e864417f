package api

import (
	"context"
	"fmt"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// CreateChat provisions a new session on the service and returns it with
// its server-assigned id.
func (c *LuminaClient) CreateChat(ctx context.Context, title string) (models.Session, error) {
	if title == "" {
		title = models.DefaultSessionTitle
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createChatRequest{Title: title}).
		Post(PathChats)
	if err != nil {
		return models.Session{}, apierrors.NewNetworkError(PathChats, err)
	}
	if !resp.IsSuccess() {
		return models.Session{}, c.apiError(resp, PathChats)
	}

	var summary chatSummary
	if err := decodeJSON(resp, PathChats, &summary); err != nil {
		return models.Session{}, err
	}

	return summary.toSession(PathChats)
}

// ListChats fetches the user's sessions. The service orders them newest
// first; that order is preserved.
func (c *LuminaClient) ListChats(ctx context.Context) ([]models.Session, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(PathChats)
	if err != nil {
		return nil, apierrors.NewNetworkError(PathChats, err)
	}
	if !resp.IsSuccess() {
		return nil, c.apiError(resp, PathChats)
	}

	var summaries []chatSummary
	if err := decodeJSON(resp, PathChats, &summaries); err != nil {
		return nil, err
	}

	sessions := make([]models.Session, 0, len(summaries))
	for _, s := range summaries {
		session, err := s.toSession(PathChats)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

// DeleteChat removes a session and its history from the service
func (c *LuminaClient) DeleteChat(ctx context.Context, chatID string) error {
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}

	endpoint := PathChats + "/" + chatID

	resp, err := c.http.R().
		SetContext(ctx).
		Delete(endpoint)
	if err != nil {
		return apierrors.NewNetworkError(endpoint, err)
	}
	if !resp.IsSuccess() {
		return c.apiError(resp, endpoint)
	}

	var status deleteChatResponse
	if err := decodeJSON(resp, endpoint, &status); err != nil {
		return err
	}
	if status.Status != "deleted" {
		return apierrors.NewDecodeError(endpoint, "unexpected status "+status.Status, nil)
	}

	return nil
}
