package api

import (
	"context"
	"fmt"

	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// SendMessage posts a user message to an existing session and returns the
// assistant's reply. The first exchange of a session also carries the
// title the service derived from the message.
func (c *LuminaClient) SendMessage(ctx context.Context, chatID, message string) (*models.SendResult, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	if message == "" {
		return nil, apierrors.ErrEmptyMessage
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(sendRequest{ChatID: chatID, Message: message}).
		Post(PathChat)
	if err != nil {
		return nil, apierrors.NewNetworkError(PathChat, err)
	}
	if !resp.IsSuccess() {
		return nil, c.apiError(resp, PathChat)
	}

	var sr sendResponse
	if err := decodeJSON(resp, PathChat, &sr); err != nil {
		return nil, err
	}
	if sr.Response == nil {
		return nil, apierrors.NewDecodeError(PathChat, "missing response", nil)
	}
	if sr.ChatID == "" {
		return nil, apierrors.NewDecodeError(PathChat, "missing chat_id", nil)
	}

	return &models.SendResult{
		Reply:  *sr.Response,
		ChatID: sr.ChatID,
		Title:  sr.Title,
	}, nil
}

// History fetches the full message list of a session, oldest first
func (c *LuminaClient) History(ctx context.Context, chatID string) ([]models.Message, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}

	endpoint := PathChats + "/" + chatID + "/history"

	resp, err := c.http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return nil, apierrors.NewNetworkError(endpoint, err)
	}
	if !resp.IsSuccess() {
		return nil, c.apiError(resp, endpoint)
	}

	var entries []historyEntry
	if err := decodeJSON(resp, endpoint, &entries); err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(entries))
	for _, e := range entries {
		msg, err := e.toMessage(endpoint)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, nil
}
