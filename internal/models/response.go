package models

// SendResult represents the service's answer to a sent chat message.
type SendResult struct {
	// Reply is the assistant's message text.
	Reply string

	// ChatID identifies the session the exchange was recorded under.
	// For a send that provisioned a new session this is the fresh id.
	ChatID string

	// Title is the session title the service derived from the first
	// message. Empty on every exchange after the first.
	Title string
}

// HasTitle returns true if the service attached a freshly derived title
func (r *SendResult) HasTitle() bool {
	return r.Title != ""
}

// ReplyMessage returns the assistant reply as a displayable message
func (r *SendResult) ReplyMessage() Message {
	return ModelMessage(r.Reply)
}
