package models

import "time"

// Session is one chat thread as tracked by the service.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// DefaultSessionTitle is the placeholder title a session carries until the
// service derives one from its first message.
const DefaultSessionTitle = "New Chat"

// DisplayTitle returns the title to show in lists, falling back to the
// placeholder for sessions that have not been titled yet.
func (s Session) DisplayTitle() string {
	if s.Title == "" {
		return DefaultSessionTitle
	}
	return s.Title
}
