// Package models contains data types and constants for the Lumina API.
package models

import "strings"

// Role identifies the author of a chat message.
type Role string

// Roles the service emits in history and send responses.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// IsValid returns true if the role is one the service emits
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleModel
}

// Message represents a single chat message in a conversation view
type Message struct {
	Role    Role
	Content string
}

// UserMessage builds a user-authored message
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// ModelMessage builds an assistant-authored message
func ModelMessage(content string) Message {
	return Message{Role: RoleModel, Content: content}
}

// IsEmpty reports whether the message carries no visible text
func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
