package models

import (
	"testing"
	"time"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"user role", RoleUser, true},
		{"model role", RoleModel, true},
		{"assistant is not a wire role", Role("assistant"), false},
		{"empty role", Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestMessage_Constructors(t *testing.T) {
	user := UserMessage("hello")
	if user.Role != RoleUser || user.Content != "hello" {
		t.Errorf("UserMessage() = %+v, want role=%s content=hello", user, RoleUser)
	}

	model := ModelMessage("hi there")
	if model.Role != RoleModel || model.Content != "hi there" {
		t.Errorf("ModelMessage() = %+v, want role=%s content=hi there", model, RoleModel)
	}
}

func TestMessage_IsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"plain text", "hello", false},
		{"empty string", "", true},
		{"whitespace only", "   \n\t  ", true},
		{"text with surrounding whitespace", "  hi  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Message{Role: RoleUser, Content: tt.content}
			if got := m.IsEmpty(); got != tt.expected {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSession_DisplayTitle(t *testing.T) {
	tests := []struct {
		name     string
		session  Session
		expected string
	}{
		{
			name:     "titled session",
			session:  Session{ID: "abc", Title: "Thermodynamics Basics"},
			expected: "Thermodynamics Basics",
		},
		{
			name:     "untitled session falls back to placeholder",
			session:  Session{ID: "abc", CreatedAt: time.Now()},
			expected: DefaultSessionTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.DisplayTitle(); got != tt.expected {
				t.Errorf("DisplayTitle() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"full name present", User{Email: "ana@example.com", FullName: "Ana Souza"}, "Ana Souza"},
		{"falls back to email", User{Email: "ana@example.com"}, "ana@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestProfile_HasFacts(t *testing.T) {
	tests := []struct {
		name     string
		profile  Profile
		expected bool
	}{
		{"with facts", Profile{Text: "a\nb", Facts: []string{"a", "b"}}, true},
		{"empty profile", Profile{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.HasFacts(); got != tt.expected {
				t.Errorf("HasFacts() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSendResult_HasTitle(t *testing.T) {
	tests := []struct {
		name     string
		result   SendResult
		expected bool
	}{
		{"first exchange carries a title", SendResult{Reply: "hi", ChatID: "c1", Title: "Greeting"}, true},
		{"later exchanges do not", SendResult{Reply: "hi", ChatID: "c1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.HasTitle(); got != tt.expected {
				t.Errorf("HasTitle() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSendResult_ReplyMessage(t *testing.T) {
	r := SendResult{Reply: "The mitochondria is the powerhouse of the cell.", ChatID: "c1"}
	msg := r.ReplyMessage()

	if msg.Role != RoleModel {
		t.Errorf("ReplyMessage().Role = %s, want %s", msg.Role, RoleModel)
	}
	if msg.Content != r.Reply {
		t.Errorf("ReplyMessage().Content = %q, want %q", msg.Content, r.Reply)
	}
}
