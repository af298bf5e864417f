package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/luminalabs/lumina-cli/internal/models"
)

// ExportFormat selects the output format for session transcripts.
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
)

// ParseExportFormat validates a user-supplied format name. The empty string
// defaults to Markdown.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (markdown or json)", s)
	}
}

// ExportMarkdown renders a session transcript as a Markdown document.
func ExportMarkdown(session models.Session, messages []models.Message) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(session.DisplayTitle())
	sb.WriteString("\n\n")

	if !session.CreatedAt.IsZero() {
		sb.WriteString("**Created:** ")
		sb.WriteString(session.CreatedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString("\n")
	}
	sb.WriteString("**Messages:** ")
	sb.WriteString(fmt.Sprintf("%d", len(messages)))
	sb.WriteString("\n\n---\n\n")

	for i, msg := range messages {
		role := "User"
		if msg.Role == models.RoleModel {
			role = "Lumina"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if i < len(messages)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON renders a session transcript as indented JSON.
func ExportJSON(session models.Session, messages []models.Message) ([]byte, error) {
	type exportMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	type exportSession struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		CreatedAt time.Time       `json:"created_at"`
		Messages  []exportMessage `json:"messages"`
	}

	export := exportSession{
		ID:        session.ID,
		Title:     session.DisplayTitle(),
		CreatedAt: session.CreatedAt,
		Messages:  make([]exportMessage, len(messages)),
	}
	for i, msg := range messages {
		export.Messages[i] = exportMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// FormatRelativeTime formats a timestamp as a short age like "2h ago".
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 48*time.Hour:
		return "yesterday"
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	case diff < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(diff.Hours()/24/7))
	default:
		return t.Format("2006-01-02")
	}
}
