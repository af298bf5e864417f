package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luminalabs/lumina-cli/internal/chat"
	"github.com/luminalabs/lumina-cli/internal/models"
)

// sidebar is the session list pane of the chat surface. It renders the
// registry snapshot it was last given; the registry itself stays with
// the chat model.
type sidebar struct {
	sessions []models.Session
	cursor   int

	width  int
	height int
}

// setSessions replaces the list, keeping the cursor on a valid row
func (s *sidebar) setSessions(sessions []models.Session) {
	s.sessions = sessions
	if s.cursor >= len(sessions) {
		s.cursor = len(sessions) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// moveUp moves the cursor up, wrapping at the top
func (s *sidebar) moveUp() {
	if len(s.sessions) == 0 {
		return
	}
	s.cursor--
	if s.cursor < 0 {
		s.cursor = len(s.sessions) - 1
	}
}

// moveDown moves the cursor down, wrapping at the bottom
func (s *sidebar) moveDown() {
	if len(s.sessions) == 0 {
		return
	}
	s.cursor++
	if s.cursor >= len(s.sessions) {
		s.cursor = 0
	}
}

// selected returns the session under the cursor
func (s *sidebar) selected() (models.Session, bool) {
	if len(s.sessions) == 0 || s.cursor < 0 || s.cursor >= len(s.sessions) {
		return models.Session{}, false
	}
	return s.sessions[s.cursor], true
}

// moveTo places the cursor on the session with the given id, if present
func (s *sidebar) moveTo(id string) {
	for i, sess := range s.sessions {
		if sess.ID == id {
			s.cursor = i
			return
		}
	}
}

// view renders the pane. activeID marks the session whose conversation
// is showing; focused switches the border and enables the cursor.
func (s *sidebar) view(activeID string, focused bool) string {
	title := sidebarTitleStyle.Render("Sessions")

	innerWidth := s.width - 4
	if innerWidth < 10 {
		innerWidth = 10
	}

	var rows []string
	if len(s.sessions) == 0 {
		rows = append(rows, hintStyle.Render("No sessions yet"))
	} else {
		maxRows := s.height - 4
		if maxRows < 3 {
			maxRows = 3
		}

		// Keep the cursor row visible
		start := 0
		if s.cursor >= maxRows {
			start = s.cursor - maxRows + 1
		}
		end := start + maxRows
		if end > len(s.sessions) {
			end = len(s.sessions)
		}

		if start > 0 {
			rows = append(rows, hintStyle.Render("..."))
		}
		for i := start; i < end; i++ {
			rows = append(rows, s.renderRow(i, activeID, focused, innerWidth))
		}
		if end < len(s.sessions) {
			rows = append(rows, hintStyle.Render("..."))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, append([]string{title, ""}, rows...)...)

	style := sidebarStyle
	if focused {
		style = sidebarFocusedStyle
	}
	return style.Width(s.width).Height(s.height).Render(content)
}

// renderRow renders one session line: cursor, marker, title, age
func (s *sidebar) renderRow(i int, activeID string, focused bool, width int) string {
	sess := s.sessions[i]

	cursor := "  "
	style := itemStyle
	if focused && i == s.cursor {
		cursor = cursorStyle.Render("> ")
		style = itemSelectedStyle
	}

	marker := "  "
	if sess.ID == activeID {
		marker = itemActiveStyle.Render("● ")
	}

	title := sess.DisplayTitle()
	age := chat.FormatRelativeTime(sess.CreatedAt)

	// Truncate the title so the line fits the pane
	maxTitle := width - lipgloss.Width(cursor) - 2 - len(age) - 1
	if maxTitle > 6 && len(title) > maxTitle {
		title = title[:maxTitle-1] + "…"
	}

	line := fmt.Sprintf("%s%s%s", cursor, marker, style.Render(title))
	if age != "" {
		line += itemTimeStyle.Render(" " + age)
	}
	return line
}

// shortTitle trims a session title for the header line
func shortTitle(title string, max int) string {
	title = strings.TrimSpace(title)
	if max > 3 && len(title) > max {
		return title[:max-1] + "…"
	}
	return title
}
