package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luminalabs/lumina-cli/internal/models"
)

// ResolveSessionRef converts a user-friendly session reference into an id,
// matched against the given list in display order (most recent first).
//
// Supported references:
//   - "@last" - most recent session
//   - "@first" - oldest session
//   - "1", "2", "3" - by position (1-based, from most recent)
//   - exact session id
//   - "substring" - fuzzy match on title (error if multiple matches)
func ResolveSessionRef(sessions []models.Session, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty session reference")
	}
	if len(sessions) == 0 {
		return "", fmt.Errorf("no sessions found")
	}

	switch strings.ToLower(ref) {
	case "@last":
		return sessions[0].ID, nil
	case "@first":
		return sessions[len(sessions)-1].ID, nil
	}

	// Numeric position (1-based)
	if index, err := strconv.Atoi(ref); err == nil {
		if index < 1 || index > len(sessions) {
			return "", fmt.Errorf("position %d out of range (1-%d)", index, len(sessions))
		}
		return sessions[index-1].ID, nil
	}

	// Direct id takes precedence over title matching
	for _, s := range sessions {
		if s.ID == ref {
			return s.ID, nil
		}
	}

	// Substring match on title (case-insensitive)
	refLower := strings.ToLower(ref)
	var matches []models.Session
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(s.DisplayTitle()), refLower) {
			matches = append(matches, s)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no session matching '%s'", ref)
	case 1:
		return matches[0].ID, nil
	default:
		var titles []string
		for _, m := range matches {
			titles = append(titles, fmt.Sprintf("'%s'", m.DisplayTitle()))
		}
		return "", fmt.Errorf("multiple sessions match '%s': %s. Use the id or be more specific",
			ref, strings.Join(titles, ", "))
	}
}

// ListAliases returns information about supported session references.
func ListAliases() string {
	return `Supported references:
  @last          Most recent session
  @first         Oldest session
  1, 2, 3        By position (1-based, from most recent)
  "text"         Search by title substring
  <id>           Direct session id`
}
