// Package chat owns the client-side conversation state: the registry of the
// user's sessions and the view of the one active conversation, including the
// optimistic-send and history-load reconciliation against the service.
package chat

import (
	"sync"

	"github.com/luminalabs/lumina-cli/internal/models"
)

// Registry is the authoritative local list of the signed-in user's sessions,
// in display order. The server's order is preserved on Replace; sessions
// provisioned by a first send enter at the head. An id appears at most once.
type Registry struct {
	mu       sync.RWMutex
	sessions []models.Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Replace swaps the whole list for the server's, preserving its order.
// Duplicate ids keep their first occurrence.
func (r *Registry) Replace(sessions []models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]models.Session, 0, len(sessions))
	seen := make(map[string]struct{}, len(sessions))
	for _, s := range sessions {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		next = append(next, s)
	}
	r.sessions = next
}

// Prepend inserts a just-created session at the head of the list. An
// existing entry with the same id is replaced, never duplicated.
func (r *Registry) Prepend(session models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(session.ID)
	r.sessions = append([]models.Session{session}, r.sessions...)
}

// Remove deletes id from the list and returns the deterministic successor:
// the first remaining session, or nil when the list emptied. The bool
// reports whether id was present at all.
func (r *Registry) Remove(id string) (*models.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.removeLocked(id) {
		return nil, false
	}
	if len(r.sessions) == 0 {
		return nil, true
	}
	successor := r.sessions[0]
	return &successor, true
}

// removeLocked drops id from the list. Caller must hold r.mu.
func (r *Registry) removeLocked(id string) bool {
	for i, s := range r.sessions {
		if s.ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (models.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return models.Session{}, false
}

// Rename updates the display title of id, reporting whether it was found.
func (r *Registry) Rename(id, title string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Title = title
			return true
		}
	}
	return false
}

// Sessions returns a snapshot of the list in display order.
func (r *Registry) Sessions() []models.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Len reports the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
