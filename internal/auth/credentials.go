// Package auth owns the bearer credential: the in-memory handle every
// component shares and its persisted form under the config directory.
package auth

import "sync"

// Credentials holds the bearer token for the signed-in user. Components
// receive this handle explicitly; nothing else caches the token.
type Credentials struct {
	mu    sync.RWMutex
	token string
}

// NewCredentials creates an empty credential handle
func NewCredentials() *Credentials {
	return &Credentials{}
}

// Token returns the current bearer token and whether one is present
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// Set replaces the bearer token atomically
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Clear wipes the bearer token
func (c *Credentials) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}

// IsAuthenticated reports whether a token is currently held
func (c *Credentials) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}
