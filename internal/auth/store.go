package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/luminalabs/lumina-cli/internal/config"
	apierrors "github.com/luminalabs/lumina-cli/internal/errors"
)

// StoredToken is the on-disk form of the credential. The field names
// mirror the token endpoint's response so the file is self-describing.
type StoredToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	// FreshLogin marks a login that has not been greeted yet. It is
	// consumed exactly once by the chat surface.
	FreshLogin bool `json:"fresh_login,omitempty"`
}

// Store persists the bearer token across client restarts.
type Store struct {
	path string
}

// NewStore creates a store writing to the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStore creates a store at the standard token location
func DefaultStore() (*Store, error) {
	path, err := config.GetTokenPath()
	if err != nil {
		return nil, err
	}
	return NewStore(path), nil
}

// Load reads the persisted token. A missing file yields ErrNoCredentials.
func (s *Store) Load() (*StoredToken, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apierrors.ErrNoCredentials
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok StoredToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, apierrors.ErrNoCredentials
	}

	return &tok, nil
}

// Save writes a freshly obtained token, marking it as a fresh login
func (s *Store) Save(accessToken string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	tok := StoredToken{
		AccessToken: accessToken,
		TokenType:   "bearer",
		FreshLogin:  true,
	}

	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	// 0o600: the token grants full account access
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Clear removes the persisted token. Clearing an absent file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// Hydrate loads the persisted token into the in-memory handle. A missing
// or empty token file leaves the handle untouched and reports false.
func (s *Store) Hydrate(creds *Credentials) (bool, error) {
	tok, err := s.Load()
	if err != nil {
		if err == apierrors.ErrNoCredentials {
			return false, nil
		}
		return false, err
	}
	creds.Set(tok.AccessToken)
	return true, nil
}

// ConsumeFreshLogin returns whether the stored token came from a login
// that has not been greeted yet, clearing the flag on the way out.
func (s *Store) ConsumeFreshLogin() bool {
	tok, err := s.Load()
	if err != nil || !tok.FreshLogin {
		return false
	}

	tok.FreshLogin = false
	if data, err := json.MarshalIndent(tok, "", "  "); err == nil {
		_ = os.WriteFile(s.path, data, 0o600)
	}

	return true
}
