// Package session owns the signed-in user state: the bearer token and
// the minimal profile, loaded once at startup and cleared on logout.
// Components receive the session explicitly instead of reading ambient
// storage.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/obsworks/tasklog/internal/api"
)

const fileName = "session.json"

type sessionData struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Session holds the auth state for one CLI invocation. The zero state
// (no file on disk) means logged out, not an error.
type Session struct {
	path string
	data sessionData
}

// Load reads the session file from dir. A missing file yields a
// logged-out session.
func Load(dir string) (*Session, error) {
	s := &Session{path: filepath.Join(dir, fileName)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	if err := json.Unmarshal(data, &s.data); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}

	return s, nil
}

// Token returns the bearer token, or "" when logged out. Satisfies
// api.TokenSource.
func (s *Session) Token() string {
	return s.data.Token
}

// User returns the stored profile. Only meaningful when LoggedIn.
func (s *Session) User() api.User {
	return s.data.User
}

func (s *Session) LoggedIn() bool {
	return s.data.Token != ""
}

func (s *Session) IsAdmin() bool {
	return s.LoggedIn() && s.data.User.Role == api.RoleAdmin
}

// SetLogin replaces the session contents and persists them with 0600
// permissions using an atomic write (tmp + rename).
func (s *Session) SetLogin(user api.User, token string) error {
	s.data = sessionData{Token: token, User: user}

	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing temp session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming session file: %w", err)
	}

	return nil
}

// Clear signs the user out: zeroes the in-memory state and removes the
// file. A file that never existed is not an error.
func (s *Session) Clear() error {
	s.data = sessionData{}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}
