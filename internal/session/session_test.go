package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/session"
)

func TestLoadMissingFileMeansLoggedOut(t *testing.T) {
	s, err := session.Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.LoggedIn() {
		t.Error("fresh directory should not be logged in")
	}
	if s.Token() != "" {
		t.Errorf("Token = %q, want empty", s.Token())
	}
	if s.IsAdmin() {
		t.Error("logged-out session cannot be admin")
	}
}

func TestSetLoginRoundTrip(t *testing.T) {
	dir := t.TempDir()
	user := api.User{ID: "u1", Name: "Dana", Email: "dana@example.com", Role: api.RoleDev}

	s, err := session.Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.SetLogin(user, "jwt-abc"); err != nil {
		t.Fatalf("SetLogin: %v", err)
	}

	reloaded, err := session.Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.LoggedIn() {
		t.Fatal("expected logged-in session after reload")
	}
	if reloaded.Token() != "jwt-abc" {
		t.Errorf("Token = %q", reloaded.Token())
	}
	if got := reloaded.User(); got != user {
		t.Errorf("User = %+v, want %+v", got, user)
	}
	if reloaded.IsAdmin() {
		t.Error("DEV role should not be admin")
	}
}

func TestSessionFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s, _ := session.Load(dir)
	if err := s.SetLogin(api.User{ID: "u1"}, "tok"); err != nil {
		t.Fatalf("SetLogin: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "session.json"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}

func TestIsAdmin(t *testing.T) {
	dir := t.TempDir()
	s, _ := session.Load(dir)
	if err := s.SetLogin(api.User{ID: "u1", Role: api.RoleAdmin}, "tok"); err != nil {
		t.Fatalf("SetLogin: %v", err)
	}
	if !s.IsAdmin() {
		t.Error("Admin role should report IsAdmin")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	s, _ := session.Load(dir)
	if err := s.SetLogin(api.User{ID: "u1"}, "tok"); err != nil {
		t.Fatalf("SetLogin: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.LoggedIn() {
		t.Error("session still logged in after Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !os.IsNotExist(err) {
		t.Error("session file should be removed")
	}

	// clearing twice is fine
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
