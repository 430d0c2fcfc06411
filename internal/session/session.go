package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ishtiakalhumaidi/bidstock-client/internal/clienterrors"
	"github.com/ishtiakalhumaidi/bidstock-client/internal/models"
	"github.com/ishtiakalhumaidi/bidstock-client/utils"
)

// state is the on-disk shape: the same two keys the web client keeps in
// local storage.
type state struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Store is the process-wide session manager: it holds the signed-in user and
// bearer token, hydrates them from a state file at startup and clears both
// on logout. All serialization stays inside this package.
type Store struct {
	path string

	mu    sync.RWMutex
	user  *models.User
	token string
}

// NewStore creates a store persisting to path. Call Hydrate before first use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Hydrate loads the persisted session. A missing or unreadable state file is
// not an error: the store simply starts signed out.
func (s *Store) Hydrate() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			utils.Warn("could not read session file, starting signed out", map[string]any{
				"path":  s.path,
				"error": err.Error(),
			})
		}
		return
	}

	var st state
	if err := json.Unmarshal(raw, &st); err != nil {
		utils.Warn("corrupt session file, starting signed out", map[string]any{"path": s.path})
		return
	}
	if st.User == nil || st.Token == "" {
		return
	}

	s.mu.Lock()
	s.user = st.User
	s.token = st.Token
	s.mu.Unlock()

	utils.Debug("session hydrated", map[string]any{"user_id": st.User.UserID, "role": st.User.Role})
}

// SignIn stores a fresh session and persists it.
func (s *Store) SignIn(user models.User, token string) error {
	if user.UserID == "" || token == "" {
		return fmt.Errorf("session: %w: missing user or token", clienterrors.ErrValidation)
	}

	s.mu.Lock()
	u := user
	s.user = &u
	s.token = token
	s.mu.Unlock()

	return s.persist()
}

// SignOut clears the in-memory session and removes both persisted keys.
func (s *Store) SignOut() error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: clear state file: %w", err)
	}
	return nil
}

// User returns a copy of the signed-in user, if any.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Role returns the signed-in user's role, or "" when signed out.
func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// Token returns the bearer token. Implements apiclient.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a user is signed in with a token that has
// not expired. Expiry comes from the token's own exp claim; the signature is
// the server's to verify, not ours.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	user, token := s.user, s.token
	s.mu.RUnlock()

	if user == nil || token == "" {
		return false
	}
	return !tokenExpired(token, time.Now())
}

// RequireUser returns the signed-in user or the matching session error.
func (s *Store) RequireUser() (models.User, error) {
	s.mu.RLock()
	user, token := s.user, s.token
	s.mu.RUnlock()

	if user == nil || token == "" {
		return models.User{}, clienterrors.ErrNotSignedIn
	}
	if tokenExpired(token, time.Now()) {
		return models.User{}, clienterrors.ErrSessionExpired
	}
	return *user, nil
}

func (s *Store) persist() error {
	s.mu.RLock()
	st := state{User: s.user, Token: s.token}
	s.mu.RUnlock()

	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: create state dir: %w", err)
	}

	// Write-then-rename so a crash never leaves a half-written session.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("session: write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: replace state file: %w", err)
	}
	return nil
}

// tokenExpired parses the JWT without verifying its signature and checks the
// exp claim. Tokens without an exp claim, or that are not JWTs at all, are
// treated as non-expiring and left to the server to reject.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}
