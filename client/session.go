// Package client holds the client-side session cache: the persisted token,
// the identity decoded from it, and the login/logout state transitions.
package client

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"dm-lab/auth"
	"dm-lab/domain"
)

type ActionType string

const (
	ActionLogin  ActionType = "LOGIN"
	ActionLogout ActionType = "LOGOUT"
)

// Action drives a session state transition. Login carries the freshly issued
// token and the identity it belongs to.
type Action struct {
	Type  ActionType
	Token string
	User  *domain.Identity
}

// State is the in-memory session state. A nil User means logged out.
type State struct {
	User *domain.Identity
}

// persisted mirrors the two and only two entries kept on disk:
// the token string and a boolean UI flag.
type persisted struct {
	Token string `json:"token"`
	Modal bool   `json:"modal"`
}

// SessionStore persists the session cache as a single JSON file.
type SessionStore struct {
	path string
	log  *slog.Logger
}

func NewSessionStore(log *slog.Logger, path string) *SessionStore {
	return &SessionStore{path: path, log: log}
}

// Load builds the initial session state. It is called exactly once at
// startup; no state is derived as an import-time side effect.
//
// An absent token means logged out. A present but expired token is treated
// the same way, and both persisted entries are cleared so the stale
// credential is not offered again. The token's signature is not re-verified
// here; the server that issued it remains the authority and re-checks it on
// every request.
func (s *SessionStore) Load() State {
	entries, ok := s.read()
	if !ok || entries.Token == "" {
		s.log.Debug("no token found")
		return State{}
	}

	claims, err := auth.DecodeUnverified(entries.Token)
	if err != nil {
		s.log.Warn("stored token is unreadable, clearing session", "error", err)
		s.clear()
		return State{}
	}

	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		s.log.Debug("stored token is expired, clearing session")
		s.clear()
		return State{}
	}

	return State{User: &domain.Identity{
		Username: claims.Username,
		Email:    claims.Email,
	}}
}

// Reduce applies an action to the session state, keeping the persisted
// entries and the in-memory identity in step. An unknown action kind is a
// programming error and fails loudly.
func (s *SessionStore) Reduce(state State, action Action) State {
	switch action.Type {
	case ActionLogin:
		s.write(persisted{Token: action.Token, Modal: true})
		return State{User: action.User}
	case ActionLogout:
		s.clear()
		return State{User: nil}
	default:
		panic(fmt.Sprintf("unknown action type: %s", action.Type))
	}
}

// Token returns the persisted token string, for attaching to outgoing
// requests. Empty when logged out.
func (s *SessionStore) Token() string {
	entries, ok := s.read()
	if !ok {
		return ""
	}
	return entries.Token
}

func (s *SessionStore) read() (persisted, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return persisted{}, false
	}
	var entries persisted
	if err := json.Unmarshal(data, &entries); err != nil {
		return persisted{}, false
	}
	return entries, true
}

func (s *SessionStore) write(entries persisted) {
	data, err := json.Marshal(entries)
	if err != nil {
		s.log.Error("failed to encode session entries", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.log.Error("failed to persist session entries", "error", err)
	}
}

func (s *SessionStore) clear() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Error("failed to clear session entries", "error", err)
	}
}
