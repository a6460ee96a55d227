// Package session holds the logged-in admin's identity and token, persisted
// through a pluggable Storage.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
)

var (
	ErrNoToken = errors.New("session: login without token")
	ErrCorrupt = errors.New("session: stored user is not valid JSON")
)

// State is built once per request and handed down explicitly.
type State struct {
	mu       sync.RWMutex
	storage  Storage
	user     *User
	userID   string
	token    string
	loggedIn bool
	dirty    bool
}

func New(storage Storage) *State {
	return &State{storage: storage}
}

// Hydrate reads the persisted keys. A corrupt user entry wipes the session
// and returns ErrCorrupt.
func (s *State) Hydrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user, s.userID, s.token, s.loggedIn = nil, "", "", false

	token, _ := s.storage.Get(KeyToken)
	status, _ := s.storage.Get(KeyLoginStatus)
	userID, _ := s.storage.Get(KeyUserID)

	if raw, ok := s.storage.Get(KeyUser); ok && raw != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.clearLocked()
			return ErrCorrupt
		}
		s.user = &u
		if userID == "" {
			userID = u.ID.String()
		}
	}

	s.token = token
	s.userID = userID
	s.loggedIn = status == "true" && token != ""
	return nil
}

// Login records the user and token. Callers must Save to persist.
func (s *State) Login(user User, token string) error {
	if token == "" {
		return ErrNoToken
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.storage.Set(KeyUser, string(raw))
	s.storage.Set(KeyUserID, user.ID.String())
	s.storage.Set(KeyToken, token)
	s.storage.Set(KeyLoginStatus, "true")

	u := user
	s.user = &u
	s.userID = user.ID.String()
	s.token = token
	s.loggedIn = true
	s.dirty = true
	return nil
}

// Logout forgets everything. Callers must Save to persist.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *State) clearLocked() {
	for _, k := range allKeys {
		s.storage.Delete(k)
	}
	s.user, s.userID, s.token, s.loggedIn = nil, "", "", false
	s.dirty = true
}

func (s *State) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Save(ctx); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// Dirty reports whether Login or Logout ran since the last Save.
func (s *State) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Owner is a stable, non-secret key for per-login server state such as
// table controllers. It is empty for anonymous sessions.
func (s *State) Owner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.token))
	return hex.EncodeToString(sum[:8])
}

func (s *State) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loggedIn
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *State) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// User returns a copy of the current user.
func (s *State) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}
