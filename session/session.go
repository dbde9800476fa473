// Package session owns the logged-in user: one record at a time, mirrored
// into durable local storage so it survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"aquasmart/entities"
	"aquasmart/repositories"

	"go.uber.org/zap"
)

// StorageKey is where the user record is kept in local storage.
const StorageKey = "aquasmart_user"

var ErrNoSession = errors.New("no active session")

// Authenticator is the part of the backend client the store needs.
type Authenticator interface {
	LoginUser(ctx context.Context, email, password string) (*entities.User, error)
	RegisterUser(ctx context.Context, email, fullName, password string) (*entities.User, error)
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	auth    Authenticator
	storage repositories.LocalStorage
	log     *zap.SugaredLogger
	user    *entities.User
}

func NewStore(auth Authenticator, storage repositories.LocalStorage, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{auth: auth, storage: storage, log: log}
}

// Init restores a previously stored user. A record that does not decode is
// removed and leaves the store logged out; only storage failures are returned.
func (s *Store) Init() error {
	raw, ok, err := s.storage.GetItem(StorageKey)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if !ok {
		return nil
	}

	var user entities.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == 0 {
		s.log.Warnf("discarding unreadable session record: %v", err)
		if err := s.storage.RemoveItem(StorageKey); err != nil {
			return fmt.Errorf("discard session: %w", err)
		}
		return nil
	}
	s.user = &user
	s.log.Infof("restored session for %s", user.Email)
	return nil
}

// Login authenticates against the backend and makes the user active.
// Backend errors are returned unchanged and leave the session as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*entities.User, error) {
	user, err := s.auth.LoginUser(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.set(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates the account and logs it in.
func (s *Store) Register(ctx context.Context, email, fullName, password string) (*entities.User, error) {
	user, err := s.auth.RegisterUser(ctx, email, fullName, password)
	if err != nil {
		return nil, err
	}
	if err := s.set(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the in-memory and stored copies.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	if err := s.storage.RemoveItem(StorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the active user, or nil.
func (s *Store) Current() *entities.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Require is Current for callers that cannot proceed without a user.
func (s *Store) Require() (*entities.User, error) {
	if u := s.Current(); u != nil {
		return u, nil
	}
	return nil, ErrNoSession
}

func (s *Store) set(user *entities.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.SetItem(StorageKey, string(raw)); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	u := *user
	s.user = &u
	return nil
}
