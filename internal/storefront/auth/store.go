package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/storage"
)

const (
	// SessionKey holds the persisted {user, accessToken} session.
	SessionKey = "auth-storage"
	// TokenKey mirrors the raw access token. The admin guard reads only this key.
	TokenKey = "accessToken"
)

// ErrPersist wraps durable storage failures. The in-memory session change has
// already been applied when it is returned.
var ErrPersist = errors.New("auth: persist failed")

// Session is a read-only view of the authenticated session.
type Session struct {
	User            *domain.User `json:"user"`
	AccessToken     string       `json:"accessToken,omitempty"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type persistedSession struct {
	User        *domain.User `json:"user"`
	AccessToken *string      `json:"accessToken"`
}

// Store holds at most one authenticated user and token. IsAuthenticated is true
// iff both are present.
type Store struct {
	mu      sync.RWMutex
	user    *domain.User
	token   string
	durable storage.Store
	logger  *zap.Logger
}

// Options configures a Store.
type Options struct {
	Storage storage.Store
	Logger  *zap.Logger
}

// NewStore constructs a Store and optimistically rehydrates the session from
// durable storage. The API remains the final authority over the token.
func NewStore(opts Options) *Store {
	s := &Store{durable: opts.Storage, logger: opts.Logger}
	if s.durable == nil {
		s.durable = storage.NewMemoryStore()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.rehydrate()
	return s
}

func (s *Store) rehydrate() {
	token, ok, err := s.durable.Get(TokenKey)
	if err != nil {
		s.logger.Warn("auth token rehydrate failed", zap.Error(err))
		return
	}
	if !ok || len(token) == 0 {
		return
	}

	var user *domain.User
	if raw, found, err := s.durable.Get(SessionKey); err == nil && found {
		var payload persistedSession
		if err := json.Unmarshal(raw, &payload); err != nil {
			s.logger.Warn("auth session payload unreadable", zap.Error(err))
		} else {
			user = payload.User
		}
	}
	if user == nil {
		// A token without a user cannot satisfy the session invariant.
		s.logger.Warn("auth token present without user; discarding")
		_ = s.durable.Delete(TokenKey)
		_ = s.durable.Delete(SessionKey)
		return
	}

	s.user = user
	s.token = string(token)
	s.logger.Debug("auth session rehydrated", zap.String("user_id", user.ID))
}

// Login stores user and token in memory and durable storage. Later calls replace earlier ones.
func (s *Store) Login(user domain.User, token string) error {
	if token == "" {
		return errors.New("auth: empty access token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u := user
	s.user = &u
	s.token = token

	raw, err := json.Marshal(persistedSession{User: &u, AccessToken: &token})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.durable.Set(TokenKey, []byte(token)); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	if err := s.durable.Set(SessionKey, raw); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// Logout clears the session and evicts it from durable storage.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.token = ""

	var errs []error
	if err := s.durable.Delete(TokenKey); err != nil {
		errs = append(errs, err)
	}
	if err := s.durable.Delete(SessionKey); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrPersist, errors.Join(errs...))
	}
	return nil
}

// IsAuthenticated reports whether a user and token are both held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Token returns the access token, empty when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the current user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

// Session returns a snapshot of the session. The token is omitted.
func (s *Store) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess := Session{IsAuthenticated: s.user != nil && s.token != ""}
	if s.user != nil {
		u := *s.user
		sess.User = &u
	}
	return sess
}
