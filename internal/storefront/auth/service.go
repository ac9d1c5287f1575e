package auth

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/WappTienda/frontend/internal/storefront/domain"
	"github.com/WappTienda/frontend/internal/storefront/form"
)

var errLoginNoToken = errors.New("auth: login response without access token")

// Credentials is the admin login form.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Authenticator exchanges credentials for a session with the REST API.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (domain.AuthResponse, error)
}

// Service runs the admin login flow against the Authenticator and records the
// result in the Store.
type Service struct {
	store     *Store
	authn     Authenticator
	validator *form.Validator
	logger    *zap.Logger
}

// NewService wires a login Service.
func NewService(store *Store, authn Authenticator, validator *form.Validator, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if authn == nil {
		return nil, errors.New("auth: authenticator is required")
	}
	if validator == nil {
		validator = form.NewValidator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, authn: authn, validator: validator, logger: logger}, nil
}

// Login validates the credentials before any network call. The Store is only
// touched when the API accepts them.
func (s *Service) Login(ctx context.Context, creds Credentials) (domain.User, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := s.validator.Struct(creds); err != nil {
		return domain.User{}, err
	}

	resp, err := s.authn.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		s.logger.Warn("admin login rejected", zap.Error(err))
		return domain.User{}, err
	}
	if resp.AccessToken == "" {
		return domain.User{}, errLoginNoToken
	}
	if err := s.store.Login(resp.User, resp.AccessToken); err != nil {
		s.logger.Error("admin session persist failed", zap.Error(err))
		return resp.User, err
	}
	s.logger.Info("admin logged in", zap.String("user_id", resp.User.ID))
	return resp.User, nil
}

// Logout clears the session.
func (s *Service) Logout() error {
	return s.store.Logout()
}

// Store exposes the session store backing the service.
func (s *Service) Store() *Store {
	return s.store
}
