package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/api"
	"github.com/prattikkk/Incubyte/internal/models"
	"github.com/prattikkk/Incubyte/internal/session"
)

// AuthService drives the Anonymous/Authenticated transitions. Only a
// successful login mutates the store, so a failed attempt leaves whatever
// session was active before it untouched.
type AuthService struct {
	api   *api.Client
	store *session.Store
	log   zerolog.Logger
}

func NewAuthService(apiClient *api.Client, store *session.Store, log zerolog.Logger) *AuthService {
	return &AuthService{
		api:   apiClient,
		store: store,
		log:   log,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Roles     []string  `json:"roles"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.Session{}, fmt.Errorf("username and password are required: %w", ErrInvalidInput)
	}

	var resp loginResponse
	err := s.api.Post(ctx, "/api/auth/login", nil, loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && (se.Status == http.StatusUnauthorized || se.Status == http.StatusBadRequest || se.Status == http.StatusForbidden) {
			msg := se.Message
			if msg == "" {
				msg = "invalid username or password"
			}
			return models.Session{}, fmt.Errorf("%s: %w", msg, ErrInvalidCredentials)
		}
		return models.Session{}, fmt.Errorf("login failed: %w", err)
	}

	sess := models.Session{
		Username:  resp.Username,
		Roles:     resp.Roles,
		Token:     resp.Token,
		IssuedAt:  resp.IssuedAt,
		ExpiresAt: resp.ExpiresAt,
	}

	if err := s.store.Set(sess); err != nil {
		return models.Session{}, fmt.Errorf("persist session: %w", err)
	}

	s.log.Info().Str("username", sess.Username).Strs("roles", sess.Roles).Msg("logged in")
	return sess, nil
}

func (s *AuthService) Register(ctx context.Context, username string, email string, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("username, email and password are required: %w", ErrInvalidInput)
	}

	req := registerRequest{Username: username, Email: email, Password: password}
	if err := s.api.Post(ctx, "/api/auth/register", nil, req, nil); err != nil {
		return mapBackendError(err, "registration failed")
	}

	s.log.Info().Str("username", username).Msg("registered")
	return nil
}

// Logout clears the active and persisted session. Safe to call when anonymous.
func (s *AuthService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info().Msg("logged out")
	return nil
}
