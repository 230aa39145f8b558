package session

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/prattikkk/Incubyte/internal/models"
)

// Store holds the active session and mirrors it to durable storage. It is the
// sole writer of the credential; readers (every outbound request) go through
// Token under the read lock, so no request observes a half-updated credential.
type Store struct {
	mu      sync.RWMutex
	current *models.Session
	storage Storage
	log     zerolog.Logger
}

func NewStore(storage Storage, log zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		log:     log,
	}
}

// Current returns the active session. An expired session counts as absent.
func (s *Store) Current() (models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.Expired(time.Now()) {
		return models.Session{}, false
	}
	return *s.current, true
}

// Token implements the api client's credential source.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || s.current.Expired(time.Now()) {
		return "", false
	}
	return s.current.Token, true
}

// Set activates sess and persists it. It replaces any previous session.
func (s *Store) Set(sess models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Write(data); err != nil {
		return err
	}
	s.current = &sess
	return nil
}

// Clear drops the active session and its persisted copy. Idempotent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	return s.storage.Remove()
}

// Expired reports whether a session is held but past its expiry, which the
// session watcher uses to force a logout.
func (s *Store) Expired() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current != nil && s.current.Expired(time.Now())
}

// Restore runs once at startup. Missing, corrupt or expired persisted data is
// an expected condition: it is discarded without surfacing an error, and an
// expired entry is also removed from storage.
func (s *Store) Restore() {
	data, err := s.storage.Read()
	if err != nil {
		if !errors.Is(err, ErrNotPersisted) {
			s.log.Debug().Err(err).Msg("persisted session unreadable, starting anonymous")
		}
		return
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		s.log.Debug().Msg("persisted session corrupt, discarding")
		_ = s.storage.Remove()
		return
	}

	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = expiryFromToken(sess.Token)
	}

	if sess.Expired(time.Now()) {
		s.log.Debug().Str("username", sess.Username).Msg("persisted session expired, discarding")
		_ = s.storage.Remove()
		return
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	s.log.Info().Str("username", sess.Username).Msg("session restored")
}

// expiryFromToken recovers the expiry from the token's exp claim for sessions
// persisted before expiresAt was recorded. The client holds no signing key, so
// the claim is read unverified; the backend still validates the token proper.
func expiryFromToken(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
