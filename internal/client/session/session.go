// Package session holds the client's belief about who is logged in.
//
// The stored token is decoded without verifying its signature. The decoded
// identity and role only choose which portal to show; the backend re-validates
// the token on every authenticated call, so nothing here grants access.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

// TokenKey names the persisted bearer token.
const TokenKey = "token"

// KeyValueStore is durable client-local storage.
type KeyValueStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Identity is the decoded owner of a token.
type Identity struct {
	ID          string
	DisplayName string
}

// Session exists only while a non-expired token is held.
type Session struct {
	Identity  Identity
	Role      models.Role
	Token     string
	ExpiresAt time.Time
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// Store wraps the single persisted token.
type Store struct {
	kv      KeyValueStore
	now     func() time.Time
	logger  *zap.Logger
	parser  *jwt.Parser
	current *Session
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore constructs a Store over kv.
func NewStore(kv KeyValueStore, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now, logger: zap.NewNop(), parser: jwt.NewParser()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore decodes the persisted token, if any. A token that is missing,
// undecodable or expired yields ErrNoSession; the latter two are discarded.
func (s *Store) Restore() (*Session, error) {
	s.current = nil
	token, ok, err := s.kv.Get(TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return nil, appErrors.ErrNoSession
	}

	sess, err := s.decode(token)
	if err != nil {
		s.logger.Debug("discarding stored token", zap.Error(err))
		if delErr := s.kv.Delete(TokenKey); delErr != nil {
			return nil, fmt.Errorf("discard token: %w", delErr)
		}
		return nil, appErrors.ErrNoSession
	}

	s.current = sess
	return sess, nil
}

// Establish persists a token issued by a successful login.
func (s *Store) Establish(token string) (*Session, error) {
	sess, err := s.decode(token)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(TokenKey, token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	s.current = sess
	return sess, nil
}

// Clear removes the persisted token.
func (s *Store) Clear() error {
	s.current = nil
	if err := s.kv.Delete(TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Current returns the active session or nil.
func (s *Store) Current() *Session {
	return s.current
}

// Token returns the bearer token of the active session, or "".
func (s *Store) Token() string {
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Store) decode(token string) (*Session, error) {
	claims := &models.Claims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNoSession.Code, appErrors.ErrNoSession.Status, "malformed token")
	}
	if claims.ExpiresAt == nil {
		return nil, appErrors.Clone(appErrors.ErrNoSession, "token has no expiry")
	}
	if !claims.ExpiresAt.After(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrSessionExpired, "token expired")
	}
	if !claims.Role.Valid() || claims.ID == "" {
		return nil, appErrors.Clone(appErrors.ErrNoSession, "token carries no identity")
	}
	return &Session{
		Identity:  Identity{ID: claims.ID, DisplayName: claims.Name},
		Role:      claims.Role,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
