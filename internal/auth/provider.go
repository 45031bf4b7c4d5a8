// Package auth supplies the bearer token attached to backend calls.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	internalErrors "github.com/vogiaan1904/ticketbottle-parkgate/internal/errors"
	"github.com/vogiaan1904/ticketbottle-parkgate/internal/models"
	"github.com/vogiaan1904/ticketbottle-parkgate/pkg/clock"
)

type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Store is a TokenProvider that can persist and drop the session.
type Store interface {
	TokenProvider
	Save(s Session) error
	Clear() error
	Claims(ctx context.Context) (*Claims, error)
}

type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user,omitempty"`
}

type Claims struct {
	jwt.RegisteredClaims
	Username string          `json:"username,omitempty"`
	Role     models.UserRole `json:"role,omitempty"`
}

// ParseClaims reads the claims without verifying the signature; the
// backend does that. Opaque tokens return nil claims and no error.
func ParseClaims(token string) *Claims {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	return claims
}

func checkToken(token string, c clock.Clock) (*Claims, error) {
	if token == "" {
		return nil, internalErrors.ErrSessionNotFound
	}
	claims := ParseClaims(token)
	if claims != nil && claims.ExpiresAt != nil && !c.Now().Before(claims.ExpiresAt.Time) {
		return claims, internalErrors.ErrSessionExpired
	}
	return claims, nil
}

type staticProvider struct {
	token string
	clock clock.Clock
}

func NewStaticProvider(token string, c clock.Clock) TokenProvider {
	return &staticProvider{token: token, clock: c}
}

func (p *staticProvider) Token(context.Context) (string, error) {
	if _, err := checkToken(p.token, p.clock); err != nil {
		return "", err
	}
	return p.token, nil
}

type fileStore struct {
	path  string
	clock clock.Clock

	mu sync.Mutex
}

func NewFileStore(path string, c clock.Clock) Store {
	return &fileStore{path: path, clock: c}
}

func (s *fileStore) load() (Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, internalErrors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *fileStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load()
	if err != nil {
		return "", err
	}
	if _, err := checkToken(sess.Token, s.clock); err != nil {
		return "", err
	}
	return sess.Token, nil
}

func (s *fileStore) Claims(context.Context) (*Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.load()
	if err != nil {
		return nil, err
	}
	return checkToken(sess.Token, s.clock)
}

func (s *fileStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *fileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
