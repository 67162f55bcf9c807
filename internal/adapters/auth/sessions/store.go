package sessions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"vet-connect/internal/ports/auth"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const DefaultTTL = 24 * time.Hour

// Store emite y verifica bearer tokens opacos en memoria. Implementa
// auth.AuthVerifier y directory.TokenIssuer. Los tokens mueren con el proceso;
// suficiente para este backend, un IAM real entraría por el mismo port.
type Store struct {
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time

	byToken map[string]session
}

type session struct {
	userID    string
	expiresAt time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		byToken: make(map[string]session),
	}
}

// Issue registra una sesión nueva y devuelve el token.
func (s *Store) Issue(userID string) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token] = session{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}
	return token
}

// Verify implementa auth.AuthVerifier.
func (s *Store) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrInvalidToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byToken[token]
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}
	if s.now().After(sess.expiresAt) {
		delete(s.byToken, token)
		return auth.Claims{}, ErrInvalidToken
	}

	return auth.Claims{UserID: sess.userID}, nil
}

// Revoke invalida un token (logout).
func (s *Store) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
