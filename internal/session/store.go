// Package session provides the admin session store: opaque tokens mapped
// to an identity with a fixed TTL from issuance.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned by Login for a bad username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated is returned by Validate for a missing, unknown or
	// expired token. Validation fails closed: all three look identical to
	// the caller.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Identity is who a valid session belongs to.
type Identity struct {
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// Credentials is the single configured admin identity. PasswordHash is a
// bcrypt hash; there is no multi-user model.
type Credentials struct {
	Username     string
	PasswordHash string
}

// Store mints, validates and revokes session tokens. Mutating API
// endpoints gate on Validate; read endpoints never consult the store.
type Store interface {
	Login(ctx context.Context, username, password string) (string, error)
	Validate(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
}

// newToken mints an opaque 32-byte random token, hex encoded.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("mint session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func checkCredentials(creds Credentials, username, password string) error {
	if username != creds.Username {
		// Still burn a bcrypt comparison so the two failure modes take
		// comparable time.
		_ = bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// MemoryStore is a process-local Store. Sessions do not survive restarts
// and are not shared across instances; suitable for single-instance
// deployments only. Expired entries are evicted lazily on Validate.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	creds    Credentials
	ttl      time.Duration
	now      func() time.Time
}

type memorySession struct {
	identity Identity
	expires  time.Time
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(creds Credentials, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memorySession),
		creds:    creds,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Login(ctx context.Context, username, password string) (string, error) {
	if err := checkCredentials(s.creds, username, password); err != nil {
		return "", err
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sessions[token] = memorySession{
		identity: Identity{Username: username, IssuedAt: now},
		expires:  now.Add(s.ttl),
	}
	return token, nil
}

func (s *MemoryStore) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, ErrUnauthenticated
	}
	if !s.now().Before(sess.expires) {
		delete(s.sessions, token)
		return nil, ErrUnauthenticated
	}
	identity := sess.identity
	return &identity, nil
}

func (s *MemoryStore) Logout(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
