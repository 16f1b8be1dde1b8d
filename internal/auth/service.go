package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword is returned when the supplied admin password does not
// match the stored hash.
var ErrInvalidPassword = errors.New("invalid password")

// Service gates the admin-only mutations behind a single shared password.
// A successful login yields an opaque session token; the rest of the
// system only ever asks whether a token is valid.
type Service struct {
	passwordHash []byte

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewService creates a Service from a bcrypt hash of the admin password.
func NewService(passwordHash string) *Service {
	return &Service{
		passwordHash: []byte(passwordHash),
		sessions:     make(map[string]struct{}),
	}
}

// HashPassword bcrypt-hashes a plaintext admin password. Used at startup
// when the deployment configures a plaintext password instead of a hash.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Login compares the password against the stored hash and, on success,
// returns a new session token.
func (s *Service) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	s.mu.Lock()
	s.sessions[token] = struct{}{}
	s.mu.Unlock()

	return token, nil
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Valid reports whether the token belongs to a live admin session.
func (s *Service) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	return ok
}
