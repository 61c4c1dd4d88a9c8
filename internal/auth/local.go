// ABOUTME: Local authenticator backed by bcrypt password hashes.
// ABOUTME: Sessions are HS256 JWTs signed with a configured secret.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/harperreed/care4u/internal/models"
)

const (
	defaultTokenTTL = 24 * time.Hour
	tokenIssuer     = "care4u"
)

// Local checks bcrypt hashes. Without a credentials file they live only as
// long as the process.
type Local struct {
	mu     sync.RWMutex
	hashes map[string][]byte
	path   string
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// LocalOption customizes a Local authenticator.
type LocalOption func(*Local)

// WithCredentialsFile keeps hashes in a JSON file so registrations survive restarts.
func WithCredentialsFile(path string) LocalOption {
	return func(l *Local) {
		l.path = path
	}
}

// NewLocal creates a local authenticator. An empty secret is rejected.
func NewLocal(secret string, ttl time.Duration, opts ...LocalOption) (*Local, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth secret is required for local mode")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	l := &Local{
		hashes: make(map[string][]byte),
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	return l, nil
}

// load reads the credentials file. A missing file means no users yet.
func (l *Local) load() error {
	if l.path == "" {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}
	var stored map[string]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("parse credentials %s: %w", l.path, err)
	}
	for username, hash := range stored {
		l.hashes[username] = []byte(hash)
	}
	return nil
}

// save writes every hash to the credentials file. Caller holds l.mu.
func (l *Local) save() error {
	if l.path == "" {
		return nil
	}
	stored := make(map[string]string, len(l.hashes))
	for username, hash := range l.hashes {
		stored[username] = string(hash)
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

// Register stores a hash for a new username and returns a session.
func (l *Local) Register(_ context.Context, profile models.UserProfile, password string) (*Session, error) {
	username := strings.TrimSpace(profile.Username)
	if username == "" {
		return nil, ErrMissingUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	l.mu.Lock()
	if _, exists := l.hashes[username]; exists {
		l.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", username, ErrUserExists)
	}
	l.hashes[username] = hash
	if err := l.save(); err != nil {
		delete(l.hashes, username)
		l.mu.Unlock()
		return nil, err
	}
	l.mu.Unlock()

	return l.issue(username)
}

// Login checks the password against the stored hash.
func (l *Local) Login(_ context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	l.mu.RLock()
	hash, ok := l.hashes[username]
	l.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return l.issue(username)
}

func (l *Local) issue(username string) (*Session, error) {
	now := l.now()
	expires := now.Add(l.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(l.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Username: username, Token: token, ExpiresAt: expires}, nil
}

// Verify parses a session token and returns the username it was issued to.
func (l *Local) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return l.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(l.now),
	)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, nil
}
