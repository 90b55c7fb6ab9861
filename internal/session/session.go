// Package session keeps the signed-in user for Stockroom. A remembered
// session is written to disk so the next launch can skip the login screen;
// otherwise it lives only in memory.
package session

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v4"
	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
)

// Session is an authenticated user.
type Session struct {
	UserID       int64     `toml:"user_id"`
	Username     string    `toml:"username"`
	DisplayName  string    `toml:"display_name"`
	Email        string    `toml:"email,omitempty"`
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token,omitempty"`
	ExpiresAt    time.Time `toml:"expires_at"`
	Remembered   bool      `toml:"-"`
}

// Expired reports whether the session's token has a known expiry in the past.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store owns the current session and its optional file.
type Store struct {
	path    string
	current *Session
	now     func() time.Time
	logger  *zap.Logger
}

// NewStore returns a store persisting to path. An empty path disables
// persistence.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   strings.TrimSpace(path),
		now:    time.Now,
		logger: logger.Named("session"),
	}
}

// Current returns the active session, if any.
func (s *Store) Current() (Session, bool) {
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Restore loads a remembered session. Missing, malformed or expired files
// yield no session; expired and malformed files are removed.
func (s *Store) Restore() (Session, bool) {
	if s.path == "" {
		return Session{}, false
	}
	file, err := os.Open(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Open session file failed", zap.Error(err))
		}
		return Session{}, false
	}
	data, err := io.ReadAll(file)
	_ = file.Close()
	if err != nil {
		s.logger.Warn("Read session file failed", zap.Error(err))
		return Session{}, false
	}

	var sess Session
	if err := toml.Unmarshal(data, &sess); err != nil || strings.TrimSpace(sess.AccessToken) == "" {
		s.logger.Warn("Discarding malformed session file", zap.String("path", s.path))
		s.remove()
		return Session{}, false
	}
	if exp := TokenExpiry(sess.AccessToken); !exp.IsZero() {
		sess.ExpiresAt = exp
	}
	if sess.Expired(s.now()) {
		s.logger.Info("Remembered session expired", zap.String("username", sess.Username), zap.Time("expires_at", sess.ExpiresAt))
		s.remove()
		return Session{}, false
	}
	sess.Remembered = true
	s.current = &sess
	s.logger.Info("Session restored", zap.String("username", sess.Username))
	return sess, true
}

// Begin starts a session from a login response. When remember is set the
// session is written to disk with owner-only permissions; otherwise any
// remembered file is removed.
func (s *Store) Begin(resp *catalog.LoginResponse, remember bool) (Session, error) {
	if resp == nil || strings.TrimSpace(resp.AccessToken) == "" {
		return Session{}, errors.New("login response has no access token")
	}
	sess := Session{
		UserID:       resp.ID,
		Username:     resp.Username,
		DisplayName:  resp.DisplayName(),
		Email:        resp.Email,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    TokenExpiry(resp.AccessToken),
		Remembered:   remember,
	}
	s.current = &sess
	s.logger.Info("Signed in", zap.String("username", sess.Username), zap.Bool("remember", remember))

	if !remember || s.path == "" {
		s.remove()
		return sess, nil
	}
	if err := s.write(sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// End clears the session in memory and on disk.
func (s *Store) End() {
	if s.current != nil {
		s.logger.Info("Signed out", zap.String("username", s.current.Username))
	}
	s.current = nil
	s.remove()
}

func (s *Store) write(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create session dir")
	}
	data, err := toml.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write session")
	}
	return nil
}

func (s *Store) remove() {
	if s.path == "" {
		return
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Remove session file failed", zap.Error(err))
	}
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// Tokens that are not JWTs, or carry no exp, report the zero time.
func TokenExpiry(token string) time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
