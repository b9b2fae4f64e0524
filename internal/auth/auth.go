// Package auth implements sign up, sign in, and cookie-session
// resolution. All entity access elsewhere is scoped by the user id this
// package resolves.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pollenhq/pollen/internal/store"
)

// SessionTTL is how long a login lasts.
const SessionTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	// ErrEmailTaken rejects a duplicate sign-up.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrWeakPassword rejects passwords under eight characters.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrInvalidEmail rejects malformed emails.
	ErrInvalidEmail = errors.New("auth: invalid email")
	// ErrNoSession means the token is missing, unknown, or expired.
	ErrNoSession = errors.New("auth: no valid session")
)

// Service manages users and sessions.
type Service struct {
	rows   store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewService(rows store.Store, logger *zap.Logger) *Service {
	return &Service{rows: rows, logger: logger, now: time.Now}
}

func newToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// SignUp registers a new user, bootstraps their profile, and opens a
// session. The profile name defaults to the email local part.
func (s *Service) SignUp(email, password string) (*store.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}
	if _, err := s.rows.GetUserByEmail(email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	u := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UnixMilli(),
	}
	if err := s.rows.InsertUser(&u); err != nil {
		return nil, "", err
	}

	name := strings.Split(email, "@")[0]
	profile := store.Profile{
		ID:           u.ID,
		Name:         name,
		Email:        email,
		AccentColor:  store.AccentBlue,
		ReminderTime: "17:00",
	}
	if err := s.rows.UpsertProfile(&profile); err != nil {
		return nil, "", fmt.Errorf("bootstrap profile: %w", err)
	}

	token, err := s.openSession(u.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user signed up", zap.String("user", u.ID))
	return &u, token, nil
}

// SignIn checks credentials and opens a session.
func (s *Service) SignIn(email, password string) (*store.User, string, error) {
	email = normalizeEmail(email)
	u, err := s.rows.GetUserByEmail(email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.openSession(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *Service) openSession(userID string) (string, error) {
	sess := store.Session{
		Token:     newToken(),
		UserID:    userID,
		ExpiresAt: s.now().Add(SessionTTL).UnixMilli(),
	}
	if err := s.rows.InsertSession(&sess); err != nil {
		return "", fmt.Errorf("open session: %w", err)
	}
	return sess.Token, nil
}

// SignOut drops the session. Unknown tokens are fine.
func (s *Service) SignOut(token string) {
	if token == "" {
		return
	}
	if err := s.rows.DeleteSession(token); err != nil {
		s.logger.Warn("delete session", zap.Error(err))
	}
}

// UserForSession resolves a cookie token to its user, expiring stale
// sessions as it finds them.
func (s *Service) UserForSession(token string) (*store.User, error) {
	if token == "" {
		return nil, ErrNoSession
	}
	sess, err := s.rows.GetSession(token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if s.now().UnixMilli() > sess.ExpiresAt {
		s.rows.DeleteSession(token)
		return nil, ErrNoSession
	}
	u, err := s.rows.GetUserByID(sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	return u, err
}
