// ABOUTME: Identity provider: password sign-up/sign-in, Google sign-in, sign-out.
// ABOUTME: Produces explicit Session values and notifies auth-state observers.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
	// MaxFailedAttempts consecutive wrong passwords lock an account.
	MaxFailedAttempts = 5
	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration = 15 * time.Minute
)

// User is the signed-in principal.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Session is a signed-in user plus the token that proves it.
type Session struct {
	User
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether s names a user and has not expired.
func (s *Session) Valid() bool {
	return s != nil && s.UID != "" && time.Now().Before(s.ExpiresAt)
}

// Provider is the identity contract the rest of timetrack consumes.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignInWithGoogle(ctx context.Context) (*Session, error)
	SignOut(ctx context.Context) error
	Current(ctx context.Context) (*Session, error)
	OnAuthStateChanged(fn func(*User)) (unsubscribe func())
}

// Options configures a Service.
type Options struct {
	Accounts    *AccountStore
	Tokens      *TokenManager
	SessionPath string
	Google      GoogleConfig
	Logger      *log.Logger
}

// Service implements Provider over a local account store.
type Service struct {
	accounts    *AccountStore
	tokens      *TokenManager
	sessionPath string
	google      GoogleConfig
	logger      *log.Logger
	now         func() time.Time

	mu        sync.Mutex
	listeners map[int]func(*User)
	nextID    int
}

var _ Provider = (*Service)(nil)

// NewService creates an auth service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sessionPath := opts.SessionPath
	if sessionPath == "" {
		sessionPath = DefaultSessionPath()
	}
	return &Service{
		accounts:    opts.Accounts,
		tokens:      opts.Tokens,
		sessionPath: sessionPath,
		google:      opts.Google,
		logger:      logger.WithPrefix("auth"),
		now:         time.Now,
		listeners:   make(map[int]func(*User)),
	}
}

// DefaultSessionPath returns $XDG_CONFIG_HOME/timetrack/session.json.
func DefaultSessionPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "timetrack", "session.json")
}

// SignUp creates a password account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, newError(CodeWeakPassword, nil)
	}

	if _, err := s.accounts.byEmail(ctx, email); err == nil {
		return nil, newError(CodeEmailInUse, nil)
	} else if !errors.Is(err, errAccountNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &account{
		UID:          uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     providerPassword,
	}
	if err := s.accounts.insert(ctx, a, s.now()); err != nil {
		return nil, err
	}

	s.logger.Info("account created", "uid", a.UID)
	return s.startSession(User{UID: a.UID, Email: a.Email})
}

// SignIn checks an email/password pair and signs the account in.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.byEmail(ctx, email)
	if errors.Is(err, errAccountNotFound) {
		return nil, newError(CodeUserNotFound, nil)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(a.LockedUntil) {
		return nil, newError(CodeTooManyRequests, nil)
	}

	if a.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		attempts := a.FailedAttempts + 1
		var lockedUntil time.Time
		if attempts >= MaxFailedAttempts {
			attempts = 0
			lockedUntil = now.Add(LockoutDuration)
			s.logger.Warn("account locked", "uid", a.UID, "until", lockedUntil)
		}
		if err := s.accounts.recordFailure(ctx, a.UID, attempts, lockedUntil); err != nil {
			return nil, err
		}
		return nil, newError(CodeWrongPassword, nil)
	}

	if a.FailedAttempts > 0 {
		if err := s.accounts.clearFailures(ctx, a.UID); err != nil {
			return nil, err
		}
	}

	return s.startSession(User{UID: a.UID, Email: a.Email})
}

// SignOut forgets the stored session.
func (s *Service) SignOut(ctx context.Context) error {
	if err := os.Remove(s.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session: %w", err)
	}
	s.notify(nil)
	return nil
}

// Current returns the stored session, or nil when signed out.
// A token that no longer validates reads as signed out.
func (s *Service) Current(ctx context.Context) (*Session, error) {
	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Debug("ignoring unreadable session file", "err", err)
		return nil, nil
	}

	session, err := s.tokens.Validate(stored.Token)
	if err != nil {
		s.logger.Debug("ignoring invalid session token", "err", err)
		return nil, nil
	}
	return session, nil
}

// OnAuthStateChanged registers fn, calls it with the current user, and
// calls it again after every sign-in, sign-up, and sign-out.
func (s *Service) OnAuthStateChanged(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var current *User
	if session, err := s.Current(context.Background()); err == nil && session != nil {
		u := session.User
		current = &u
	}
	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

type storedSession struct {
	Token string `json:"token"`
}

func (s *Service) startSession(u User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(storedSession{Token: token}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.sessionPath), 0750); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	if err := os.WriteFile(s.sessionPath, data, 0600); err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}

	s.notify(&u)
	return &Session{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) notify(u *User) {
	s.mu.Lock()
	fns := make([]func(*User), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(u)
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", newError(CodeInvalidEmail, nil)
	}
	return email, nil
}
