// Package auth holds the single signed-in demo user. Login is simulated: any
// phone number succeeds, falling back to the first demo user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/repository"
	"github.com/example/freshcart/pkg/simulate"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrInvalidToken = errors.New("invalid token")
	ErrNoUsers      = errors.New("no demo users available")
)

// SessionStore caches issued sessions outside the process. Failures are
// logged and never fail a login.
type SessionStore interface {
	SaveSession(ctx context.Context, userID, token string, ttl time.Duration) error
	DropSession(ctx context.Context, userID string) error
}

// AuditWriter records session events. *repository.MongoRepository
// satisfies it.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

const auditService = "auth"

type Options struct {
	LoginDelay     time.Duration
	AutoLoginDelay time.Duration
	Sessions       SessionStore
	Audit          AuditWriter
}

type Session struct {
	User      models.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type Store struct {
	mu      sync.RWMutex
	users   []models.User
	user    *models.User
	token   string
	loading bool

	issuer     *Issuer
	sessions   SessionStore
	audit      AuditWriter
	logger     *zap.Logger
	loginDelay time.Duration
	autoDelay  time.Duration
}

func New(users []models.User, issuer *Issuer, logger *zap.Logger, opts Options) *Store {
	return &Store{
		users:      users,
		issuer:     issuer,
		sessions:   opts.Sessions,
		audit:      opts.Audit,
		logger:     logger,
		loginDelay: opts.LoginDelay,
		autoDelay:  opts.AutoLoginDelay,
	}
}

// Login signs in the demo user with the given phone, or the first demo user
// when none matches.
func (s *Store) Login(ctx context.Context, phone string) (Session, error) {
	return s.signIn(ctx, s.loginDelay, func() (models.User, bool) {
		for _, u := range s.users {
			if u.Phone == phone {
				return u, true
			}
		}
		if len(s.users) == 0 {
			return models.User{}, false
		}
		return s.users[0], true
	})
}

// AutoLogin signs in the first demo user.
func (s *Store) AutoLogin(ctx context.Context) (Session, error) {
	return s.signIn(ctx, s.autoDelay, func() (models.User, bool) {
		if len(s.users) == 0 {
			return models.User{}, false
		}
		return s.users[0], true
	})
}

func (s *Store) signIn(ctx context.Context, delay time.Duration, pick func() (models.User, bool)) (Session, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := simulate.Delay(ctx, delay); err != nil {
		return Session{}, err
	}

	user, ok := pick()
	if !ok {
		return Session{}, ErrNoUsers
	}
	user = user.Clone()

	token, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	s.user = &user
	s.token = token
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.SaveSession(ctx, user.ID, token, s.issuer.TTL()); err != nil {
			s.logger.Warn("Failed to cache session", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	s.record(ctx, "user_logged_in", user.ID, bson.M{"token_expires_at": expiresAt})
	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("phone", user.Phone))
	return Session{User: user.Clone(), Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	user := s.user
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	if user == nil {
		return
	}
	if s.sessions != nil {
		if err := s.sessions.DropSession(ctx, user.ID); err != nil {
			s.logger.Warn("Failed to drop session", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	s.record(ctx, "user_logged_out", user.ID, nil)
	s.logger.Info("User logged out", zap.String("user_id", user.ID))
}

func (s *Store) record(ctx context.Context, action, userID string, data bson.M) {
	if s.audit == nil {
		return
	}
	if err := s.audit.CreateAuditLog(ctx, repository.NewAuditLog(auditService, action, userID, data)); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", action), zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return s.user.Clone(), true
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// VerifyToken accepts only the token of the current session.
func (s *Store) VerifyToken(token string) (*Claims, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil, ErrNotLoggedIn
	}
	if s.user.ID != claims.UserID || s.token != token {
		return nil, fmt.Errorf("%w: session ended", ErrInvalidToken)
	}
	return claims, nil
}

// UpdateUser merges update into the signed-in profile and returns the result.
func (s *Store) UpdateUser(update UserUpdate) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return models.User{}, ErrNotLoggedIn
	}
	merged := update.apply(s.user.Clone())
	s.user = &merged

	s.logger.Info("User profile updated", zap.String("user_id", merged.ID))
	return merged.Clone(), nil
}
