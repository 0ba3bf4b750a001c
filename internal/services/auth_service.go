package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

// AuthService is the session/identity provider: registration, login and
// session resolution. The bidding core consumes the identities it hands out
// but does not own them.
type AuthService struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	cache       domain.SessionCache // nil disables caching
	sessionTTL  time.Duration
	cacheTTL    time.Duration
	log         logger.Logger
}

func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	cache domain.SessionCache,
	sessionTTL, cacheTTL time.Duration,
	log logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cache:       cache,
		sessionTTL:  sessionTTL,
		cacheTTL:    cacheTTL,
		log:         log,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           utils.GenerateID("user"),
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:        utils.GenerateID("sess"),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("User logged in", "user_id", user.ID)
	return session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if s.cache != nil {
		if err := s.cache.InvalidateSession(ctx, sessionID); err != nil {
			s.log.Warn("Failed to invalidate cached session", "error", err)
		}
	}
	return s.sessionRepo.DeleteSession(ctx, sessionID)
}

// ResolveSession maps a session id to its user, consulting the cache first.
// Expired or unknown sessions report ErrNotFound.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*domain.SessionUser, error) {
	if s.cache != nil {
		user, found, err := s.cache.GetSessionUser(ctx, sessionID)
		if err != nil {
			s.log.Warn("Session cache lookup failed", "error", err)
		} else if found {
			return user, nil
		}
	}

	user, err := s.sessionRepo.GetSessionUser(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSessionUser(ctx, sessionID, user, s.cacheTTL); err != nil {
			s.log.Warn("Failed to cache session", "error", err)
		}
	}
	return user, nil
}

// EnsureAdmin seeds the administrator account from configuration. This
// replaces promoting whichever registration happens to arrive first, which
// breaks down under concurrent first registrations.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		ID:           utils.GenerateID("user"),
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.CreateUser(ctx, admin); err != nil {
		return err
	}

	s.log.Info("Admin account bootstrapped", "user_id", admin.ID)
	return nil
}

// PurgeExpiredSessions removes stale session rows; the sweep calls this.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return s.sessionRepo.DeleteExpiredSessions(ctx, now)
}
