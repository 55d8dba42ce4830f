package services

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
	apperrors "github.com/mishcolife/catalogadmin/pkg/errors"
)

// SessionService signs the operator in against the record store. Credentials
// are checked by the store only; the service never holds a password beyond
// the login call.
type SessionService struct {
	auth     providers.Authenticator
	store    providers.SessionStore
	notifier providers.Notifier
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(auth providers.Authenticator, store providers.SessionStore, notifier providers.Notifier) *SessionService {
	return &SessionService{
		auth:     auth,
		store:    store,
		notifier: orNoop(notifier),
		now:      time.Now,
	}
}

// Login exchanges credentials for a session token and stores the session
func (s *SessionService) Login(ctx context.Context, username, password string) (*entities.Session, error) {
	logger := observability.LoggerFromContext(ctx)

	var missing []string
	if strings.TrimSpace(username) == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		err := apperrors.NewValidationError("username and password are required", missing...)
		failure(ctx, logger, s.notifier, "sign in", err)
		return nil, err
	}

	token, err := s.auth.Login(ctx, username, password)
	if err != nil {
		failure(ctx, logger, s.notifier, "sign in", err)
		return nil, err
	}

	sess := sessionFromToken(token)
	if sess.Subject == "" {
		sess.Subject = username
	}
	if err := s.store.Save(ctx, sess); err != nil {
		logger.Error().Err(err).Msg("failed to store session")
		return nil, err
	}

	logger.Info().Str("subject", sess.Subject).Time("expires_at", sess.ExpiresAt).Msg("operator signed in")
	success(ctx, s.notifier, "Signed in")
	return sess, nil
}

// Logout drops the stored session
func (s *SessionService) Logout(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Current returns the stored session if it is still valid, or nil
func (s *SessionService) Current(ctx context.Context) (*entities.Session, error) {
	sess, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if !sess.Valid(s.now()) {
		if err := s.store.Clear(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to clear expired session")
		}
		return nil, nil
	}
	return sess, nil
}

// Require returns the current session or an Unauthorized error
func (s *SessionService) Require(ctx context.Context) (*entities.Session, error) {
	sess, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperrors.NewUnauthorizedError("sign in required")
	}
	return sess, nil
}

// Token returns the bearer token of the current session, or "" when signed
// out. It satisfies recordstore.TokenSource.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	sess, err := s.Current(ctx)
	if err != nil || sess == nil {
		return "", err
	}
	return sess.Token, nil
}

// sessionFromToken reads subject and expiry from a store-issued JWT. The
// signature is the store's concern; tokens that are not JWTs are kept opaque
// and never expire locally.
func sessionFromToken(token string) *entities.Session {
	sess := &entities.Session{Token: token}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return sess
	}
	sess.Subject = claims.Subject
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess
}
