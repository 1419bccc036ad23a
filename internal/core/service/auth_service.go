package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/feas-hq/allocation-system/internal/api/metrics"
	"github.com/feas-hq/allocation-system/internal/core/domain"
	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// AuthConfig carries the tunables for the session lifecycle.
type AuthConfig struct {
	// Superadmin credentials bypass the directory entirely and resolve to
	// ADMIN. Intended for environments without directory connectivity.
	SuperadminUsername string
	SuperadminPassword string
	// SuperadminPasswordHash, when set, replaces the plaintext comparison
	// with a bcrypt check.
	SuperadminPasswordHash string

	SessionTTL time.Duration

	// TokenSecret signs the short-lived HS256 bearer tokens issued for the
	// data API. TokenTTL bounds their validity.
	TokenSecret string
	TokenTTL    time.Duration
}

// AuthService implements login, logout and session retrieval on top of the
// directory client, the role resolver and the external session store.
type AuthService struct {
	directory ports.DirectoryClient
	sessions  ports.SessionStore
	resolver  *RoleResolver
	cfg       AuthConfig
	logger    zerolog.Logger
}

func NewAuthService(directory ports.DirectoryClient, sessions ports.SessionStore, resolver *RoleResolver, cfg AuthConfig, logger zerolog.Logger) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 8 * time.Hour
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	return &AuthService{directory: directory, sessions: sessions, resolver: resolver, cfg: cfg, logger: logger}
}

// Login authenticates the user and persists a fully populated session.
// The store is written exactly once, after both the directory bind and the
// role resolution have succeeded; no failure path leaves a partial session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	start := time.Now()
	defer func() { metrics.LoginDuration.Observe(time.Since(start).Seconds()) }()

	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.isSuperadmin(username, password) {
		sess, err := s.createSession(ctx, domain.Identity{
			Username:    username,
			DisplayName: "Administrator",
			Title:       "Administrator",
		}, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		metrics.LoginsTotal.WithLabelValues("superadmin").Inc()
		s.logger.Info().Str("username", username).Msg("superadmin login")
		return sess, nil
	}

	identity, err := s.directory.Authenticate(ctx, username, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginFailureLabel(err)).Inc()
		s.logger.Warn().Err(err).Str("username", username).Msg("directory authentication failed")
		return nil, err
	}

	role := s.resolver.Resolve(*identity)

	sess, err := s.createSession(ctx, *identity, role)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().
		Str("username", identity.Username).
		Str("role", string(role)).
		Msg("login succeeded")
	return sess, nil
}

// GetSession loads a session and enforces expiry. Expired entries are
// removed eagerly even though the store's TTL would reap them anyway.
func (s *AuthService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(time.Now()) {
		_ = s.sessions.Delete(ctx, id)
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

// Logout removes the session. Deleting an unknown ID is not an error, so
// repeated logouts are harmless.
func (s *AuthService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.Info().Str("session_id", id).Msg("session logged out")
	return nil
}

// IssueToken mints an HS256 bearer token mirroring the session's identity
// and role, valid for the configured token TTL.
func (s *AuthService) IssueToken(sess *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":  sess.Identity.Username,
		"cn":   sess.Identity.DisplayName,
		"role": string(sess.Role),
		"exp":  time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.TokenSecret))
}

// VerifyToken validates a bearer token and rebuilds the principal it
// carries. Token principals have no store-backed session ID; they live only
// for the duration of the request.
func (s *AuthService) VerifyToken(token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.cfg.TokenSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrNotAuthenticated
	}

	username, _ := claims["sub"].(string)
	cn, _ := claims["cn"].(string)
	roleStr, _ := claims["role"].(string)
	if username == "" || roleStr == "" {
		return nil, domain.ErrNotAuthenticated
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, domain.ErrNotAuthenticated
	}

	return &domain.Session{
		Identity:  domain.Identity{Username: username, DisplayName: cn},
		Role:      domain.ParseRole(roleStr),
		ExpiresAt: exp.Time,
	}, nil
}

func (s *AuthService) createSession(ctx context.Context, identity domain.Identity, role domain.Role) (*domain.Session, error) {
	now := time.Now().UTC()
	sess := domain.Session{
		ID:        uuid.NewString(),
		Identity:  identity,
		Role:      role,
		LoginAt:   now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

func (s *AuthService) isSuperadmin(username, password string) bool {
	if s.cfg.SuperadminUsername == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.SuperadminUsername)) != 1 {
		return false
	}
	if s.cfg.SuperadminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.SuperadminPasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.SuperadminPassword)) == 1
}

func loginFailureLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrDirectoryTimeout):
		return "directory_timeout"
	case errors.Is(err, domain.ErrDirectoryUnavailable):
		return "directory_unavailable"
	default:
		return "error"
	}
}
