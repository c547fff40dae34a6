package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tcgvault/card-catalog/internal/auth"
	"github.com/tcgvault/card-catalog/internal/config"
	"github.com/tcgvault/card-catalog/internal/domain"
	"github.com/tcgvault/card-catalog/internal/repository"
	apperrors "github.com/tcgvault/card-catalog/pkg/util"
)

// Messages surfaced by the login endpoint.
const (
	MsgMissingCredentials = "Username and password are required"
	MsgInvalidCredentials = "Invalid credentials"
)

// AuthService coordinates the login flow.
type AuthService struct {
	principals repository.PrincipalRepository
	comparer   auth.PasswordComparer
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	PrincipalRepo repository.PrincipalRepository
	Comparer      auth.PasswordComparer
	Logger        *zap.Logger
	TokenOptions  []auth.TokenOption
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	comparer := deps.Comparer
	if comparer == nil {
		comparer = auth.PlainComparer{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		principals: deps.PrincipalRepo,
		comparer:   comparer,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, deps.TokenOptions...),
		logger:     logger,
	}
}

// Login resolves the credentials and issues a token for the matching principal.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username == "" || password == "" {
		return "", time.Time{}, apperrors.NewValidationError(MsgMissingCredentials, nil)
	}

	principal, err := s.authenticate(ctx, username, password)
	if err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	token, exp, err := s.tokenMgr.GenerateToken(principal)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	s.logger.Info("token issued", zap.String("username", principal.Username), zap.Time("expires_at", exp))
	return token, exp, nil
}

func (s *AuthService) authenticate(ctx context.Context, username, password string) (domain.Principal, error) {
	candidates, err := s.principals.ListByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("credential lookup failed", zap.Error(err))
		return domain.Principal{}, err
	}
	for _, cred := range candidates {
		if s.comparer.Compare(cred.Password, password) {
			return cred.Principal, nil
		}
	}
	return domain.Principal{}, repository.ErrPrincipalNotFound
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
