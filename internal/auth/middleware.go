package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/tcgvault/card-catalog/internal/domain"
	apperrors "github.com/tcgvault/card-catalog/pkg/util"
)

const principalKey = "auth_principal"

// Messages returned to callers rejected by the middleware.
const (
	MsgAccessTokenRequired = "Access token required"
	MsgInvalidToken        = "Invalid token"
)

// AuthMiddleware validates bearer tokens in front of mutating routes.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return rejection(err)
	}

	principal, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Debug("token rejected", zap.String("path", c.Path()), zap.Error(err))
		return rejection(err)
	}

	c.Locals(principalKey, &principal)
	return c.Next()
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return "", ErrMissingToken
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}

func rejection(err error) error {
	if errors.Is(err, ErrMissingToken) {
		return apperrors.NewUnauthorized(MsgAccessTokenRequired)
	}
	return apperrors.NewUnauthorized(MsgInvalidToken)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
