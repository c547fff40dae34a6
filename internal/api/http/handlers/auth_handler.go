package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcgvault/card-catalog/internal/api/dto"
	"github.com/tcgvault/card-catalog/internal/service"
	apperrors "github.com/tcgvault/card-catalog/pkg/util"
)

// AuthHandler exposes token issuance.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// GetToken handles POST /getToken. Errors render under the "error" key.
func (h *AuthHandler) GetToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.WithField(apperrors.NewValidationError(service.MsgMissingCredentials, nil), apperrors.FieldError)
	}

	token, _, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return apperrors.WithField(err, apperrors.FieldError)
	}
	return c.JSON(dto.TokenResponse{Token: token})
}
