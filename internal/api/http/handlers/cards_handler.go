package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/tcgvault/card-catalog/internal/api/dto"
	"github.com/tcgvault/card-catalog/internal/auth"
	"github.com/tcgvault/card-catalog/internal/domain"
	"github.com/tcgvault/card-catalog/internal/repository"
	"github.com/tcgvault/card-catalog/internal/service"
	apperrors "github.com/tcgvault/card-catalog/pkg/util"
)

// CardsHandler exposes the catalog endpoints.
type CardsHandler struct {
	service *service.CardService
}

// NewCardsHandler constructs handler.
func NewCardsHandler(cardService *service.CardService) *CardsHandler {
	return &CardsHandler{service: cardService}
}

// List GET /cards. Every query parameter is an equality constraint.
func (h *CardsHandler) List(c *fiber.Ctx) error {
	filter := repository.CardFilter(c.Queries())
	return c.JSON(h.service.List(c.UserContext(), filter))
}

// Count GET /cards/count.
func (h *CardsHandler) Count(c *fiber.Ctx) error {
	return c.JSON(dto.CountResponse{Count: h.service.Count(c.UserContext())})
}

// Random GET /cards/random.
func (h *CardsHandler) Random(c *fiber.Ctx) error {
	card, err := h.service.Random(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(card)
}

// Create POST /cards/create.
func (h *CardsHandler) Create(c *fiber.Ctx) error {
	var card domain.Card
	if err := c.BodyParser(&card); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	principal, _ := auth.PrincipalFromContext(c)
	stored, err := h.service.Create(c.UserContext(), principal, card)
	if err != nil {
		return err
	}
	return c.JSON(dto.CardMutationResponse{SuccessMessage: service.MsgCardCreated, Card: stored})
}

// Update PUT /cards/:id.
func (h *CardsHandler) Update(c *fiber.Ctx) error {
	var patch domain.Card
	if err := c.BodyParser(&patch); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	principal, _ := auth.PrincipalFromContext(c)
	merged, err := h.service.Update(c.UserContext(), principal, pathID(c), patch)
	if err != nil {
		return err
	}
	return c.JSON(dto.CardMutationResponse{SuccessMessage: service.MsgCardUpdated, Card: merged})
}

// Delete DELETE /cards/:id.
func (h *CardsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	removed, err := h.service.Delete(c.UserContext(), principal, pathID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.CardMutationResponse{SuccessMessage: service.MsgCardDeleted, Card: removed})
}

// Sets GET /sets.
func (h *CardsHandler) Sets(c *fiber.Ctx) error {
	return h.distinct(c, service.AttributeSet)
}

// Types GET /types.
func (h *CardsHandler) Types(c *fiber.Ctx) error {
	return h.distinct(c, service.AttributeType)
}

// Rarities GET /rarities.
func (h *CardsHandler) Rarities(c *fiber.Ctx) error {
	return h.distinct(c, service.AttributeRarity)
}

func (h *CardsHandler) distinct(c *fiber.Ctx, attribute string) error {
	return c.JSON(h.service.DistinctValues(c.UserContext(), attribute))
}

func pathID(c *fiber.Ctx) string {
	raw := c.Params("id")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
