package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tcgvault/card-catalog/internal/domain"
	"github.com/tcgvault/card-catalog/internal/events"
	"github.com/tcgvault/card-catalog/internal/repository"
	apperrors "github.com/tcgvault/card-catalog/pkg/util"
)

// Messages surfaced to API callers.
const (
	MsgCardCreated     = "Card created successfully"
	MsgCardUpdated     = "Card updated successfully"
	MsgCardDeleted     = "Card deleted successfully"
	MsgDuplicateCardID = "Card ID must be unique"
	MsgMissingCardID   = "Card ID is required"
	MsgCardNotFound    = "Card not found"
	MsgNoCards         = "No cards available"
)

// Catalog attributes exposed through the distinct-value endpoints.
const (
	AttributeSet    = "set"
	AttributeType   = "type"
	AttributeRarity = "rarity"
)

// CardService coordinates catalog reads and authorized mutations.
type CardService struct {
	cards      repository.CardRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// CardDependencies bundles collaborators for the card service.
type CardDependencies struct {
	CardRepo   repository.CardRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewCardService constructs the service.
func NewCardService(deps CardDependencies) *CardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardService{
		cards:      deps.CardRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns the cards matching every filter constraint, in storage order.
func (s *CardService) List(ctx context.Context, filter repository.CardFilter) []domain.Card {
	return s.cards.List(ctx, filter)
}

// Count returns the size of the full collection.
func (s *CardService) Count(ctx context.Context) int {
	return s.cards.Count(ctx)
}

// Random returns one card chosen uniformly.
func (s *CardService) Random(ctx context.Context) (domain.Card, error) {
	card, err := s.cards.Random(ctx)
	if err != nil {
		return domain.Card{}, s.mapError(err, "")
	}
	return card, nil
}

// DistinctValues lists the distinct present values of attribute.
func (s *CardService) DistinctValues(ctx context.Context, attribute string) []string {
	return s.cards.DistinctValues(ctx, attribute)
}

// Create stores a new card.
func (s *CardService) Create(ctx context.Context, actor *domain.Principal, card domain.Card) (domain.Card, error) {
	stored, err := s.cards.Create(ctx, card)
	if err != nil {
		return domain.Card{}, s.mapError(err, "")
	}
	s.publishEvent(ctx, events.EventCardCreated, actor, stored)
	return stored, nil
}

// Update shallow-merges patch onto the card whose id matches id.
func (s *CardService) Update(ctx context.Context, actor *domain.Principal, id string, patch domain.Card) (domain.Card, error) {
	merged, err := s.cards.Update(ctx, id, patch)
	if err != nil {
		return domain.Card{}, s.mapError(err, id)
	}
	s.publishEvent(ctx, events.EventCardUpdated, actor, merged)
	return merged, nil
}

// Delete removes the card whose id matches id.
func (s *CardService) Delete(ctx context.Context, actor *domain.Principal, id string) (domain.Card, error) {
	removed, err := s.cards.Delete(ctx, id)
	if err != nil {
		return domain.Card{}, s.mapError(err, id)
	}
	s.publishEvent(ctx, events.EventCardDeleted, actor, removed)
	return removed, nil
}

func (s *CardService) mapError(err error, id string) error {
	switch {
	case errors.Is(err, repository.ErrDuplicateCardID):
		return apperrors.NewDuplicate(MsgDuplicateCardID, nil)
	case errors.Is(err, repository.ErrMissingCardID):
		return apperrors.NewValidationError(MsgMissingCardID, nil)
	case errors.Is(err, repository.ErrCardNotFound):
		return apperrors.NewNotFound(MsgCardNotFound, nil)
	case errors.Is(err, repository.ErrEmptyCollection):
		return apperrors.NewNotFound(MsgNoCards, nil)
	case errors.Is(err, repository.ErrStorage):
		s.logger.Error("card store write failed", zap.String("card_id", id), zap.Error(err))
		return apperrors.NewStorageError(err)
	default:
		return apperrors.MapError(err)
	}
}

func (s *CardService) publishEvent(ctx context.Context, eventType events.EventType, actor *domain.Principal, card domain.Card) {
	if s.dispatcher == nil {
		return
	}
	cardID := ""
	if id, ok := card.ID(); ok {
		cardID = id.Text()
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		CardID:    cardID,
		Actor:     events.ActorFromPrincipal(actor),
		Timestamp: time.Now().UTC(),
		Card:      card,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("card event delivery failed",
			zap.String("event_type", string(eventType)),
			zap.String("card_id", cardID),
			zap.Error(err))
	}
}
