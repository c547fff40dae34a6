package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/tcgvault/card-catalog/internal/events"
)

// FeedPublisher ships serialized card events to subscribers outside the process.
type FeedPublisher interface {
	Enabled() bool
	Publish(ctx context.Context, channel string, payload []byte) error
}

// CardFeedService fans committed card changes out to the log and, when
// configured, a Redis channel.
type CardFeedService struct {
	dispatcher events.Dispatcher
	publisher  FeedPublisher
	channel    string
	logger     *zap.Logger
}

// NewCardFeedService creates the service.
func NewCardFeedService(dispatcher events.Dispatcher, publisher FeedPublisher, channel string, logger *zap.Logger) *CardFeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CardFeedService{
		dispatcher: dispatcher,
		publisher:  publisher,
		channel:    channel,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to card events.
func (f *CardFeedService) RegisterHandlers() {
	if f.dispatcher == nil {
		return
	}
	f.dispatcher.Subscribe(events.EventCardCreated, f.handleCardEvent)
	f.dispatcher.Subscribe(events.EventCardUpdated, f.handleCardEvent)
	f.dispatcher.Subscribe(events.EventCardDeleted, f.handleCardEvent)
}

func (f *CardFeedService) handleCardEvent(ctx context.Context, event events.Event) error {
	f.logger.Info("card changed",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("card_id", event.CardID))

	if f.publisher == nil || !f.publisher.Enabled() {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.Type, err)
	}
	if err := f.publisher.Publish(ctx, f.channel, payload); err != nil {
		return fmt.Errorf("publish %s to %s: %w", event.Type, f.channel, err)
	}
	return nil
}
