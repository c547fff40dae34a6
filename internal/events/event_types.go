package events

import (
	"time"

	"github.com/tcgvault/card-catalog/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCardCreated EventType = "card_created"
	EventCardUpdated EventType = "card_updated"
	EventCardDeleted EventType = "card_deleted"
)

// Actor identifies the principal behind a change.
type Actor struct {
	Username string       `json:"username"`
	ID       domain.Value `json:"id"`
}

// Event represents a card change committed to the store.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CardID    string      `json:"card_id"`
	Actor     *Actor      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Card      domain.Card `json:"card"`
}

// ActorFromPrincipal converts an authenticated principal.
func ActorFromPrincipal(p *domain.Principal) *Actor {
	if p == nil {
		return nil
	}
	return &Actor{Username: p.Username, ID: p.ID}
}
