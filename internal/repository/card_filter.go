package repository

import "github.com/tcgvault/card-catalog/internal/domain"

// CardFilter holds attribute equality constraints taken from query parameters.
type CardFilter map[string]string

// Matches reports whether card satisfies every constraint. A card missing a
// constrained attribute never matches.
func (f CardFilter) Matches(card domain.Card) bool {
	for name, expected := range f {
		val, ok := card.Get(name)
		if !ok || !val.LooseEqual(expected) {
			return false
		}
	}
	return true
}

// Apply returns the cards matching f, keeping their order.
func (f CardFilter) Apply(cards []domain.Card) []domain.Card {
	if len(f) == 0 {
		return cards
	}
	out := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if f.Matches(card) {
			out = append(out, card)
		}
	}
	return out
}
