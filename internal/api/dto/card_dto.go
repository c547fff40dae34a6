package dto

import "github.com/tcgvault/card-catalog/internal/domain"

// CardMutationResponse wraps the card touched by a mutation.
type CardMutationResponse struct {
	SuccessMessage string      `json:"successMessage"`
	Card           domain.Card `json:"card"`
}

// CountResponse reports the collection size.
type CountResponse struct {
	Count int `json:"count"`
}
