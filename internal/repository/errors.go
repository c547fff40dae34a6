package repository

import "errors"

var (
	ErrCardNotFound      = errors.New("card not found")
	ErrDuplicateCardID   = errors.New("card id must be unique")
	ErrMissingCardID     = errors.New("card id is required")
	ErrEmptyCollection   = errors.New("no cards available")
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrStorage wraps every failure to read or write a backing store.
	ErrStorage = errors.New("storage failure")
)
