package types

import "errors"

// Lookup errors. Operations that return them leave the board unchanged.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrItemNotFound   = errors.New("item not found")
)

// Input and capacity errors.
var (
	ErrInvalidID        = errors.New("invalid item ID")
	ErrIDSpaceExhausted = errors.New("item ID space exhausted")
)

// Persistence errors. A Load error wrapping ErrCorruptBoard means the stored
// board was moved aside, so saving over its location is safe.
var (
	ErrCorruptBoard = errors.New("board file could not be decoded")
	ErrStoreClosed  = errors.New("store is closed")
)
