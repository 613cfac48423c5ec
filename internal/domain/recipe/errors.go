package recipe

import "errors"

// Domain errors for recipe blocks

var (
	// ErrMalformedBlock is returned when a block has fewer lines than the
	// record schema requires.
	ErrMalformedBlock = errors.New("malformed recipe block")
)
