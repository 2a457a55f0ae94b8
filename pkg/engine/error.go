package engine

import "errors"

var (
	// ErrInvalidInput rejects a malformed order before any state mutation:
	// negative price, or a quantity that is not a positive whole number of
	// base units.
	ErrInvalidInput = errors.New("invalid order input")

	// ErrUnauthorized rejects a cancel whose requester does not own the
	// order.
	ErrUnauthorized = errors.New("requester does not own order")

	// ErrHalted is returned once a book invariant violation has been
	// detected. The engine refuses all further mutation rather than run on
	// inconsistent state.
	ErrHalted = errors.New("engine halted after invariant violation")
)
