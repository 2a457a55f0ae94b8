package book

import "errors"

var (
	// ErrNotFound reports an order id that is not resting: unknown, already
	// filled, or already cancelled. Ids are never reused, so a late cancel
	// against a settled order keeps failing with this error.
	ErrNotFound = errors.New("order not found")

	// ErrInvariantViolation reports a broken book invariant. It is defensive:
	// with correct caller discipline it is unreachable, and a caller that
	// sees it must stop mutating the book.
	ErrInvariantViolation = errors.New("book invariant violation")

	errInvalidPrice    = errors.New("invalid order price")
	errInvalidQuantity = errors.New("invalid order quantity")
)
