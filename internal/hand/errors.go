package hand

import (
	"errors"
	"fmt"
)

// Error classes. Invariant violations mean the caller offered a choice it
// should never have offered; validation failures are ordinary bad input.
var (
	ErrInvariant  = errors.New("invariant violation")
	ErrValidation = errors.New("invalid input")
)

var (
	ErrCardUnavailable    = fmt.Errorf("%w: card already in use", ErrInvariant)
	ErrPositionNotInTable = fmt.Errorf("%w: position not in table", ErrInvariant)
	ErrUnknownSlot        = fmt.Errorf("%w: unknown card slot", ErrInvariant)

	ErrAmountRequired  = fmt.Errorf("%w: amount required", ErrValidation)
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidStack    = fmt.Errorf("%w: stack must be a number", ErrValidation)
	ErrUnknownPosition = fmt.Errorf("%w: unknown position", ErrValidation)
	ErrUnknownAction   = fmt.Errorf("%w: unknown action", ErrValidation)
	ErrUnknownStreet   = fmt.Errorf("%w: unknown street", ErrValidation)
	ErrActionIndex     = fmt.Errorf("%w: action index out of range", ErrValidation)
)

// IsInvariant reports whether err is an invariant violation.
func IsInvariant(err error) bool {
	return errors.Is(err, ErrInvariant)
}

// IsValidation reports whether err is an input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
