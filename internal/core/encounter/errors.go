package encounter

import "errors"

var (
	// ErrInvalidDifficulty indicates an unknown difficulty tier.
	ErrInvalidDifficulty = errors.New("invalid difficulty tier")
	// ErrInvalidPartySize indicates a party size below one.
	ErrInvalidPartySize = errors.New("party size must be at least 1")
)
