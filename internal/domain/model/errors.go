package model

import "errors"

// Sentinel input errors. Any of these aborts an auction run before anything is computed.
var (
	ErrEmptyProfiles  = errors.New("no profiles provided")
	ErrInvalidProfile = errors.New("invalid bidder profile")
	ErrDuplicateName  = errors.New("duplicate bidder name")
	ErrInvalidRounds  = errors.New("num_rounds must be >= 1")
	ErrInvalidWeight  = errors.New("weight must be within [0,1]")
)

// IsInputError reports whether err is one of the caller-input errors above.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyProfiles) ||
		errors.Is(err, ErrInvalidProfile) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrInvalidRounds) ||
		errors.Is(err, ErrInvalidWeight)
}
