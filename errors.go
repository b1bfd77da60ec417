package traceid

import "errors"

var (
	// ErrInvalidLength is returned when the textual form is not exactly 32 characters.
	ErrInvalidLength = errors.New("traceid: identifier must be exactly 32 characters")
	// ErrInvalidCharacters is returned when the textual form contains characters
	// outside the lowercase hex alphabet 0-9a-f. Uppercase hex is rejected, not normalized.
	ErrInvalidCharacters = errors.New("traceid: identifier must contain only lowercase hex characters")
	// ErrAllZeros is returned for the reserved all-zero identifier.
	ErrAllZeros = errors.New("traceid: all-zero identifier is reserved as invalid")
)
