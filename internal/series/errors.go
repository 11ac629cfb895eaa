package series

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow is returned when a non-positive window size is requested.
// It signals a programming error in the caller, not bad user input.
var ErrInvalidWindow = errors.New("window size must be positive")

// ErrMalformedInput matches every *MalformedInputError.
var ErrMalformedInput = errors.New("malformed activity input")

// MalformedInputError names the day-bucket key that could not be used.
type MalformedInputError struct {
	Key    string
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed day key %q: %s", e.Key, e.Reason)
}

// Is reports whether target is ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
