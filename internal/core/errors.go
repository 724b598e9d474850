package core

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks caller mistakes such as a non-positive limit or an
// empty email address.
var ErrInvalidInput = errors.New("invalid input")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
