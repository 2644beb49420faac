package serverutils

import "errors"

// ErrUnauthenticated is returned by operations that require a signed-in user,
// e.g. saving a chat session. Mapped to 401 so the client can redirect the
// user to sign-in.
var ErrUnauthenticated = errors.New("authentication required")

// ValidationError covers rejected user input: empty payload fields, a
// disallowed upload type. No state is mutated when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
