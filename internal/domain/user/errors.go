package user

import "errors"

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateLogin = errors.New("login already exists")
	ErrDuplicateEmail = errors.New("email already exists")

	// One generic error for both unknown login and wrong password so the
	// response never leaks which one it was.
	ErrInvalidCredentials = errors.New("invalid login or password")
)

// ValidationError rejects malformed or missing input. Reason is safe to
// show to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
