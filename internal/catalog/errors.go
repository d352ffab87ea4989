package catalog

import (
	"errors"
	"fmt"
)

// ErrAuthorNotFound indicates a book referenced an author id that does not exist
var ErrAuthorNotFound = errors.New("author not found")

// ErrBookNotFound indicates the requested book id does not exist
var ErrBookNotFound = errors.New("book not found")

// ValidationError reports the first invalid field of a request payload.
// Field is the form field name, Message is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError wraps a storage failure. The unit of work has already been
// rolled back when it is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err is (or wraps) a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
