package currency

import "errors"

var (
	// ErrInvalidCode reports a currency code that is not exactly three letters.
	ErrInvalidCode = errors.New("currency: code must be three letters")
	// ErrInvalidNumber reports input that does not parse as a finite number.
	ErrInvalidNumber = errors.New("currency: not a number")
	// ErrNotFound reports a currency code absent from the store.
	ErrNotFound = errors.New("currency: not found")
	// ErrConflict reports an insert of a code that is already stored.
	ErrConflict = errors.New("currency: already exists")
	// ErrAccessDenied reports a privileged command invoked by a regular user.
	ErrAccessDenied = errors.New("currency: access denied")
)

// IsValidation reports whether err is a user input validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidCode) || errors.Is(err, ErrInvalidNumber)
}
