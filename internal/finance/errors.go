package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateUsername means the requested username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password. Callers must not be able to tell which factor failed.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInsufficientFunds means a buy would cost more than the account's cash.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares means a sell exceeds the account's net position.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrUnknownSymbol means the account holds no position in the symbol.
	ErrUnknownSymbol = errors.New("no position in symbol")
)

// ValidationError reports a user-correctable problem with one input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
