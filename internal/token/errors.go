package token

import "errors"

// Code is the stable numeric identifier of a ledger error. 0 is reserved
// for "no error"; the codes below never change between releases.
type Code uint32

const (
	CodeNone                  Code = 0
	CodeAlreadyInitialized    Code = 1
	CodeInvalidAmount         Code = 2
	CodeInsufficientBalance   Code = 3
	CodeInsufficientAllowance Code = 4
	CodeNotInitialized        Code = 5
	CodeInvalidDecimals       Code = 6
	CodeOverflow              Code = 7
	CodeInvalidRecipient      Code = 8
	CodeInvalidMetadata       Code = 9
)

// Error is a recoverable, caller-visible ledger failure. Every operation
// either succeeds or returns exactly one of the values below with no state
// mutated.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

var (
	ErrAlreadyInitialized    = &Error{CodeAlreadyInitialized, "token already initialized"}
	ErrInvalidAmount         = &Error{CodeInvalidAmount, "amount is invalid"}
	ErrInsufficientBalance   = &Error{CodeInsufficientBalance, "insufficient balance"}
	ErrInsufficientAllowance = &Error{CodeInsufficientAllowance, "insufficient allowance"}
	ErrNotInitialized        = &Error{CodeNotInitialized, "token not initialized"}
	ErrInvalidDecimals       = &Error{CodeInvalidDecimals, "decimals exceed maximum"}
	ErrOverflow              = &Error{CodeOverflow, "arithmetic overflow"}
	ErrInvalidRecipient      = &Error{CodeInvalidRecipient, "recipient is invalid"}
	ErrInvalidMetadata       = &Error{CodeInvalidMetadata, "name or symbol is invalid"}
)

// CodeOf extracts the stable code from err, or CodeNone if err is not a
// ledger error (store failures, authorization aborts).
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeNone
}
