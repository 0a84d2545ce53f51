package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrDuplicateTransaction indicates a transaction with the same account and idempotency key already exists
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrDuplicateAccount indicates an account with the same email already exists
	ErrDuplicateAccount = errors.New("duplicate account")

	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")
)
