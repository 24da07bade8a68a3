package shared

import "errors"

var (
	// ErrValidation indicates missing tenant scope or a malformed required field.
	ErrValidation = errors.New("validation error")
	// ErrNotFound indicates an entity absent within the tenant scope.
	ErrNotFound = errors.New("not found")
	// ErrUnbalanced indicates voucher debits and credits do not match.
	ErrUnbalanced = errors.New("unbalanced voucher")
)
