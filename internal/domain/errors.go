package domain

import "errors"

// Domain errors (no external dependencies).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTenantNotFound     = errors.New("tenant not found")
	ErrEmailAlreadyExists = errors.New("email is already registered")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("access denied")
	ErrAccountLocked      = errors.New("account is locked")
	ErrConflict           = errors.New("conflict with current state")

	// ErrStoreUnavailable signals the credential store could not be reached
	// within the configured connect timeout. Callers decide the fallback
	// (the provisioning CLI aborts with a non-zero exit).
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrAlreadyProvisioned marks an idempotent provisioning no-op: the
	// target record already exists. Not a failure.
	ErrAlreadyProvisioned = errors.New("already provisioned")
)
