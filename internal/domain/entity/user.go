package entity

import "time"

// Valid roles for User. Role comparison is case-insensitive at the edges;
// persisted values are always lower-case.
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleSupplier = "supplier"
)

// KnownRole reports whether role (already normalized) is one of the three
// roles the platform understands.
func KnownRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendor, RoleSupplier:
		return true
	}
	return false
}

// Account statuses.
const (
	StatusActive    = "active"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

// User is a platform user scoped to exactly one Tenant.
// TenantID is immutable after creation. PasswordHash must never be empty once
// Status is active; an empty hash on an active account is a provisioning bug.
type User struct {
	ID           string
	TenantID     string
	Email        string // unique system-wide, stored lower-case
	PasswordHash string // bcrypt hash, never the plaintext
	FirstName    string
	LastName     string
	CompanyName  string // display only, optional
	Role         string // admin, vendor, supplier
	Status       string // active, pending, suspended
	IsActive     bool   // independent of Status; both are checked at login

	// Lockout sub-state, driven by the failed-login policy.
	LoginAttempts   int
	IsAccountLocked bool
	LockedUntil     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LockActive reports whether the account lock still bars authentication at
// the given instant. A lock with an elapsed LockedUntil is a time-boxed lock
// that no longer applies (it gets cleared on the next successful login).
func (u *User) LockActive(now time.Time) bool {
	if !u.IsAccountLocked {
		return false
	}
	if u.LockedUntil == nil {
		return true // indefinite lock
	}
	return now.Before(*u.LockedUntil)
}

// CanAuthenticate reports whether status flags allow this account to log in.
// Both Status and IsActive must agree.
func (u *User) CanAuthenticate() bool {
	return u.Status == StatusActive && u.IsActive
}
