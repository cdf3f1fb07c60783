package repository

import (
	"time"

	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
)

// UserRepository is the persistence port for the credential store (DIP).
// The implementation lives in infrastructure.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	Update(user *entity.User) error
	ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error)

	// FindByEmail returns (nil, nil) when no record matches. Lookups are
	// against the normalized (lower-case) email.
	FindByEmail(email string) (*entity.User, error)
	FindByID(id string) (*entity.User, error)

	// Upsert creates or replaces the record keyed by email. An existing row
	// keeps its tenant_id regardless of what the incoming record carries, so
	// concurrent provisioning runs cannot fork a user across tenants.
	Upsert(user *entity.User) error

	// UpdatePassword swaps the hash, stamps updated_at, zeroes login_attempts
	// and clears the lock state.
	UpdatePassword(userID, newHash string) error

	// SetLockState persists the lockout sub-state after a login attempt.
	SetLockState(userID string, attempts int, locked bool, until *time.Time) error
}
