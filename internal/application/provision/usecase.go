// Package provision is the one parameterized provisioning routine behind the
// operator CLI. It replaces the pile of one-off seed/fix scripts the platform
// accumulated: every target (URI, email, desired fields) arrives as explicit
// configuration and every run is idempotent.
package provision

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendorflow/vendorflow-api/internal/domain"
	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
	"github.com/vendorflow/vendorflow-api/internal/domain/repository"
	"github.com/vendorflow/vendorflow-api/pkg/identity"
	"github.com/vendorflow/vendorflow-api/pkg/password"
)

// TxRunner runs a callback with repositories bound to one transaction, so a
// minted tenant and its user land atomically.
type TxRunner interface {
	Run(ctx context.Context, fn func(users repository.UserRepository, tenants repository.TenantRepository) error) error
}

// Request describes the desired user record.
type Request struct {
	Email       string
	Password    string
	Role        string // defaults to admin, this is an operator tool
	TenantID    string // empty mints a new tenant
	CompanyName string
	FirstName   string
	LastName    string
	Force       bool // overwrite an existing record instead of skipping
}

// Result reports what a seed run did.
type Result struct {
	User    *entity.User
	Created bool // false when an existing record was kept or overwritten
	Skipped bool // true for the idempotent no-op path
}

// Provisioner creates or repairs user records directly against the store.
type Provisioner struct {
	users       repository.UserRepository
	tx          TxRunner
	hasher      *password.Hasher
	adminHasher *password.Hasher

	now func() time.Time
}

// NewProvisioner builds the provisioning routine.
func NewProvisioner(users repository.UserRepository, tx TxRunner, hasher, adminHasher *password.Hasher) *Provisioner {
	return &Provisioner{
		users:       users,
		tx:          tx,
		hasher:      hasher,
		adminHasher: adminHasher,
		now:         time.Now,
	}
}

func (p *Provisioner) hasherFor(role string) *password.Hasher {
	if role == entity.RoleAdmin {
		return p.adminHasher
	}
	return p.hasher
}

// SeedUser creates the requested record, or short-circuits when the email is
// already provisioned (idempotent no-op unless Force). An existing record
// always keeps its tenant id; replaying the same seed twice leaves exactly
// one record behind.
func (p *Provisioner) SeedUser(ctx context.Context, req Request) (*Result, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	email := identity.NormalizeEmail(req.Email)

	role := entity.RoleAdmin
	if req.Role != "" {
		role = req.Role
	}

	existing, err := p.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil && !req.Force {
		return &Result{User: existing, Skipped: true}, nil
	}

	hash, err := p.hasherFor(role).Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := p.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     req.TenantID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		Role:         role,
		Status:       entity.StatusActive,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if existing != nil {
		// Force path: keep identity, replace the rest. Tenant is preserved
		// by the store's upsert regardless.
		user.ID = existing.ID
		user.TenantID = existing.TenantID
		user.CreatedAt = existing.CreatedAt
	}

	// Tenant minting and the user upsert commit together.
	err = p.tx.Run(ctx, func(users repository.UserRepository, tenants repository.TenantRepository) error {
		if existing == nil && user.TenantID == "" {
			tenantName := req.CompanyName
			if tenantName == "" {
				tenantName = email
			}
			tenant := &entity.Tenant{
				ID:        uuid.New().String(),
				Name:      tenantName,
				Status:    "active",
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tenants.Create(tenant); err != nil {
				return err
			}
			user.TenantID = tenant.ID
		}
		return users.Upsert(user)
	})
	if err != nil {
		return nil, err
	}
	return &Result{User: user, Created: existing == nil}, nil
}

// ResetPassword repairs a broken credential: new hash, counter zeroed, lock
// cleared.
func (p *Provisioner) ResetPassword(email, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidInput
	}
	user, err := p.users.FindByEmail(identity.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := p.hasherFor(user.Role).Hash(newPassword)
	if err != nil {
		return err
	}
	return p.users.UpdatePassword(user.ID, hash)
}
