package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vendorflow/vendorflow-api/internal/domain"
	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
	"github.com/vendorflow/vendorflow-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, tenant_id, email, password_hash, first_name, last_name, company_name,
		role, status, is_active, login_attempts, is_account_locked, locked_until, created_at, updated_at`

// UserRepo implements the credential store port over PostgreSQL. Usable with
// pool or tx (Querier).
type UserRepo struct {
	q Querier
}

// NewUserRepository builds the persistence adapter for users.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CompanyName,
		&u.Role, &u.Status, &u.IsActive, &u.LoginAttempts, &u.IsAccountLocked, &u.LockedUntil,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create persists a new user.
func (r *UserRepo) Create(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.TenantID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.CompanyName, user.Role, user.Status, user.IsActive, user.LoginAttempts,
		user.IsAccountLocked, user.LockedUntil, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID fetches a user by id; (nil, nil) when absent.
func (r *UserRepo) GetByID(id string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByID alias for GetByID.
func (r *UserRepo) FindByID(id string) (*entity.User, error) {
	return r.GetByID(id)
}

// FindByEmail fetches a user by normalized email; (nil, nil) when absent.
func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email))
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// Update rewrites the mutable fields of a user. tenant_id is deliberately not
// in the SET list: it is immutable after creation.
func (r *UserRepo) Update(user *entity.User) error {
	query := `
		UPDATE users SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
			company_name = $6, role = $7, status = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.CompanyName, user.Role, user.Status, user.IsActive, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Upsert creates or replaces the record keyed by email. The conflict branch
// keeps the existing row's id and tenant_id, so replayed provisioning runs and
// concurrent upserts on one email can never fork a user across tenants.
func (r *UserRepo) Upsert(user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (email) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			company_name = EXCLUDED.company_name,
			role = EXCLUDED.role,
			status = EXCLUDED.status,
			is_active = EXCLUDED.is_active,
			login_attempts = EXCLUDED.login_attempts,
			is_account_locked = EXCLUDED.is_account_locked,
			locked_until = EXCLUDED.locked_until,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		user.ID, user.TenantID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.CompanyName, user.Role, user.Status, user.IsActive, user.LoginAttempts,
		user.IsAccountLocked, user.LockedUntil, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// UpdatePassword swaps the hash, stamps updated_at, zeroes the attempt
// counter and clears the lock state.
func (r *UserRepo) UpdatePassword(userID, newHash string) error {
	query := `
		UPDATE users SET password_hash = $2, login_attempts = 0,
			is_account_locked = FALSE, locked_until = NULL, updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, userID, newHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetLockState persists the lockout sub-state after a login attempt.
func (r *UserRepo) SetLockState(userID string, attempts int, locked bool, until *time.Time) error {
	query := `
		UPDATE users SET login_attempts = $2, is_account_locked = $3, locked_until = $4,
			updated_at = NOW()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, userID, attempts, locked, until)
	if err != nil {
		return fmt.Errorf("set lock state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ListByTenant lists a tenant's users with pagination.
func (r *UserRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(
			&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CompanyName,
			&u.Role, &u.Status, &u.IsActive, &u.LoginAttempts, &u.IsAccountLocked, &u.LockedUntil,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}
