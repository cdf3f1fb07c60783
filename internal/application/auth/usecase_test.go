package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorflow/vendorflow-api/internal/application/dto"
	"github.com/vendorflow/vendorflow-api/internal/domain"
	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
	"github.com/vendorflow/vendorflow-api/pkg/password"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes for the repository ports
// ─────────────────────────────────────────────────────────────────────────────

type memUserRepo struct {
	byID map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(u *entity.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id string) (*entity.User, error)  { return r.FindByID(id) }
func (r *memUserRepo) FindByID(id string) (*entity.User, error) {
	if u, ok := r.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Update(u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) ListByTenant(tenantID string, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.byID {
		if u.TenantID == tenantID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memUserRepo) Upsert(u *entity.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			cp := *u
			cp.ID = existing.ID
			cp.TenantID = existing.TenantID // existing row keeps its tenant
			r.byID[existing.ID] = &cp
			return nil
		}
	}
	return r.Create(u)
}

func (r *memUserRepo) UpdatePassword(userID, newHash string) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = newHash
	u.LoginAttempts = 0
	u.IsAccountLocked = false
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memUserRepo) SetLockState(userID string, attempts int, locked bool, until *time.Time) error {
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = attempts
	u.IsAccountLocked = locked
	u.LockedUntil = until
	return nil
}

type memTenantRepo struct {
	byID map[string]*entity.Tenant
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{byID: map[string]*entity.Tenant{}}
}

func (r *memTenantRepo) Create(t *entity.Tenant) error {
	cp := *t
	r.byID[t.ID] = &cp
	return nil
}

func (r *memTenantRepo) GetByID(id string) (*entity.Tenant, error) {
	if t, ok := r.byID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *memTenantRepo) Update(t *entity.Tenant) error {
	cp := *t
	r.byID[t.ID] = &cp
	return nil
}

func (r *memTenantRepo) List(limit, offset int) ([]*entity.Tenant, error) {
	var out []*entity.Tenant
	for _, t := range r.byID {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Test harness
// ─────────────────────────────────────────────────────────────────────────────

const (
	testSecret   = "test-secret-key-for-unit-tests"
	testPassword = "hunter2hunter2"
)

type fixture struct {
	uc      *AuthUseCase
	users   *memUserRepo
	tenants *memTenantRepo
	clock   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:   newMemUserRepo(),
		tenants: newMemTenantRepo(),
		clock:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	h := password.New(password.MinTestCost)
	f.uc = NewAuthUseCase(f.users, f.tenants, h, h,
		JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "vendorflow-test"},
		Policy{MaxLoginAttempts: 3, LockDuration: 15 * time.Minute},
	)
	f.uc.now = func() time.Time { return f.clock }
	return f
}

// seedUser persists an active vendor account with the default test password.
func (f *fixture) seedUser(t *testing.T, email string, mutate ...func(*entity.User)) *entity.User {
	t.Helper()
	h := password.New(password.MinTestCost)
	hash, err := h.Hash(testPassword)
	require.NoError(t, err)
	u := &entity.User{
		ID:           "user-" + email,
		TenantID:     "tenant-1",
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleVendor,
		Status:       entity.StatusActive,
		IsActive:     true,
		CreatedAt:    f.clock,
		UpdatedAt:    f.clock,
	}
	for _, m := range mutate {
		m(u)
	}
	require.NoError(t, f.users.Create(u))
	return u
}

// ─────────────────────────────────────────────────────────────────────────────
// Login
// ─────────────────────────────────────────────────────────────────────────────

func TestLogin_Success_IssuesToken(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "vendor@acme.test")

	out, err := f.uc.Login(dto.LoginRequest{Email: "vendor@acme.test", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "vendor", out.User.Role)
	assert.Equal(t, "tenant-1", out.User.TenantID)
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "vendor@acme.test")

	_, err := f.uc.Login(dto.LoginRequest{Email: "Vendor@Acme.TEST", Password: testPassword})
	assert.NoError(t, err)
}

func TestLogin_UnknownEmail_ReturnsUserNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Login(dto.LoginRequest{Email: "ghost@acme.test", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_WrongPassword_IncrementsAttempts(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test")

	_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	stored := f.users.byID[u.ID]
	assert.Equal(t, 1, stored.LoginAttempts)
	assert.False(t, stored.IsAccountLocked)
}

func TestLogin_LocksAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test")

	for i := 0; i < 3; i++ {
		_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}

	stored := f.users.byID[u.ID]
	assert.True(t, stored.IsAccountLocked, "third failure must lock the account")
	require.NotNil(t, stored.LockedUntil)
	assert.Equal(t, f.clock.Add(15*time.Minute), *stored.LockedUntil)

	// Even the correct password is refused while the lock holds.
	_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

func TestLogin_ElapsedLock_AdmitsAndClearsState(t *testing.T) {
	f := newFixture(t)
	past := f.clock.Add(-time.Minute)
	u := f.seedUser(t, "vendor@acme.test", func(u *entity.User) {
		u.LoginAttempts = 5
		u.IsAccountLocked = true
		u.LockedUntil = &past
	})

	out, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: testPassword})
	require.NoError(t, err, "an elapsed time-boxed lock must not bar authentication")
	assert.NotEmpty(t, out.Token)

	stored := f.users.byID[u.ID]
	assert.False(t, stored.IsAccountLocked, "successful login clears the lock")
	assert.Zero(t, stored.LoginAttempts)
	assert.Nil(t, stored.LockedUntil)
}

func TestLogin_IndefiniteLock_Rejected(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test", func(u *entity.User) {
		u.IsAccountLocked = true
		u.LockedUntil = nil // no expiry
	})

	_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrAccountLocked)
}

func TestLogin_SuspendedStatus_Forbidden(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test", func(u *entity.User) {
		u.Status = entity.StatusSuspended
	})

	_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_InactiveFlag_Forbidden(t *testing.T) {
	// Status and IsActive are independent; both must pass.
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test", func(u *entity.User) {
		u.IsActive = false
	})

	_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_EmptyHash_FailsClosed(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test", func(u *entity.User) {
		u.PasswordHash = ""
	})

	_, err := f.uc.Login(dto.LoginRequest{Email: u.Email, Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ─────────────────────────────────────────────────────────────────────────────
// Register
// ─────────────────────────────────────────────────────────────────────────────

func TestRegister_MintsTenantWhenAbsent(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Register(dto.RegisterRequest{
		Email:       "owner@fresh.test",
		Password:    testPassword,
		CompanyName: "Fresh Supplies",
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.TenantID)

	tenant, err := f.tenants.GetByID(out.TenantID)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	assert.Equal(t, "Fresh Supplies", tenant.Name)
	assert.Equal(t, "vendor", out.Role, "role defaults to vendor")
}

func TestRegister_ExistingTenant_IsReused(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tenants.Create(&entity.Tenant{ID: "t-9", Name: "Niners", Status: "active"}))

	out, err := f.uc.Register(dto.RegisterRequest{
		Email:    "nine@acme.test",
		Password: testPassword,
		TenantID: "t-9",
		Role:     "Supplier",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-9", out.TenantID)
	assert.Equal(t, "supplier", out.Role, "role is normalized to lower-case")
}

func TestRegister_UnknownTenant_Rejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Register(dto.RegisterRequest{
		Email:    "x@acme.test",
		Password: testPassword,
		TenantID: "missing",
	})
	assert.ErrorIs(t, err, domain.ErrTenantNotFound)
}

func TestRegister_DuplicateEmail_Rejected(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "vendor@acme.test")

	_, err := f.uc.Register(dto.RegisterRequest{Email: "Vendor@ACME.test", Password: testPassword})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists,
		"duplicate detection must be case-insensitive")
}

// ─────────────────────────────────────────────────────────────────────────────
// ChangePassword
// ─────────────────────────────────────────────────────────────────────────────

func TestChangePassword_VerifiesCurrentAndClearsLockCounters(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test", func(u *entity.User) {
		u.LoginAttempts = 2
	})

	err := f.uc.ChangePassword(u.ID, dto.ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     "a-brand-new-secret",
	})
	require.NoError(t, err)

	stored := f.users.byID[u.ID]
	assert.Zero(t, stored.LoginAttempts, "UpdatePassword resets the attempt counter")

	_, err = f.uc.Login(dto.LoginRequest{Email: u.Email, Password: "a-brand-new-secret"})
	assert.NoError(t, err)
}

func TestChangePassword_WrongCurrent_Rejected(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "vendor@acme.test")

	err := f.uc.ChangePassword(u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "not-it",
		NewPassword:     "whatever-else",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
