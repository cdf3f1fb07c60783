package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vendorflow/vendorflow-api/internal/application/dto"
	"github.com/vendorflow/vendorflow-api/internal/domain"
	"github.com/vendorflow/vendorflow-api/internal/domain/entity"
	"github.com/vendorflow/vendorflow-api/internal/domain/repository"
	"github.com/vendorflow/vendorflow-api/pkg/identity"
	"github.com/vendorflow/vendorflow-api/pkg/jwt"
	"github.com/vendorflow/vendorflow-api/pkg/password"
)

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Policy failed-login lockout settings.
type Policy struct {
	MaxLoginAttempts int           // attempts before the account locks
	LockDuration     time.Duration // time-boxed lock length
}

// AuthUseCase authentication use cases: registration, login, password change.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	tenantRepo  repository.TenantRepository
	hasher      *password.Hasher // regular accounts
	adminHasher *password.Hasher // admin-grade accounts, higher work factor
	jwtCfg      JWTConfig
	policy      Policy

	now func() time.Time // injectable clock for lock-expiry tests
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	hasher, adminHasher *password.Hasher,
	jwtCfg JWTConfig,
	policy Policy,
) *AuthUseCase {
	if policy.MaxLoginAttempts <= 0 {
		policy.MaxLoginAttempts = 5
	}
	if policy.LockDuration <= 0 {
		policy.LockDuration = 15 * time.Minute
	}
	return &AuthUseCase{
		userRepo:    userRepo,
		tenantRepo:  tenantRepo,
		hasher:      hasher,
		adminHasher: adminHasher,
		jwtCfg:      jwtCfg,
		policy:      policy,
		now:         time.Now,
	}
}

func (uc *AuthUseCase) hasherFor(role string) *password.Hasher {
	if role == entity.RoleAdmin {
		return uc.adminHasher
	}
	return uc.hasher
}

// Register creates a user: hashes the password, resolves or mints the tenant
// and persists. Returns ErrEmailAlreadyExists when the email is taken.
// An empty TenantID mints a fresh tenant for the account; a provided TenantID
// must reference an existing tenant.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := identity.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	now := uc.now()
	tenantID := in.TenantID
	if tenantID == "" {
		tenantName := in.CompanyName
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
		if err := uc.tenantRepo.Create(tenant); err != nil {
			return nil, err
		}
		tenantID = tenant.ID
	} else {
		tenant, err := uc.tenantRepo.GetByID(tenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, domain.ErrTenantNotFound
		}
	}

	role := strings.ToLower(in.Role)
	if role == "" {
		role = entity.RoleVendor
	}
	hash, err := uc.hasherFor(role).Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		CompanyName:  in.CompanyName,
		Role:         role,
		Status:       entity.StatusActive,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifies credentials, enforces the lockout policy and issues the JWT.
//
// An account with an active lock is rejected before the password is even
// checked; a lock whose LockedUntil has elapsed no longer bars the login and
// is cleared together with the attempt counter on success. Failed attempts
// increment the counter and lock the account once MaxLoginAttempts is hit.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(identity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.PasswordHash == "" {
		// Provisioning bug: active record without a hash. Fail closed.
		return nil, domain.ErrUnauthorized
	}

	now := uc.now()
	if user.LockActive(now) {
		return nil, domain.ErrAccountLocked
	}

	if !uc.hasherFor(user.Role).Verify(in.Password, user.PasswordHash) {
		if lockErr := uc.registerFailedAttempt(user, now); lockErr != nil {
			return nil, lockErr
		}
		return nil, domain.ErrUnauthorized
	}
	if !user.CanAuthenticate() {
		return nil, domain.ErrForbidden
	}

	// Successful login resets the counter and clears any elapsed lock.
	if user.LoginAttempts > 0 || user.IsAccountLocked {
		if err := uc.userRepo.SetLockState(user.ID, 0, false, nil); err != nil {
			return nil, err
		}
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) registerFailedAttempt(user *entity.User, now time.Time) error {
	attempts := user.LoginAttempts + 1
	if attempts >= uc.policy.MaxLoginAttempts {
		until := now.Add(uc.policy.LockDuration)
		return uc.userRepo.SetLockState(user.ID, attempts, true, &until)
	}
	return uc.userRepo.SetLockState(user.ID, attempts, false, nil)
}

// ChangePassword verifies the current password and stores the new hash.
// UpdatePassword also resets the attempt counter and clears the lock state.
func (uc *AuthUseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !uc.hasherFor(user.Role).Verify(in.CurrentPassword, user.PasswordHash) {
		return domain.ErrUnauthorized
	}
	hash, err := uc.hasherFor(user.Role).Hash(in.NewPassword)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(user.ID, hash)
}

// ToUserResponse maps the entity to its client projection (never the hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CompanyName: u.CompanyName,
		Role:        u.Role,
		Status:      u.Status,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
