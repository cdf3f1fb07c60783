package usecase

import (
	"github.com/vendorflow/vendorflow-api/internal/application/auth"
	"github.com/vendorflow/vendorflow-api/internal/application/dto"
	"github.com/vendorflow/vendorflow-api/internal/domain/repository"
)

// UserUseCase read-side user operations for the dashboard surface.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase builds the use case with the persistence port.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID fetches one user; (nil, nil) when absent.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return auth.ToUserResponse(user), nil
}

// ListByTenant lists users inside one tenant with pagination. Callers never
// see records from another tenant.
func (uc *UserUseCase) ListByTenant(tenantID string, page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.ListByTenant(tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, auth.ToUserResponse(u))
	}
	return out, nil
}
