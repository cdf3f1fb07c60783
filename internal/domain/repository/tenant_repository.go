package repository

import "github.com/vendorflow/vendorflow-api/internal/domain/entity"

// TenantRepository is the persistence port for Tenant (DIP).
type TenantRepository interface {
	Create(tenant *entity.Tenant) error
	GetByID(id string) (*entity.Tenant, error)
	Update(tenant *entity.Tenant) error
	List(limit, offset int) ([]*entity.Tenant, error)
}
