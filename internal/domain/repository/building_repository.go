package repository

import (
	"context"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
)

// BuildingRepository define el puerto de persistencia para Building.
type BuildingRepository interface {
	Create(ctx context.Context, b *entity.Building) error
	GetByID(ctx context.Context, id string) (*entity.Building, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Building, int64, error)
}
