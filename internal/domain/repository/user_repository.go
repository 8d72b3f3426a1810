package repository

import (
	"context"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las búsquedas por email reciben el email ya normalizado a minúsculas.
// Los Get/Find devuelven (nil, nil) cuando el documento no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, filter UserFilter) ([]*entity.User, int64, error)
}

// UserFilter filtros y paginación para listados de usuarios.
type UserFilter struct {
	TenantID string // vacío: sin filtro de tenant
	Limit    int
	Offset   int
}
