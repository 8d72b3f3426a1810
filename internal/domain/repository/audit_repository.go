package repository

import (
	"context"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
)

// AuditRepository define el puerto de persistencia para eventos de auditoría.
type AuditRepository interface {
	Insert(ctx context.Context, ev *entity.AuditEvent) error
}
