package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/dto"
	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/rbac"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
)

// BuildingUseCase casos de uso de edificios.
type BuildingUseCase struct {
	buildingRepo repository.BuildingRepository
	recorder     *audit.Recorder
}

// NewBuildingUseCase construye el caso de uso de edificios.
func NewBuildingUseCase(buildingRepo repository.BuildingRepository, recorder *audit.Recorder) *BuildingUseCase {
	return &BuildingUseCase{buildingRepo: buildingRepo, recorder: recorder}
}

// List devuelve una página de edificios. super_admin ve todos; el resto,
// los de su tenant.
func (uc *BuildingUseCase) List(ctx context.Context, actor rbac.UserContext, page dto.PageRequest) (*dto.BuildingListResponse, error) {
	page.DefaultPage()

	tenantID := actor.TenantID
	if actor.Role == entity.RoleSuperAdmin {
		tenantID = ""
	}

	buildings, total, err := uc.buildingRepo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}

	items := make([]dto.BuildingResponse, 0, len(buildings))
	for _, b := range buildings {
		items = append(items, toBuildingResponse(b))
	}
	return &dto.BuildingListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Create crea un edificio dentro del tenant indicado. El scoping de tenant
// aplica: un admin solo crea en su propio tenant (super_admin en cualquiera).
func (uc *BuildingUseCase) Create(ctx context.Context, actor rbac.UserContext, in dto.CreateBuildingRequest) (*dto.BuildingResponse, error) {
	if in.Name == "" || in.TenantID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !actor.CanAccessTenant(in.TenantID) {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	b := &entity.Building{
		ID:        uuid.New().String(),
		TenantID:  in.TenantID,
		Name:      in.Name,
		Address:   in.Address,
		Units:     in.Units,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.buildingRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	uc.recorder.Record(entity.AuditEvent{
		Category:   entity.AuditCategoryAdmin,
		EventType:  entity.AuditBuildingCreated,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Decision:   "allow",
		Reason:     "target=" + b.ID,
		Success:    true,
	})

	resp := toBuildingResponse(b)
	return &resp, nil
}

func toBuildingResponse(b *entity.Building) dto.BuildingResponse {
	return dto.BuildingResponse{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		Address:   b.Address,
		Units:     b.Units,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
