package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/auth"
	"github.com/jhoicas/inmobiliaria-api/internal/application/dto"
	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/rbac"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
)

// minPasswordLen longitud mínima del password en texto al crear.
const minPasswordLen = 8

// UserUseCase casos de uso de administración de usuarios. Todas las
// operaciones reciben el UserContext verificado del actor: el gate ya
// garantizó rol >= admin, aquí se aplican las reglas de tenant y jerarquía.
type UserUseCase struct {
	userRepo repository.UserRepository
	recorder *audit.Recorder
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(userRepo repository.UserRepository, recorder *audit.Recorder) *UserUseCase {
	return &UserUseCase{userRepo: userRepo, recorder: recorder}
}

// List devuelve una página de usuarios. Un actor que no es super_admin solo
// ve los de su propio tenant.
func (uc *UserUseCase) List(ctx context.Context, actor rbac.UserContext, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()

	filter := repository.UserFilter{Limit: page.Limit, Offset: page.Offset}
	if actor.Role != entity.RoleSuperAdmin {
		filter.TenantID = actor.TenantID
	}

	users, total, err := uc.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Create crea un usuario nuevo. Reglas:
//   - email, password (>= 8) y rol del conjunto cerrado son obligatorios;
//   - un actor que no es super_admin solo crea usuarios de su propio tenant
//     y nunca con un rol por encima del suyo;
//   - email duplicado: ErrEmailAlreadyExists, sin escritura;
//   - al ser una operación de alto privilegio se revalida contra el store
//     que el actor siga activo (los claims pueden estar desfasados).
func (uc *UserUseCase) Create(ctx context.Context, actor rbac.UserContext, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}

	if err := uc.revalidateActor(ctx, actor); err != nil {
		return nil, err
	}

	if actor.Role != entity.RoleSuperAdmin {
		if !actor.CanAccessTenant(in.TenantID) {
			return nil, domain.ErrForbidden
		}
		if rbac.Rank(in.Role) > rbac.Rank(actor.Role) {
			return nil, domain.ErrForbidden
		}
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	name := in.Name
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Role:         in.Role,
		TenantID:     in.TenantID,
		BuildingID:   in.BuildingID,
		IsActive:     true,
		Modules:      in.Modules,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		// el índice único cubre la carrera entre el chequeo y el insert
		return nil, err
	}

	uc.recordAdmin(actor, entity.AuditUserCreated, user.ID)
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// GetByID devuelve un usuario. Fuera del tenant del actor (sin override) se
// responde como no encontrado para no revelar existencia.
func (uc *UserUseCase) GetByID(ctx context.Context, actor rbac.UserContext, id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !actor.CanAccessTenant(user.TenantID) {
		return nil, domain.ErrUserNotFound
	}
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// Update modifica los campos presentes en la petición.
func (uc *UserUseCase) Update(ctx context.Context, actor rbac.UserContext, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if actor.Role != entity.RoleSuperAdmin && !actor.CanAccessTenant(user.TenantID) {
		return nil, domain.ErrForbidden
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.ErrInvalidInput
		}
		user.Email = email
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Role != nil {
		if !entity.IsValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		if actor.Role != entity.RoleSuperAdmin && rbac.Rank(*in.Role) > rbac.Rank(actor.Role) {
			return nil, domain.ErrForbidden
		}
		user.Role = *in.Role
	}
	if in.TenantID != nil {
		// reasignar de tenant sigue la misma regla que crear: sin override,
		// el destino tiene que estar dentro del scope del actor
		if actor.Role != entity.RoleSuperAdmin && !actor.CanAccessTenant(*in.TenantID) {
			return nil, domain.ErrForbidden
		}
		user.TenantID = *in.TenantID
	}
	if in.BuildingID != nil {
		user.BuildingID = *in.BuildingID
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Modules != nil {
		user.Modules = *in.Modules
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.recordAdmin(actor, entity.AuditUserUpdated, user.ID)
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// Deactivate baja suave: isActive=false. El documento se conserva; los
// tokens ya emitidos siguen siendo válidos hasta expirar. Registra un único
// evento de auditoría (user_deactivated).
func (uc *UserUseCase) Deactivate(ctx context.Context, actor rbac.UserContext, id string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if actor.Role != entity.RoleSuperAdmin && !actor.CanAccessTenant(user.TenantID) {
		return nil, domain.ErrForbidden
	}

	user.IsActive = false
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.recordAdmin(actor, entity.AuditUserDeactivated, user.ID)
	resp := auth.ToUserResponse(user)
	return &resp, nil
}

// revalidateActor confirma contra el Credential Store que el actor de una
// operación de alto privilegio siga existiendo y activo, acotando la ventana
// de staleness de los claims.
func (uc *UserUseCase) revalidateActor(ctx context.Context, actor rbac.UserContext) error {
	stored, err := uc.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if stored == nil || !stored.IsActive {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *UserUseCase) recordAdmin(actor rbac.UserContext, eventType, targetID string) {
	uc.recorder.Record(entity.AuditEvent{
		Category:   entity.AuditCategoryAdmin,
		EventType:  eventType,
		ActorID:    actor.UserID,
		ActorEmail: actor.Email,
		Decision:   "allow",
		Reason:     "target=" + targetID,
		Success:    true,
	})
}
