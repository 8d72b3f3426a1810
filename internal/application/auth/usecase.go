package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/dto"
	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
	"github.com/jhoicas/inmobiliaria-api/pkg/jwt"
	"github.com/jhoicas/inmobiliaria-api/pkg/ratelimit"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
}

// AuthUseCase caso de uso de autenticación: login con rate limiting y auditoría.
type AuthUseCase struct {
	userRepo repository.UserRepository
	limiter  *ratelimit.Limiter
	recorder *audit.Recorder
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. El limiter se inyecta
// desde el arranque: no hay estado global.
func NewAuthUseCase(userRepo repository.UserRepository, limiter *ratelimit.Limiter, recorder *audit.Recorder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, limiter: limiter, recorder: recorder, jwtCfg: jwtCfg}
}

// Login verifica credenciales y emite un JWT. Hacia el caller, "usuario no
// existe", "password incorrecto" y "cuenta inactiva" colapsan en errores que
// el handler aplana a un 401 genérico; el motivo real solo va a auditoría.
// La clave del rate limit es el email normalizado del intento.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, ip string) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if !uc.limiter.Allow(email) {
		uc.recorder.Record(entity.AuditEvent{
			Category:   entity.AuditCategoryAuth,
			EventType:  entity.AuditLoginRateLimited,
			ActorEmail: email,
			Decision:   "deny",
			Reason:     "límite de intentos excedido",
			IP:         ip,
		})
		return nil, domain.ErrRateLimited
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		uc.recordLoginFailure(email, ip, "usuario no existe")
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		uc.recordLoginFailure(email, ip, "password incorrecto")
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		// credenciales correctas pero cuenta desactivada: también falla
		uc.recordLoginFailure(email, ip, "cuenta inactiva")
		return nil, domain.ErrInactiveAccount
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret,
		user.ID, user.Email, user.Role, user.TenantID, user.BuildingID,
		uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	uc.limiter.Reset(email)
	uc.recorder.Record(entity.AuditEvent{
		Category:   entity.AuditCategoryAuth,
		EventType:  entity.AuditLoginSuccess,
		ActorID:    user.ID,
		ActorEmail: user.Email,
		Decision:   "allow",
		IP:         ip,
		Success:    true,
	})

	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) recordLoginFailure(email, ip, reason string) {
	uc.recorder.Record(entity.AuditEvent{
		Category:   entity.AuditCategoryAuth,
		EventType:  entity.AuditLoginFailed,
		ActorEmail: email,
		Decision:   "deny",
		Reason:     reason,
		IP:         ip,
	})
}

// ToUserResponse proyecta un User a su DTO de salida (sin el hash de password).
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role,
		TenantID:   u.TenantID,
		BuildingID: u.BuildingID,
		IsActive:   u.IsActive,
		Modules:    u.Modules,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
