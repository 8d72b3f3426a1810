package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
)

// EnsureSuperAdmin crea el super_admin inicial si no existe aún un usuario
// con ese email. Pensado para el arranque de una instalación nueva; si el
// usuario ya existe no toca nada. Devuelve true si creó el usuario.
func EnsureSuperAdmin(ctx context.Context, repo repository.UserRepository, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	now := time.Now()
	err = repo.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Super Admin",
		Role:         entity.RoleSuperAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// otra instancia ganó la carrera de seed: ya existe, no lo creamos nosotros
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
