package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/auth"
	"github.com/jhoicas/inmobiliaria-api/internal/application/dto"
	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/repository"
	pkgjwt "github.com/jhoicas/inmobiliaria-api/pkg/jwt"
	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
	"github.com/jhoicas/inmobiliaria-api/pkg/ratelimit"
)

const testSecret = "test-secret-key-for-unit-tests"

// fakeUserRepo repositorio en memoria indexado por email (ya en minúsculas).
type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{byEmail: map[string]*entity.User{}}
	for _, u := range users {
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.byEmail[email], nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.byEmail[u.Email] = u
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ repository.UserFilter) ([]*entity.User, int64, error) {
	var out []*entity.User
	for _, u := range r.byEmail {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func seededUser(t *testing.T, email, password, role string, active bool) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	return &entity.User{
		ID:           "u-" + role,
		Email:        email,
		PasswordHash: string(hash),
		Name:         role,
		Role:         role,
		TenantID:     "tenant-1",
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func newAuthUC(repo repository.UserRepository, limit int) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo,
		ratelimit.New(limit, time.Minute),
		audit.NewRecorder(nil, logger.Nop()),
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60},
	)
}

func TestLogin_Exitoso(t *testing.T) {
	repo := newFakeUserRepo(seededUser(t, "superadmin@x.com", "SuperAdmin123!", entity.RoleSuperAdmin, true))
	uc := newAuthUC(repo, 5)

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "superadmin@x.com", Password: "SuperAdmin123!",
	}, "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	// el rol decodificado del token debe ser super_admin y el user no trae password
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSuperAdmin, claims.Role)
	assert.Equal(t, "superadmin@x.com", out.User.Email)
}

func TestLogin_EmailConMayusculas(t *testing.T) {
	repo := newFakeUserRepo(seededUser(t, "admin@x.com", "Password123!", entity.RoleAdmin, true))
	uc := newAuthUC(repo, 5)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "  Admin@X.com ", Password: "Password123!",
	}, "")
	assert.NoError(t, err, "el email se normaliza a minúsculas antes del lookup")
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := newFakeUserRepo(seededUser(t, "admin@x.com", "Password123!", entity.RoleAdmin, true))
	uc := newAuthUC(repo, 5)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "admin@x.com", Password: "otra-cosa",
	}, "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc := newAuthUC(newFakeUserRepo(), 5)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@x.com", Password: "Password123!",
	}, "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// Cuenta inactiva: las credenciales correctas igual fallan.
func TestLogin_CuentaInactiva(t *testing.T) {
	repo := newFakeUserRepo(seededUser(t, "ex@x.com", "Password123!", entity.RoleSales, false))
	uc := newAuthUC(repo, 5)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ex@x.com", Password: "Password123!",
	}, "")
	assert.ErrorIs(t, err, domain.ErrInactiveAccount)
}

func TestLogin_RateLimitPorEmail(t *testing.T) {
	repo := newFakeUserRepo(seededUser(t, "admin@x.com", "Password123!", entity.RoleAdmin, true))
	uc := newAuthUC(repo, 3)

	for i := 0; i < 3; i++ {
		_, err := uc.Login(context.Background(), dto.LoginRequest{
			Email: "admin@x.com", Password: "mal",
		}, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	}
	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "admin@x.com", Password: "mal",
	}, "")
	assert.ErrorIs(t, err, domain.ErrRateLimited, "agotada la ventana, ni siquiera se consulta el store")

	// otro email no comparte el contador
	_, err = uc.Login(context.Background(), dto.LoginRequest{
		Email: "otro@x.com", Password: "mal",
	}, "")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestEnsureSuperAdmin(t *testing.T) {
	repo := newFakeUserRepo()

	created, err := auth.EnsureSuperAdmin(context.Background(), repo, "Root@X.com", "SuperAdmin123!")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := repo.GetByEmail(context.Background(), "root@x.com")
	require.NoError(t, err)
	require.NotNil(t, u, "el email sembrado se guarda en minúsculas")
	assert.Equal(t, entity.RoleSuperAdmin, u.Role)
	assert.True(t, u.IsActive)

	// segunda corrida: no toca nada
	created, err = auth.EnsureSuperAdmin(context.Background(), repo, "root@x.com", "SuperAdmin123!")
	require.NoError(t, err)
	assert.False(t, created)
}

// racingSeedRepo simula a otra instancia ganando la carrera de seed: el
// lookup todavía no ve al usuario pero el insert choca con el índice único.
type racingSeedRepo struct {
	*fakeUserRepo
}

func (r *racingSeedRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}

func TestEnsureSuperAdmin_PierdeLaCarreraDeSeed(t *testing.T) {
	repo := &racingSeedRepo{fakeUserRepo: newFakeUserRepo(
		seededUser(t, "root@x.com", "SuperAdmin123!", entity.RoleSuperAdmin, true))}

	created, err := auth.EnsureSuperAdmin(context.Background(), repo, "root@x.com", "SuperAdmin123!")
	require.NoError(t, err)
	assert.False(t, created, "el duplicado se tolera pero no se reporta como creación propia")
}
