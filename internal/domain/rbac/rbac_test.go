package rbac_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/rbac"
)

// orden descendente esperado de la jerarquía
var rolesDesc = []string{
	entity.RoleSuperAdmin,
	entity.RoleAdmin,
	entity.RoleSales,
	entity.RoleMaintenance,
	entity.RoleReceptionist,
	entity.RoleTenant,
}

func TestRank_EstrictamenteMonotono(t *testing.T) {
	for i := 0; i < len(rolesDesc)-1; i++ {
		assert.Greater(t, rbac.Rank(rolesDesc[i]), rbac.Rank(rolesDesc[i+1]),
			"rank(%s) debe ser mayor que rank(%s)", rolesDesc[i], rolesDesc[i+1])
	}
}

func TestRank_InyectivoSobreLosSeisRoles(t *testing.T) {
	seen := map[int]string{}
	for _, r := range rolesDesc {
		rk := rbac.Rank(r)
		assert.GreaterOrEqual(t, rk, 0, "rol válido %s no puede tener rank negativo", r)
		prev, dup := seen[rk]
		assert.False(t, dup, "rank duplicado entre %s y %s", prev, r)
		seen[rk] = r
	}
}

func TestRank_RolDesconocidoEsNegativo(t *testing.T) {
	assert.Equal(t, -1, rbac.Rank("gerente"))
	assert.Equal(t, -1, rbac.Rank(""))
}

// HasRole(A,B) es verdadero si y solo si rank(A) >= rank(B), para todos los pares.
func TestHasRole_EquivaleAComparacionDeRanks(t *testing.T) {
	for _, a := range rolesDesc {
		for _, b := range rolesDesc {
			want := rbac.Rank(a) >= rbac.Rank(b)
			assert.Equal(t, want, rbac.HasRole(a, b), "HasRole(%s,%s)", a, b)
		}
	}
}

func TestHasRole_RolDesconocidoNuncaAutoriza(t *testing.T) {
	assert.False(t, rbac.HasRole("gerente", entity.RoleTenant))
	assert.False(t, rbac.HasRole("", entity.RoleTenant))
}

// La semántica es ANY-of: pasa si el actor alcanza ALGUNO de los roles
// listados, no todos. Este test la fija; sales alcanza sales aunque no
// alcance admin.
func TestHasAnyRole_SemanticaAny(t *testing.T) {
	assert.True(t, rbac.HasAnyRole(entity.RoleSales, entity.RoleAdmin, entity.RoleSales))
	assert.False(t, rbac.HasAnyRole(entity.RoleTenant, entity.RoleAdmin, entity.RoleSales))
	assert.True(t, rbac.HasAnyRole(entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleSales))
}

func TestHasAnyRole_ListaVaciaNoAutoriza(t *testing.T) {
	assert.False(t, rbac.HasAnyRole(entity.RoleSuperAdmin))
}

func TestCanAccessTenant(t *testing.T) {
	super := rbac.UserContext{Role: entity.RoleSuperAdmin}
	admin := rbac.UserContext{Role: entity.RoleAdmin, TenantID: "tenant-1"}

	// super_admin pasa siempre, cualquiera sea el destino
	assert.True(t, super.CanAccessTenant("tenant-1"))
	assert.True(t, super.CanAccessTenant("tenant-otro"))
	assert.True(t, super.CanAccessTenant(""))

	// admin: su propio tenant sí, otro no
	assert.True(t, admin.CanAccessTenant("tenant-1"))
	assert.False(t, admin.CanAccessTenant("tenant-2"))

	// sin scoping pedido, pasa
	assert.True(t, admin.CanAccessTenant(""))
}

// El override de edificio cubre los dos rangos superiores; el de tenant
// solo el primero. Asimetría intencional que debe preservarse.
func TestCanAccessBuilding_OverrideParaAdminYSuperAdmin(t *testing.T) {
	admin := rbac.UserContext{Role: entity.RoleAdmin, TenantID: "tenant-1"}
	sales := rbac.UserContext{Role: entity.RoleSales, BuildingID: "building-1"}

	assert.True(t, admin.CanAccessBuilding("building-cualquiera"),
		"admin tiene override global de edificio")
	assert.False(t, admin.CanAccessTenant("tenant-ajeno"),
		"admin NO tiene override global de tenant")

	assert.True(t, sales.CanAccessBuilding("building-1"))
	assert.False(t, sales.CanAccessBuilding("building-2"))
	assert.True(t, sales.CanAccessBuilding(""))
}

// El scoping no valida existencia: un destino inexistente igual "pasa" si
// coincide o si hay override, y falla (o no) después en la capa de datos.
func TestCanAccessTenant_NoInspeccionaExistencia(t *testing.T) {
	super := rbac.UserContext{Role: entity.RoleSuperAdmin}
	assert.True(t, super.CanAccessTenant("no-existe-en-db"))
}
