package rbac

import "github.com/jhoicas/inmobiliaria-api/internal/domain/entity"

// roleRanks es la única fuente de verdad de la jerarquía: orden total,
// estrictamente monótono e inyectivo sobre los seis roles.
var roleRanks = map[string]int{
	entity.RoleSuperAdmin:   6,
	entity.RoleAdmin:        5,
	entity.RoleSales:        4,
	entity.RoleMaintenance:  3,
	entity.RoleReceptionist: 2,
	entity.RoleTenant:       1,
}

// Rank devuelve la posición del rol en la jerarquía. Un rol desconocido
// devuelve -1 y por tanto falla cualquier chequeo de autorización.
func Rank(role string) int {
	if r, ok := roleRanks[role]; ok {
		return r
	}
	return -1
}

// HasRole indica si actual alcanza el rol requerido: rank(actual) >= rank(required),
// no igualdad. "tener rol admin" lo cumplen admin y super_admin.
func HasRole(actual, required string) bool {
	ar := Rank(actual)
	if ar < 0 {
		return false
	}
	return ar >= Rank(required)
}

// HasAnyRole indica si actual alcanza ALGUNO de los roles listados
// (semántica ANY-of). Lista vacía: no autoriza a nadie.
func HasAnyRole(actual string, required ...string) bool {
	for _, r := range required {
		if HasRole(actual, r) {
			return true
		}
	}
	return false
}

// UserContext es la identidad verificada de una petición. Se construye
// únicamente a partir de claims validados por el verificador de tokens;
// nunca desde headers crudos.
type UserContext struct {
	UserID     string
	Email      string
	Role       string
	TenantID   string
	BuildingID string
}

// CanAccessTenant decide si el usuario puede operar sobre el tenant destino.
// Pasa si el rol es el tope de la jerarquía (solo super_admin), si no se
// pidió scoping (target vacío) o si el scope asignado coincide. No valida
// que el tenant destino exista.
func (u UserContext) CanAccessTenant(targetTenantID string) bool {
	if u.Role == entity.RoleSuperAdmin {
		return true
	}
	if targetTenantID == "" {
		return true
	}
	return u.TenantID == targetTenantID
}

// CanAccessBuilding decide si el usuario puede operar sobre el edificio
// destino. El override cubre los DOS rangos superiores (super_admin y
// admin), a diferencia del de tenant que solo exime a super_admin.
func (u UserContext) CanAccessBuilding(targetBuildingID string) bool {
	if u.Role == entity.RoleSuperAdmin || u.Role == entity.RoleAdmin {
		return true
	}
	if targetBuildingID == "" {
		return true
	}
	return u.BuildingID == targetBuildingID
}
