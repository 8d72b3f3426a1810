package entity

import "time"

// Roles válidos para User. Conjunto cerrado: exactamente un rol por usuario.
const (
	RoleSuperAdmin   = "super_admin"
	RoleAdmin        = "admin"
	RoleSales        = "sales"
	RoleMaintenance  = "maintenance"
	RoleReceptionist = "receptionist"
	RoleTenant       = "tenant"
)

// ValidRoles lista los roles aceptados al crear o actualizar un usuario.
var ValidRoles = []string{
	RoleSuperAdmin, RoleAdmin, RoleSales, RoleMaintenance, RoleReceptionist, RoleTenant,
}

// IsValidRole indica si role pertenece al conjunto cerrado de roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User representa un usuario del CRM. El email se persiste siempre en
// minúsculas (índice único case-insensitive). TenantID y BuildingID son el
// scope del usuario: opcionales, en la práctica presentes solo para roles
// distintos de super_admin, pero nunca se validan como requeridos.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca serializado en respuestas
	Name         string
	Role         string
	TenantID     string
	BuildingID   string
	IsActive     bool     // inactivo: el login falla aun con credenciales correctas
	Modules      []string // tags de capacidad, advisory: el gate no los aplica
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
