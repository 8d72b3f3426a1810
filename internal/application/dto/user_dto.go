package dto

import "time"

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT y el usuario (sin password).
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en el use case).
type CreateUserRequest struct {
	Email      string   `json:"email"`
	Password   string   `json:"password"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	TenantID   string   `json:"tenant_id,omitempty"`
	BuildingID string   `json:"building_id,omitempty"`
	Modules    []string `json:"modules,omitempty"`
}

// UpdateUserRequest entrada para actualizar un usuario. Punteros: solo se
// tocan los campos presentes en el cuerpo.
type UpdateUserRequest struct {
	Email      *string   `json:"email,omitempty"`
	Name       *string   `json:"name,omitempty"`
	Role       *string   `json:"role,omitempty"`
	TenantID   *string   `json:"tenant_id,omitempty"`
	BuildingID *string   `json:"building_id,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
	Modules    *[]string `json:"modules,omitempty"`
}

// UserResponse salida de un usuario. Nunca incluye el hash de password.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	TenantID   string    `json:"tenant_id,omitempty"`
	BuildingID string    `json:"building_id,omitempty"`
	IsActive   bool      `json:"is_active"`
	Modules    []string  `json:"modules,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
