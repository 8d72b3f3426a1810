package dto

import "time"

// CreateBuildingRequest entrada para crear un edificio.
type CreateBuildingRequest struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Units    int    `json:"units"`
}

// BuildingResponse salida de un edificio.
type BuildingResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Units     int       `json:"units"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BuildingListResponse listado paginado de edificios.
type BuildingListResponse struct {
	Items []BuildingResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
