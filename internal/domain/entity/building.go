package entity

import "time"

// Building representa un edificio administrado por un tenant del CRM.
type Building struct {
	ID        string
	TenantID  string
	Name      string
	Address   string
	Units     int
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
