package entity

import "time"

// Categorías de eventos de auditoría.
const (
	AuditCategoryAuth  = "auth"
	AuditCategoryGate  = "gate"
	AuditCategoryAdmin = "admin"
)

// Tipos de evento.
const (
	AuditLoginSuccess       = "login_success"
	AuditLoginFailed        = "login_failed"
	AuditLoginRateLimited   = "login_rate_limited"
	AuditGateAllowed        = "gate_allowed"
	AuditGateMissingToken   = "gate_missing_token"
	AuditGateInvalidToken   = "gate_invalid_token"
	AuditGateRoleDenied     = "gate_role_denied"
	AuditGateScopeDenied    = "gate_scope_denied"
	AuditUserCreated        = "user_created"
	AuditUserUpdated        = "user_updated"
	AuditUserDeactivated    = "user_deactivated"
	AuditBuildingCreated    = "building_created"
)

// AuditEvent registra una decisión del gate o un evento de auth/admin:
// quién, qué ruta, qué decisión y cuándo.
type AuditEvent struct {
	ID         string
	Timestamp  time.Time
	Category   string
	EventType  string
	ActorID    string
	ActorEmail string
	Route      string
	Decision   string // "allow" | "deny"
	Reason     string // motivo real, solo server-side
	IP         string
	Success    bool
}
