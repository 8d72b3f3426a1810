package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/dto"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/rbac"
	"github.com/jhoicas/inmobiliaria-api/pkg/jwt"
)

// LocalUserContext clave de Locals bajo la que viaja el rbac.UserContext.
const LocalUserContext = "user_context"

// AuthMiddleware valida el Bearer Token JWT y deja en Locals el UserContext
// construido desde los claims verificados. Es la ÚNICA vía por la que se
// construye un UserContext: ningún handler reconstruye identidad desde
// headers crudos. Toda decisión (pass o reject) se registra en auditoría;
// la grabación nunca bloquea ni falla la petición.
//
// Rechazos: 401 con MISSING_TOKEN o INVALID_TOKEN. Expirado, alterado o con
// issuer/audience ajenos no se distinguen hacia el cliente.
func AuthMiddleware(jwtSecret string, rec *audit.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			recordGate(rec, c, entity.AuditGateMissingToken, "", "", "header Authorization ausente")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			recordGate(rec, c, entity.AuditGateInvalidToken, "", "", "formato de header inválido")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			recordGate(rec, c, entity.AuditGateMissingToken, "", "", "token vacío")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			// el motivo real (expirado/alterado/audience) solo va a auditoría
			recordGate(rec, c, entity.AuditGateInvalidToken, "", "", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserContext, rbac.UserContext{
			UserID:     claims.UserID,
			Email:      claims.Email,
			Role:       claims.Role,
			TenantID:   claims.TenantID,
			BuildingID: claims.BuildingID,
		})
		return c.Next()
	}
}

// GetUserContext devuelve el UserContext del contexto (tras AuthMiddleware).
// El segundo valor es false si el middleware no corrió.
func GetUserContext(c *fiber.Ctx) (rbac.UserContext, bool) {
	v := c.Locals(LocalUserContext)
	if v == nil {
		return rbac.UserContext{}, false
	}
	u, ok := v.(rbac.UserContext)
	return u, ok
}

// RequireRole autoriza si el rol del actor ALCANZA el requerido en la
// jerarquía (rank >=, no igualdad). Debe usarse después de AuthMiddleware.
func RequireRole(rec *audit.Recorder, required string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUserContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no verificada"})
		}
		if !rbac.HasRole(user.Role, required) {
			recordGate(rec, c, entity.AuditGateRoleDenied, user.UserID, user.Email,
				"rol "+user.Role+" no alcanza "+required)
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol insuficiente"})
		}
		recordGateAllow(rec, c, user)
		return c.Next()
	}
}

// RequireAnyRole autoriza si el actor alcanza ALGUNO de los roles listados
// (semántica ANY-of).
func RequireAnyRole(rec *audit.Recorder, required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUserContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no verificada"})
		}
		if !rbac.HasAnyRole(user.Role, required...) {
			recordGate(rec, c, entity.AuditGateRoleDenied, user.UserID, user.Email,
				"rol "+user.Role+" no alcanza ninguno de los requeridos")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol insuficiente"})
		}
		recordGateAllow(rec, c, user)
		return c.Next()
	}
}

// TargetPicker extrae de la petición el ID de scope destino. Devolver vacío
// significa "sin scoping pedido" y pasa.
type TargetPicker func(c *fiber.Ctx) string

// RequireTenantAccess verifica el scope de tenant contra el destino que
// extrae el picker. Solo super_admin tiene override global de tenant.
func RequireTenantAccess(rec *audit.Recorder, pick TargetPicker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUserContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no verificada"})
		}
		target := pick(c)
		if !user.CanAccessTenant(target) {
			recordGate(rec, c, entity.AuditGateScopeDenied, user.UserID, user.Email,
				"tenant destino "+target+" fuera del scope")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "fuera del scope del tenant"})
		}
		return c.Next()
	}
}

// RequireBuildingAccess verifica el scope de edificio. El override cubre
// super_admin Y admin (asimetría intencional con el de tenant).
func RequireBuildingAccess(rec *audit.Recorder, pick TargetPicker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUserContext(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no verificada"})
		}
		target := pick(c)
		if !user.CanAccessBuilding(target) {
			recordGate(rec, c, entity.AuditGateScopeDenied, user.UserID, user.Email,
				"edificio destino "+target+" fuera del scope")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "fuera del scope del edificio"})
		}
		return c.Next()
	}
}

func recordGate(rec *audit.Recorder, c *fiber.Ctx, eventType, actorID, actorEmail, reason string) {
	rec.Record(entity.AuditEvent{
		Category:   entity.AuditCategoryGate,
		EventType:  eventType,
		ActorID:    actorID,
		ActorEmail: actorEmail,
		Route:      c.Method() + " " + c.Path(),
		Decision:   "deny",
		Reason:     reason,
		IP:         c.IP(),
	})
}

func recordGateAllow(rec *audit.Recorder, c *fiber.Ctx, user rbac.UserContext) {
	rec.Record(entity.AuditEvent{
		Category:   entity.AuditCategoryGate,
		EventType:  entity.AuditGateAllowed,
		ActorID:    user.UserID,
		ActorEmail: user.Email,
		Route:      c.Method() + " " + c.Path(),
		Decision:   "allow",
		IP:         c.IP(),
		Success:    true,
	})
}
