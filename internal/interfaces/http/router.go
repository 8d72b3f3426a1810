package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/application/auth"
	"github.com/jhoicas/inmobiliaria-api/internal/application/usecase"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	BuildingUC *usecase.BuildingUseCase
	Health     *HealthHandler
	Recorder   *audit.Recorder
	Log        *logger.Logger
	JWTSecret  string
}

// Router registra las rutas de la API. CORS permisivo (el default de fiber
// responde Access-Control-Allow-Origin: *).
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(cors.New())

	// Health (público)
	app.Get("/health", deps.Health.Serve)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	app.Post("/auth/login", authHandler.Login)

	// Usuarios: Bearer + rol >= admin
	userHandler := NewUserHandler(deps.UserUC, deps.Log)
	users := app.Group("/users",
		AuthMiddleware(deps.JWTSecret, deps.Recorder),
		RequireRole(deps.Recorder, entity.RoleAdmin),
	)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Deactivate)

	// Edificios: lectura para cualquier rol de staff, alta solo admin+
	// con chequeo de scope de tenant contra el cuerpo de la petición.
	buildingHandler := NewBuildingHandler(deps.BuildingUC, deps.Log)
	buildings := app.Group("/buildings", AuthMiddleware(deps.JWTSecret, deps.Recorder))
	buildings.Get("/", RequireRole(deps.Recorder, entity.RoleReceptionist), buildingHandler.List)
	buildings.Post("/",
		RequireRole(deps.Recorder, entity.RoleAdmin),
		RequireTenantAccess(deps.Recorder, tenantFromBody),
		buildingHandler.Create,
	)
}

// tenantFromBody extrae el tenant destino del cuerpo JSON sin consumirlo.
func tenantFromBody(c *fiber.Ctx) string {
	var in struct {
		TenantID string `json:"tenant_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return ""
	}
	return in.TenantID
}
