package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inmobiliaria-api/internal/application/audit"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/entity"
	"github.com/jhoicas/inmobiliaria-api/internal/domain/rbac"
	httpapi "github.com/jhoicas/inmobiliaria-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inmobiliaria-api/pkg/jwt"
	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
)

const testSecret = "middleware-test-secret"

func nopRecorder() *audit.Recorder {
	return audit.NewRecorder(nil, logger.Nop())
}

// gateApp arma una app mínima con la cadena de middlewares bajo prueba y un
// handler final que confirma el paso devolviendo el UserContext visto.
func gateApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		user, _ := httpapi.GetUserContext(c)
		return c.JSON(fiber.Map{"role": user.Role, "tenant_id": user.TenantID})
	})
	app.Get("/protegida", chain...)
	return app
}

func tokenForRole(t *testing.T, role, tenantID, buildingID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testSecret, "u-"+role, role+"@x.com", role, tenantID, buildingID, 60)
	require.NoError(t, err)
	return tok
}

func doGet(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := gateApp(httpapi.AuthMiddleware(testSecret, nopRecorder()))

	resp := doGet(t, app, "/protegida", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := gateApp(httpapi.AuthMiddleware(testSecret, nopRecorder()))

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set("Authorization", "Basic abc123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenAlterado(t *testing.T) {
	app := gateApp(httpapi.AuthMiddleware(testSecret, nopRecorder()))

	tok := tokenForRole(t, entity.RoleAdmin, "tenant-1", "")
	resp := doGet(t, app, "/protegida", tok+"x")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretAjeno(t *testing.T) {
	app := gateApp(httpapi.AuthMiddleware(testSecret, nopRecorder()))

	otro, err := pkgjwt.Generate("otro-secret", "u-1", "a@x.com", entity.RoleAdmin, "", "", 60)
	require.NoError(t, err)
	resp := doGet(t, app, "/protegida", otro)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := gateApp(httpapi.AuthMiddleware(testSecret, nopRecorder()))

	tok, err := pkgjwt.Generate(testSecret, "u-1", "a@x.com", entity.RoleAdmin, "", "", -1)
	require.NoError(t, err)
	resp := doGet(t, app, "/protegida", tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ContextoDesdeClaims(t *testing.T) {
	var seen rbac.UserContext
	app := fiber.New()
	app.Get("/protegida",
		httpapi.AuthMiddleware(testSecret, nopRecorder()),
		func(c *fiber.Ctx) error {
			seen, _ = httpapi.GetUserContext(c)
			return c.SendStatus(fiber.StatusOK)
		})

	tok := tokenForRole(t, entity.RoleSales, "tenant-7", "bldg-3")
	resp := doGet(t, app, "/protegida", tok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, entity.RoleSales, seen.Role)
	assert.Equal(t, "tenant-7", seen.TenantID)
	assert.Equal(t, "bldg-3", seen.BuildingID)
	assert.Equal(t, "sales@x.com", seen.Email)
}

// La jerarquía autoriza por rango: admin alcanza rutas de receptionist,
// tenant no alcanza rutas de admin.
func TestRequireRole_Jerarquia(t *testing.T) {
	rec := nopRecorder()
	app := gateApp(
		httpapi.AuthMiddleware(testSecret, rec),
		httpapi.RequireRole(rec, entity.RoleReceptionist),
	)

	casos := []struct {
		role string
		want int
	}{
		{entity.RoleSuperAdmin, fiber.StatusOK},
		{entity.RoleAdmin, fiber.StatusOK},
		{entity.RoleSales, fiber.StatusOK},
		{entity.RoleMaintenance, fiber.StatusOK},
		{entity.RoleReceptionist, fiber.StatusOK},
		{entity.RoleTenant, fiber.StatusForbidden},
	}
	for _, tc := range casos {
		resp := doGet(t, app, "/protegida", tokenForRole(t, tc.role, "", ""))
		assert.Equal(t, tc.want, resp.StatusCode, "rol %s contra receptionist", tc.role)
	}
}

func TestRequireRole_RolDesconocido(t *testing.T) {
	rec := nopRecorder()
	app := gateApp(
		httpapi.AuthMiddleware(testSecret, rec),
		httpapi.RequireRole(rec, entity.RoleTenant),
	)

	// un rol fuera del catálogo nunca autoriza, ni contra el rango más bajo
	resp := doGet(t, app, "/protegida", tokenForRole(t, "gerente", "", ""))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireAnyRole_CualquieraDeLaLista(t *testing.T) {
	rec := nopRecorder()
	app := gateApp(
		httpapi.AuthMiddleware(testSecret, rec),
		httpapi.RequireAnyRole(rec, entity.RoleMaintenance, entity.RoleReceptionist),
	)

	// basta con alcanzar UNO de los requeridos
	resp := doGet(t, app, "/protegida", tokenForRole(t, entity.RoleReceptionist, "", ""))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/protegida", tokenForRole(t, entity.RoleTenant, "", ""))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireTenantAccess_SoloSuperAdminCruzaTenants(t *testing.T) {
	rec := nopRecorder()
	pick := func(c *fiber.Ctx) string { return c.Query("tenant") }
	app := gateApp(
		httpapi.AuthMiddleware(testSecret, rec),
		httpapi.RequireTenantAccess(rec, pick),
	)

	// admin en su propio tenant: pasa
	resp := doGet(t, app, "/protegida?tenant=tenant-1", tokenForRole(t, entity.RoleAdmin, "tenant-1", ""))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// admin contra tenant ajeno: NO cruza (el override de tenant es solo super_admin)
	resp = doGet(t, app, "/protegida?tenant=tenant-2", tokenForRole(t, entity.RoleAdmin, "tenant-1", ""))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doGet(t, app, "/protegida?tenant=tenant-2", tokenForRole(t, entity.RoleSuperAdmin, "", ""))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireBuildingAccess_AdminTambienCruzaEdificios(t *testing.T) {
	rec := nopRecorder()
	pick := func(c *fiber.Ctx) string { return c.Query("building") }
	app := gateApp(
		httpapi.AuthMiddleware(testSecret, rec),
		httpapi.RequireBuildingAccess(rec, pick),
	)

	// a diferencia del scope de tenant, aquí admin también tiene override
	resp := doGet(t, app, "/protegida?building=bldg-9", tokenForRole(t, entity.RoleAdmin, "tenant-1", "bldg-1"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/protegida?building=bldg-9", tokenForRole(t, entity.RoleSales, "tenant-1", "bldg-1"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doGet(t, app, "/protegida?building=bldg-1", tokenForRole(t, entity.RoleSales, "tenant-1", "bldg-1"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireTenantAccess_SinDestinoPasa(t *testing.T) {
	rec := nopRecorder()
	pick := func(c *fiber.Ctx) string { return "" }
	app := gateApp(
		httpapi.AuthMiddleware(testSecret, rec),
		httpapi.RequireTenantAccess(rec, pick),
	)

	resp := doGet(t, app, "/protegida", tokenForRole(t, entity.RoleTenant, "tenant-1", ""))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
