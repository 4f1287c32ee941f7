package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	apphttp "github.com/jhoicas/inventario-sedes/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-sedes/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testSedeID    = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventario-sedes-test"
	testExpMin    = 60
)

// buildTestApp monta /protected detrás de AuthMiddleware y RequireRole(allowedRoles...).
// El handler devuelve la identidad que verían los casos de uso.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			id := apphttp.Identity(c)
			return c.JSON(fiber.Map{"user_id": id.UserID, "sede_id": id.SedeID, "role": id.Role, "admin": id.IsAdmin()})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testSedeID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuth_Roles(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testSedeID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, testSedeID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	tests := []struct {
		name    string
		allowed []string
		auth    string
		status  int
		code    string
	}{
		{"admin en ruta de admin", []string{entity.RoleAdmin}, tokenForRole(t, entity.RoleAdmin), fiber.StatusOK, ""},
		{"bodeguero en ruta de bodega", []string{entity.RoleAdmin, entity.RoleBodeguero}, tokenForRole(t, entity.RoleBodeguero), fiber.StatusOK, ""},
		{"vendedor en ruta de bodega", []string{entity.RoleAdmin, entity.RoleBodeguero}, tokenForRole(t, entity.RoleVendedor), fiber.StatusForbidden, "FORBIDDEN"},
		{"bodeguero en ruta de admin", []string{entity.RoleAdmin}, tokenForRole(t, entity.RoleBodeguero), fiber.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{entity.RoleAdmin}, tokenForRole(t, ""), fiber.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", []string{entity.RoleAdmin}, "", fiber.StatusUnauthorized, "MISSING_TOKEN"},
		{"esquema distinto de Bearer", []string{entity.RoleAdmin}, "Basic dXNlcjpwYXNz", fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", []string{entity.RoleAdmin}, "Bearer token.invalido.aqui", fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", []string{entity.RoleAdmin}, "Bearer " + expired, fiber.StatusUnauthorized, "INVALID_TOKEN"},
		{"firmado con otro secreto", []string{entity.RoleAdmin}, "Bearer " + otherSecret, fiber.StatusUnauthorized, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(tt.allowed...), tt.auth)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.code == "" {
				return
			}
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

func TestAuth_IdentidadDesdeClaims(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleVendedor} {
		resp := doRequest(t, buildTestApp(entity.RoleAdmin, entity.RoleVendedor), tokenForRole(t, role))
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			UserID string `json:"user_id"`
			SedeID string `json:"sede_id"`
			Role   string `json:"role"`
			Admin  bool   `json:"admin"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, testUserID, body.UserID)
		assert.Equal(t, testSedeID, body.SedeID)
		assert.Equal(t, role, body.Role)
		assert.Equal(t, role == entity.RoleAdmin, body.Admin)
	}
}
