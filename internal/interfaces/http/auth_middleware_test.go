package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/workbench-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/workbench-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "workbench-hid-test"
	testWorkbench = 3
)

// buildHIDApp ruta protegida por HIDAuth para el emisor indicado.
func buildHIDApp(secret, sender string) *fiber.App {
	app := fiber.New()
	app.Post("/event", apphttp.HIDAuth(secret, testWorkbench, sender), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "sender": apphttp.GetSender(c)})
	})
	return app
}

func tokenFor(t *testing.T, sender string, workbench int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, sender, workbench, testIssuer, 60)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func postEvent(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/event", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests HIDAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestHIDAuth_EmisorCorrectoPasa(t *testing.T) {
	app := buildHIDApp(testJWTSecret, "barcode_reader")
	resp := postEvent(t, app, tokenFor(t, "barcode_reader", testWorkbench))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "barcode_reader", body["sender"])
}

func TestHIDAuth_TokenSinEstacionValeParaTodas(t *testing.T) {
	app := buildHIDApp(testJWTSecret, "rfid_reader")
	resp := postEvent(t, app, tokenFor(t, "rfid_reader", 0))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHIDAuth_OtroEmisorRetorna403(t *testing.T) {
	app := buildHIDApp(testJWTSecret, "barcode_reader")
	resp := postEvent(t, app, tokenFor(t, "rfid_reader", testWorkbench))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un token del lector RFID no debe servir para eventos de código de barras")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestHIDAuth_OtraEstacionRetorna403(t *testing.T) {
	app := buildHIDApp(testJWTSecret, "barcode_reader")
	resp := postEvent(t, app, tokenFor(t, "barcode_reader", testWorkbench+1))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHIDAuth_SinHeaderRetorna401(t *testing.T) {
	resp := postEvent(t, buildHIDApp(testJWTSecret, "barcode_reader"), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestHIDAuth_TokenInvalidoRetorna401(t *testing.T) {
	app := buildHIDApp(testJWTSecret, "barcode_reader")
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := postEvent(t, app, header)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestHIDAuth_TokenFirmadoConOtroSecretRetorna401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", "barcode_reader", testWorkbench, testIssuer, 60)
	require.NoError(t, err)

	resp := postEvent(t, buildHIDApp(testJWTSecret, "barcode_reader"), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHIDAuth_SinSecretNoExigeToken(t *testing.T) {
	resp := postEvent(t, buildHIDApp("", "barcode_reader"), "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
