package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendorflow/vendorflow-api/internal/application/session"
	apphttp "github.com/vendorflow/vendorflow-api/internal/interfaces/http"
)

func buildGateApp() *fiber.App {
	app := fiber.New()
	h := apphttp.NewDashboardHandler(
		session.NewResolver(nil),
		session.DefaultDestinations,
		zerolog.Nop(),
	)
	app.Get("/dashboard", h.Gate)
	return app
}

// sessionCookie encodes a session payload the way the login handler writes it.
func sessionCookie(t *testing.T, name string, s session.Session) *http.Cookie {
	t.Helper()
	payload, err := json.Marshal(s)
	require.NoError(t, err)
	return &http.Cookie{Name: name, Value: url.QueryEscape(string(payload))}
}

func gateRequest(t *testing.T, app *fiber.App, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGate_NoSession_RedirectsToLogin(t *testing.T) {
	app := buildGateApp()
	resp := gateRequest(t, app)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth?mode=login", resp.Header.Get("Location"))
}

func TestGate_VendorSession_RedirectsToVendorDashboard(t *testing.T) {
	app := buildGateApp()
	resp := gateRequest(t, app, sessionCookie(t, "user", session.Session{
		UserID: "u1", Email: "v@vendorflow.test", Role: "vendor", TenantID: "t1",
	}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/vendor", resp.Header.Get("Location"))
}

func TestGate_SupplierSession_RedirectsToSupplierDashboard(t *testing.T) {
	app := buildGateApp()
	resp := gateRequest(t, app, sessionCookie(t, "user", session.Session{
		UserID: "u2", Email: "s@vendorflow.test", Role: "supplier", TenantID: "t1",
	}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/supplier", resp.Header.Get("Location"))
}

func TestGate_AdminSession_Admitted(t *testing.T) {
	app := buildGateApp()
	resp := gateRequest(t, app, sessionCookie(t, "user", session.Session{
		UserID: "u3", Email: "a@vendorflow.test", Role: "admin", TenantID: "t9",
	}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "default", body["dashboard"])
	assert.Equal(t, "admin", body["role"])
	assert.Equal(t, "t9", body["tenant_id"])
}

func TestGate_FallbackCookieKey_StillResolves(t *testing.T) {
	app := buildGateApp()
	// Nothing under "user"; the resolver probes "userData" next.
	resp := gateRequest(t, app, sessionCookie(t, "userData", session.Session{
		UserID: "u4", Email: "v2@vendorflow.test", Role: "vendor", TenantID: "t1",
	}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard/vendor", resp.Header.Get("Location"))
}

func TestGate_MalformedCookie_RedirectsToLogin(t *testing.T) {
	app := buildGateApp()
	resp := gateRequest(t, app, &http.Cookie{Name: "user", Value: "not-json"})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth?mode=login", resp.Header.Get("Location"))
}

func TestGate_UnknownRole_Admitted(t *testing.T) {
	app := buildGateApp()
	resp := gateRequest(t, app, sessionCookie(t, "user", session.Session{
		UserID: "u5", Email: "x@vendorflow.test", Role: "auditor", TenantID: "t1",
	}))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
