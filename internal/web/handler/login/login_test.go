package login

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mushya-portal/mushya-portal/internal/auth"
	"github.com/mushya-portal/mushya-portal/internal/config"
	"github.com/mushya-portal/mushya-portal/internal/currency"
	"github.com/mushya-portal/mushya-portal/internal/store"
	"github.com/mushya-portal/mushya-portal/internal/web/handler"
	"github.com/mushya-portal/mushya-portal/internal/web/session"
)

func newTestConfig() *config.Config {
	return &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Auth: config.Auth{
			SeedPassword: "admin123",
			Code:         "123456",
		},
	}
}

func newTestApp(t *testing.T) (*fiber.App, *handler.Deps) {
	t.Helper()

	cfg := newTestConfig()
	kv := store.NewKV(store.NewMemory(), "mushya")

	svc, err := auth.NewService(store.NewUsers(kv), store.NewRoles(kv), auth.Options{
		SeedPassword: cfg.Auth.SeedPassword,
		Code:         cfg.Auth.Code,
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(auth.Middleware(svc, kv))

	deps := &handler.Deps{
		Cfg:      cfg,
		KV:       kv,
		Auth:     svc,
		Currency: currency.NewManager(kv),
	}

	var s Service
	require.NoError(t, s.Init(app, deps))

	return app, deps
}

func postJSON(t *testing.T, app *fiber.App, path, body string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}

	t.Fatal("no session cookie in response")

	return nil
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, Path, `{"email":"admin@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
}

func TestLoginUnknownAccount(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, Path, `{"email":"ghost@x.com","password":"admin123"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginMalformedBody(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, Path, `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyWithoutLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, VerifyPath, `{"code":"123456"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFullSignInFlow(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, Path, `{"email":"admin@x.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)

	var loginBody struct {
		State string `json:"state"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	assert.Equal(t, string(auth.StateAwaitingCode), loginBody.State)

	// Wrong code first; the candidate survives.
	resp = postJSON(t, app, VerifyPath, `{"code":"000000"}`, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, VerifyPath, `{"code":"123456"}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var verifyBody struct {
		State string `json:"state"`
		User  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		Permissions []string `json:"permissions"`
		Navigation  []struct {
			ID string `json:"id"`
		} `json:"navigation"`
	}
	require.NoError(t, json.Unmarshal(raw, &verifyBody))

	assert.Equal(t, string(auth.StateAuthenticated), verifyBody.State)
	assert.Equal(t, "user_admin", verifyBody.User.ID)
	assert.Equal(t, "admin@x.com", verifyBody.User.Email)
	assert.Contains(t, verifyBody.Permissions, "dashboard.view")
	assert.NotEmpty(t, verifyBody.Navigation)
}

func TestLoginIssuesFreshSessionID(t *testing.T) {
	app, deps := newTestApp(t)

	planted := &http.Cookie{Name: session.CookieName, Value: "attacker-chosen-id"}

	resp := postJSON(t, app, Path, `{"email":"admin@x.com","password":"admin123"}`, planted)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	assert.NotEqual(t, planted.Value, cookie.Value)

	resp = postJSON(t, app, VerifyPath, `{"code":"123456"}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The pre-auth ID holds no session record after sign-in.
	stale := auth.NewGate(deps.Auth, deps.KV, auth.SessionKey(planted.Value))
	require.NoError(t, stale.Hydrate())
	assert.Equal(t, auth.StateAnonymous, stale.State())
}

func TestViewerSignInNavigation(t *testing.T) {
	app, _ := newTestApp(t)

	resp := postJSON(t, app, Path, `{"email":"viewer@x.com","password":"admin123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)

	resp = postJSON(t, app, VerifyPath, `{"code":"123456"}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Navigation []struct {
			ID string `json:"id"`
		} `json:"navigation"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	ids := make([]string, 0, len(body.Navigation))
	for _, item := range body.Navigation {
		ids = append(ids, item.ID)
	}

	assert.Equal(t, []string{"dashboard", "reports"}, ids)
}
