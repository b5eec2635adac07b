package vault

import (
	"context"
	"encoding/json"
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

func newTestApp(t *testing.T) (*fiber.App, *handler.Deps) {
	t.Helper()

	kv := store.NewKV(store.NewMemory(), "mushya")

	svc, err := auth.NewService(store.NewUsers(kv), store.NewRoles(kv), auth.Options{
		SeedPassword: "admin123",
		Code:         "123456",
	})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(auth.Middleware(svc, kv))

	deps := &handler.Deps{
		Cfg: &config.Config{
			DevMode:   true,
			Webserver: config.Webserver{Session: config.Session{ExpiryTime: time.Minute}},
		},
		KV:       kv,
		Auth:     svc,
		Currency: currency.NewManager(kv),
	}

	var s Service
	require.NoError(t, s.Init(app, deps))

	return app, deps
}

func signIn(t *testing.T, deps *handler.Deps, email string) *http.Cookie {
	t.Helper()

	sid := "test_" + strings.ReplaceAll(email, "@", "_")
	gate := auth.NewGate(deps.Auth, deps.KV, auth.SessionKey(sid))

	ok, err := gate.Login(context.Background(), email, "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = gate.VerifyCode(context.Background(), "123456")
	require.NoError(t, err)
	require.True(t, ok)

	return &http.Cookie{Name: session.CookieName, Value: sid}
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string, cookie *http.Cookie) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestVaultRequiresPermission(t *testing.T) {
	app, deps := newTestApp(t)

	resp := doRequest(t, app, http.MethodGet, Path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Viewer holds no vault permissions.
	cookie := signIn(t, deps, "viewer@x.com")
	resp = doRequest(t, app, http.MethodGet, Path, "", cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestVaultListMasksSecrets(t *testing.T) {
	app, deps := newTestApp(t)
	cookie := signIn(t, deps, "admin@x.com")

	resp := doRequest(t, app, http.MethodPost, Path,
		`{"title":"Bank portal","username":"treasury","password":"s3cret","category":"banking"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created store.VaultEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Empty(t, created.Password)
	assert.Equal(t, "user_admin", created.CreatedBy)

	resp = doRequest(t, app, http.MethodGet, Path, "", cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []store.VaultEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Password)
	assert.Nil(t, entries[0].LastAccessed)
}

func TestVaultReveal(t *testing.T) {
	app, deps := newTestApp(t)
	cookie := signIn(t, deps, "admin@x.com")

	resp := doRequest(t, app, http.MethodPost, Path,
		`{"title":"Bank portal","password":"s3cret"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created store.VaultEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	// Wrong code refuses the reveal.
	resp = doRequest(t, app, http.MethodPost, Path+"/"+created.ID+"/reveal", `{"code":"000000"}`, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, Path+"/"+created.ID+"/reveal", `{"code":"123456"}`, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var revealed store.VaultEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&revealed))
	assert.Equal(t, "s3cret", revealed.Password)
	assert.NotNil(t, revealed.LastAccessed)
}

func TestVaultRevealUnknownEntry(t *testing.T) {
	app, deps := newTestApp(t)
	cookie := signIn(t, deps, "admin@x.com")

	resp := doRequest(t, app, http.MethodPost, Path+"/cred_ghost/reveal", `{"code":"123456"}`, cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVaultDelete(t *testing.T) {
	app, deps := newTestApp(t)
	cookie := signIn(t, deps, "admin@x.com")

	resp := doRequest(t, app, http.MethodPost, Path, `{"title":"Old","password":"x"}`, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created store.VaultEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	resp = doRequest(t, app, http.MethodDelete, Path+"/"+created.ID, "", cookie)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, Path+"/"+created.ID, "", cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
