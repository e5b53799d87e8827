package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SatyaPujith/Spotlight/internal/cache"
	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/database"
	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/logger"
	"github.com/SatyaPujith/Spotlight/internal/services"
	"github.com/SatyaPujith/Spotlight/internal/yelp"
)

type fixedGenerator struct {
	text  string
	err   error
	calls int
}

func (g *fixedGenerator) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &llm.Response{Text: g.text}, nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:              "handler-secret",
		JWTAccessTokenExpireMin:   60,
		JWTRefreshTokenExpireDays: 30,
	}
}

func newChatApp(gen llm.Generator) *fiber.App {
	tools := services.NewToolExecutor(yelp.NewDirectory(nil, logger.Nop()), logger.Nop())
	svc := services.NewChatService(gen, cache.New(time.Minute, 10), tools, logger.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupChatRoutes(app.Group("/api"), svc)
	return app
}

func newAccountApp(db *database.DB) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupAccountRoutes(app.Group("/api"), db, testConfig())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	gen := &fixedGenerator{}
	app := newChatApp(gen)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", "", map[string]any{"message": "   "})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Message is required", body["error"])
	assert.Zero(t, gen.calls)
}

func TestChatWithoutModel(t *testing.T) {
	app := newChatApp(nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", "", map[string]any{"message": "hi"})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, configErrorMessage, body["error"])
	assert.Nil(t, body["fallback"])
}

func TestChatDirectReply(t *testing.T) {
	gen := &fixedGenerator{text: `{"message":"Hello there!","type":"idle"}`}
	app := newChatApp(gen)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", "", map[string]any{"message": "hello"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello there!", body["message"])
	assert.Equal(t, "idle", body["type"])
	assert.Equal(t, string(services.PathDirect), resp.Header.Get("X-Spotlight-Path"))
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	// second identical message is answered from cache
	resp, _ = doJSON(t, app, http.MethodPost, "/api/chat", "", map[string]any{"message": "hello"})
	assert.Equal(t, string(services.PathCached), resp.Header.Get("X-Spotlight-Path"))
	assert.Equal(t, 1, gen.calls)
}

func TestChatUpstreamFailure(t *testing.T) {
	gen := &fixedGenerator{err: &llm.StatusError{Code: 500, Message: "internal"}}
	app := newChatApp(gen)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", "", map[string]any{"message": "find me ramen in Boston with outdoor seating"})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, upstreamUnavailableText, body["error"])
	assert.Equal(t, true, body["fallback"])
}

func TestChatRateLimitedDegrades(t *testing.T) {
	gen := &fixedGenerator{err: &llm.StatusError{Code: 429, Message: "quota"}}
	app := newChatApp(gen)

	resp, body := doJSON(t, app, http.MethodPost, "/api/chat", "", map[string]any{"message": "find me ramen in Boston with outdoor seating"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, string(services.PathDegraded), resp.Header.Get("X-Spotlight-Path"))
	assert.NotEmpty(t, body["message"])
}

func TestAccountRoutesWithoutDatabase(t *testing.T) {
	app := newAccountApp(nil)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/auth/login"},
		{http.MethodGet, "/api/auth/profile"},
		{http.MethodGet, "/api/saved-businesses"},
		{http.MethodDelete, "/api/saved-businesses/abc"},
	} {
		resp, body := doJSON(t, app, tc.method, tc.path, "", nil)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode, tc.path)
		assert.Equal(t, "Database unavailable", body["error"], tc.path)
	}
}

func TestRegisterLoginProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("bcrypt is slow")
	}
	app := newAccountApp(newTestDB(t))

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ada"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Name, email, and password are required", body["error"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ada", "email": "ada@example.com", "password": "abc"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ada", "email": "ada@example.com", "password": "hunter22"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]any{"name": "Ada", "email": "ada@example.com", "password": "hunter22"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists with this email", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ada@example.com", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ada@example.com", "password": "hunter22"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = doJSON(t, app, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "Ada", user["name"])
	assert.Nil(t, user["password"])
}

func TestProfileRequiresToken(t *testing.T) {
	app := newAccountApp(newTestDB(t))

	resp, body := doJSON(t, app, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Access token required", body["error"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/auth/profile", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestSavedBusinessesFlow(t *testing.T) {
	app := newAccountApp(newTestDB(t))

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/guest", "", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = doJSON(t, app, http.MethodPost, "/api/saved-businesses", token, map[string]any{"business": map[string]any{"name": "No id"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Business data is required", body["error"])

	card := map[string]any{"id": "lou", "name": "Lou Malnati's", "rating": 4.6, "tags": []string{"Deep dish"}}
	resp, body = doJSON(t, app, http.MethodPost, "/api/saved-businesses", token, map[string]any{"business": card})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Business saved successfully", body["message"])

	resp, body = doJSON(t, app, http.MethodPost, "/api/saved-businesses", token, map[string]any{"business": card})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Business already saved or user not found", body["error"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/saved-businesses", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	saved, _ := body["savedBusinesses"].([]any)
	require.Len(t, saved, 1)
	first, _ := saved[0].(map[string]any)
	assert.Equal(t, "lou", first["id"])
	assert.NotEmpty(t, first["savedAt"])

	resp, body = doJSON(t, app, http.MethodDelete, "/api/saved-businesses/lou", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Business removed successfully", body["message"])

	resp, body = doJSON(t, app, http.MethodDelete, "/api/saved-businesses/lou", token, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Business not found in saved list", body["error"])
}

func TestReadinessCheck(t *testing.T) {
	app := fiber.New()
	app.Get("/ready", ReadinessCheck(nil, false))
	app.Get("/ready-model", ReadinessCheck(newTestDB(t), true))

	resp, body := doJSON(t, app, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "disabled", body["database"])
	assert.Equal(t, "missing", body["model"])

	resp, body = doJSON(t, app, http.MethodGet, "/ready-model", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "up", body["database"])
}
