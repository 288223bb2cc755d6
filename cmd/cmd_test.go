package cmd

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/codementor-api/config"
	"github.com/andrewpaige1/codementor-api/middleware"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig
	cfg.ProjectsDir = filepath.Join(t.TempDir(), "projects")
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	return &cfg
}

func TestNewCache(t *testing.T) {
	cfg := testConfig(t)
	db, err := config.Connect(cfg.Database)
	require.NoError(t, err)

	for _, backend := range []string{"memory", "database"} {
		cfg.Cache.Backend = backend
		c, err := newCache(cfg, db)
		require.NoError(t, err)
		assert.Equal(t, backend, c.Stats().Backend)
	}

	cfg.Cache.Backend = "redis"
	_, err = newCache(cfg, db)
	assert.Error(t, err)
}

func TestNewAPIHandler(t *testing.T) {
	cfg := testConfig(t)
	db, err := config.Connect(cfg.Database)
	require.NoError(t, err)

	cfg.Auth = config.AuthConfig{JWTSecret: "local-secret", AdminSubjects: []string{"local|root"}}
	h, err := newAPIHandler(cfg, db)
	require.NoError(t, err)
	assert.Equal(t, "local-secret", h.JWTSecret)
	assert.Equal(t, []string{"local|root"}, h.AdminSubjects)
	assert.Equal(t, cfg.MaxUploadSize, h.MaxUploadSize)
	assert.True(t, h.Env.IsDevelopment)

	cfg.Auth.Auth0Domain = "example.auth0.com"
	h, err = newAPIHandler(cfg, db)
	require.NoError(t, err)
	assert.Empty(t, h.JWTSecret, "local sessions are disabled when Auth0 issues tokens")

	cfg.ElevenLabs.DefaultVoice = "unknown"
	_, err = newAPIHandler(cfg, db)
	assert.Error(t, err)
}

func TestNewHTTPHandler(t *testing.T) {
	cfg := testConfig(t)
	db, err := config.Connect(cfg.Database)
	require.NoError(t, err)
	h, err := newAPIHandler(cfg, db)
	require.NoError(t, err)

	handler, err := newHTTPHandler(cfg, h)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
