package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/mediashelf/internal/database"
	"github.com/mrlokans/mediashelf/internal/providers"
)

type fixedCircuits map[string]string

func (f fixedCircuits) CircuitStates() map[string]string { return f }

func setupHealthTestDB(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "health.db"), zap.NewNop())
	require.NoError(t, err)
	return db
}

func getHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("healthy with database and closed circuits", func(t *testing.T) {
		db := setupHealthTestDB(t)
		defer db.Close()

		circuits := fixedCircuits{"tmdb": "closed", "itunes": "half-open"}
		w, response := getHealth(t, NewHealthController(db, circuits, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Database)
		assert.Equal(t, map[string]string(circuits), response.Providers)
		assert.Empty(t, response.Open)
		_, err := time.Parse(time.RFC3339, response.Time)
		assert.NoError(t, err)
	})

	t.Run("open circuit degrades without failing", func(t *testing.T) {
		db := setupHealthTestDB(t)
		defer db.Close()

		circuits := fixedCircuits{"tmdb": "open", "googleBooks": "open", "itunes": "closed"}
		w, response := getHealth(t, NewHealthController(db, circuits, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "degraded", response.Status)
		assert.Equal(t, []string{"googleBooks", "tmdb"}, response.Open)
	})

	t.Run("nothing configured", func(t *testing.T) {
		w, response := getHealth(t, NewHealthController(nil, nil, ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "not configured", response.Database)
		assert.Empty(t, response.Providers)
	})

	t.Run("unhealthy when database connection is closed", func(t *testing.T) {
		db := setupHealthTestDB(t)
		require.NoError(t, db.Close())

		w, response := getHealth(t, NewHealthController(db, fixedCircuits{"tmdb": "open"}, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Database, "error")
	})
}

func TestHealthController_ReportsTrippedProvider(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	registry := providers.NewRegistry(providers.NewTMDB("key", upstream.URL, providers.ClientConfig{
		Timeout:         time.Second,
		BreakerFailures: 1,
		BreakerCooldown: time.Minute,
	}))

	p, err := registry.Resolve("tmdb")
	require.NoError(t, err)
	_, err = p.FetchDetail(context.Background(), "1")
	require.Error(t, err)

	_, response := getHealth(t, NewHealthController(nil, registry, ""))
	assert.Equal(t, "degraded", response.Status)
	assert.Equal(t, []string{"tmdb"}, response.Open)
	assert.Equal(t, "open", response.Providers["tmdb"])
}

func TestPing(t *testing.T) {
	router := gin.New()
	router.GET("/ping", Ping)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}
