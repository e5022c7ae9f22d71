package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"moodchef/internal/config"
	"moodchef/internal/recipe"
)

func testConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{LogLevel: "info", LogFormat: "json"},
		Server: config.ServerConfig{
			Address:           "127.0.0.1:0",
			GenerateTimeout:   5 * time.Second,
			StoreTimeout:      time.Second,
			ShutdownTimeout:   time.Second,
			ReadHeaderTimeout: time.Second,
		},
		Backend: config.BackendConfig{Provider: config.ProviderOpenAI, BaseURL: backendURL},
		Store:   config.StoreConfig{Kind: config.StoreSQLite, Path: filepath.Join(t.TempDir(), "moodchef.db")},
	}
}

func TestNew_GenerateAndSaveThroughHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"name\":\"Spiced Tea\",\"ingredients\":[\"tea\"],\"instructions\":[\"Steep\"],\"explanation\":\"Warm\"}"}}]}`))
	}))
	defer backend.Close()

	a, err := New(context.Background(), testConfig(t, backend.URL), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	handler := a.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/recipe", strings.NewReader(`{"mood":"cozy"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Spiced Tea"`)

	r, err := a.Service.Generate(context.Background(), recipe.Request{Mood: "cozy"})
	require.NoError(t, err)
	_, err = a.Store.Save(context.Background(), *r)
	require.NoError(t, err)
	assert.Len(t, a.Store.List(context.Background()), 1)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `moodchef_generations_total{outcome="ok"} 2`)
}

func TestNew_MemoryStoreAndGemini(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Backend.Provider = config.ProviderGemini
	cfg.Store.Kind = config.StoreMemory

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Service.Generate(context.Background(), recipe.Request{Mood: "cozy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, recipe.ErrBackend)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNew_UnknownStore(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Store.Kind = "cassandra"

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Store.Kind = config.StoreMemory

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
