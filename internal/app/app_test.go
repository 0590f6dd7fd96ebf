package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"produce-market/internal/core/config"
	"produce-market/internal/domain"
	"produce-market/internal/service"
)

func memoryConfig() *config.Config {
	return &config.Config{
		DB:  config.DB{Driver: "memory", AutoMigrate: true},
		JWT: config.JWT{Secret: "s", Issuer: "produce-market", AccessTokenTTLMin: 60},
	}
}

func TestNewWithMemoryBackend(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := New(context.Background(), memoryConfig(), zaptest.NewLogger(t), Options{Registerer: reg, Gatherer: reg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Equal(t, "memory", a.Backend.Driver)
	assert.Nil(t, a.Backend.Tx)

	w := httptest.NewRecorder()
	a.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"store"`)
	assert.NotContains(t, w.Body.String(), `"redis"`)

	admin, err := a.Users.Register(context.Background(), service.RegisterInput{
		FullName: "Ops", Email: "ops@farm.io", PhoneNumber: "1", Password: "pw", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestOpenBackendRejectsUnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.DB.Driver = "sqlite"
	_, err := OpenBackend(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestMemoryBackendLifecycle(t *testing.T) {
	b, err := OpenBackend(context.Background(), memoryConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()
	assert.NoError(t, b.Migrate(ctx))
	assert.NoError(t, b.Ping(ctx))
	assert.NoError(t, b.Close(ctx))
}
