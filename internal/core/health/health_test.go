package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/readyz", h.Ready)
	r.GET("/livez", Live)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthy(t *testing.T) {
	h := NewHandler("test")
	h.Register("store", func(context.Context) error { return nil })
	r := engine(h)

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var rep Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, StatusHealthy, rep.Status)
	require.Len(t, rep.Checks, 1)
	assert.Equal(t, "store", rep.Checks[0].Name)

	assert.Equal(t, http.StatusOK, get(r, "/readyz").Code)
}

func TestUnhealthy(t *testing.T) {
	h := NewHandler("test")
	h.Register("store", func(context.Context) error { return nil })
	h.Register("cache", func(context.Context) error { return errors.New("connection refused") })
	r := engine(h)

	w := get(r, "/health")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var rep Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rep))
	assert.Equal(t, StatusUnhealthy, rep.Status)
	assert.Equal(t, "cache", rep.Checks[0].Name)
	assert.Equal(t, "connection refused", rep.Checks[0].Message)

	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/readyz").Code)
	// liveness ignores dependencies
	assert.Equal(t, http.StatusOK, get(r, "/livez").Code)
}
