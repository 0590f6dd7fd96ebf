package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"produce-market/internal/domain"
)

type stubAuth map[string]*domain.User

func (s stubAuth) Authenticate(_ context.Context, tok string) (*domain.User, error) {
	if u, ok := s[tok]; ok {
		return u, nil
	}
	return nil, domain.Unauthorized("Invalid token")
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/who", func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.ID)
			return
		}
		c.String(http.StatusOK, "anon")
	})
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_BearerAndCookie(t *testing.T) {
	r := newEngine(Auth(stubAuth{"good": {ID: "u1"}}))

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.AddCookie(&http.Cookie{Name: CookieToken, Value: "good"})
	assert.Equal(t, "u1", do(r, req).Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	r := newEngine(Auth(stubAuth{"good": {ID: "u1"}}))

	w := do(r, httptest.NewRequest(http.MethodGet, "/who", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	// a token without the Bearer scheme is ignored
	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "good")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newEngine(OptionalAuth(stubAuth{"good": {ID: "u1"}}))

	assert.Equal(t, "anon", do(r, httptest.NewRequest(http.MethodGet, "/who", nil)).Body.String())

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer bad")
	assert.Equal(t, "anon", do(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "bearer good")
	assert.Equal(t, "u1", do(r, req).Body.String())
}

func TestRateLimitPerIP_SeparatesClients(t *testing.T) {
	r := newEngine(RateLimitPerIP(rate.Every(time.Hour), 1))

	a := httptest.NewRequest(http.MethodGet, "/who", nil)
	a.RemoteAddr = "10.0.0.1:1234"
	b := httptest.NewRequest(http.MethodGet, "/who", nil)
	b.RemoteAddr = "10.0.0.2:1234"

	assert.Equal(t, http.StatusOK, do(r, a).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, a).Code)
	assert.Equal(t, http.StatusOK, do(r, b).Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/boom", func(*gin.Context) { panic(errors.New("boom")) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal error")
	assert.NotEmpty(t, w.Header().Get(KeyRequestID))
}

func TestRequestID_ReusesInbound(t *testing.T) {
	r := newEngine(RequestID())
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	assert.Equal(t, "abc-123", do(r, req).Header().Get(KeyRequestID))

	req = httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set(KeyRequestID, strings.Repeat("x", 100))
	assert.NotEqual(t, strings.Repeat("x", 100), do(r, req).Header().Get(KeyRequestID))
}

func TestMaxBodyBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/echo", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"address":"far too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(r, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := do(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	require.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestMask(t *testing.T) {
	got := mask(map[string][]string{"Password": {"p"}, "q": {"apples"}})
	assert.Equal(t, []string{"****"}, got["Password"])
	assert.Equal(t, []string{"apples"}, got["q"])
}
