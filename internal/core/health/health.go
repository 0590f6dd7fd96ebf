// Package health serves liveness and readiness probes.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type Report struct {
	Status        Status  `json:"status"`
	Checks        []Check `json:"checks"`
	Version       string  `json:"version,omitempty"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

// CheckFunc reports a dependency as unhealthy by returning an error.
type CheckFunc func(ctx context.Context) error

type Handler struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	version string
	start   time.Time
	timeout time.Duration
}

func NewHandler(version string) *Handler {
	return &Handler{checks: map[string]CheckFunc{}, version: version, start: time.Now(), timeout: 2 * time.Second}
}

func (h *Handler) Register(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = fn
}

// Run executes every registered check, sorted by name.
func (h *Handler) Run(ctx context.Context) Report {
	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	fns := make(map[string]CheckFunc, len(h.checks))
	for k, v := range h.checks {
		fns[k] = v
	}
	h.mu.RUnlock()
	sort.Strings(names)

	rep := Report{Status: StatusHealthy, Checks: make([]Check, 0, len(names)), Version: h.version}
	for _, n := range names {
		cctx, cancel := context.WithTimeout(ctx, h.timeout)
		start := time.Now()
		err := fns[n](cctx)
		cancel()

		c := Check{Name: n, Status: StatusHealthy, DurationMs: time.Since(start).Milliseconds()}
		if err != nil {
			c.Status, c.Message = StatusUnhealthy, err.Error()
			rep.Status = StatusUnhealthy
		}
		rep.Checks = append(rep.Checks, c)
	}
	rep.UptimeSeconds = int64(time.Since(h.start).Seconds())
	return rep
}

// Health reports every check with 503 when any failed.
func (h *Handler) Health(c *gin.Context) {
	rep := h.Run(c.Request.Context())
	code := http.StatusOK
	if rep.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, rep)
}

// Ready is Health without the body.
func (h *Handler) Ready(c *gin.Context) {
	if h.Run(c.Request.Context()).Status != StatusHealthy {
		c.String(http.StatusServiceUnavailable, "not ready")
		return
	}
	c.String(http.StatusOK, "ready")
}

func Live(c *gin.Context) { c.String(http.StatusOK, "ok") }
