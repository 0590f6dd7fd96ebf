package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"produce-market/internal/core/config"
	"produce-market/internal/core/health"
	"produce-market/internal/core/server"
	"produce-market/internal/metrics"
	"produce-market/internal/service"
	"produce-market/internal/transport/http/handler"
	mdw "produce-market/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	Users    *service.UserService
	Orders   *service.OrderService
	Products *service.ProductService
	Contacts *service.ContactService
	Health   *health.Handler

	// HTTPMetrics and Gatherer default to the prometheus globals.
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Limits       config.Limits
	AllowOrigins []string
	TokenTTL     time.Duration
	CookieSecure bool
}

// NewAPIEngine builds the storefront engine. Zero limits disable the
// corresponding middleware.
func NewAPIEngine(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.HTTPMetrics == nil {
		d.HTTPMetrics = metrics.NewHTTPMetrics()
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.Health == nil {
		d.Health = health.NewHandler("")
	}

	r := server.NewRouter(d.Log, server.Options{AllowOrigins: d.AllowOrigins})
	r.Use(mdw.RequestID())
	if l := d.Limits; l.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(l.RPS), max(l.Burst, 1)))
	}
	if l := d.Limits; l.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(l.PerIPRPS), max(l.PerIPBurst, 1)))
	}
	if d.Limits.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(d.Limits.MaxConcurrent))
	}
	if d.Limits.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(d.Limits.MaxBodyBytes))
	}
	if d.Limits.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(d.Limits.TimeoutSec) * time.Second))
	}
	r.Use(
		mdw.Recovery(d.Log),
		mdw.Metrics(d.HTTPMetrics),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", d.Health.Health)
	r.GET("/livez", health.Live)
	r.GET("/readyz", d.Health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1")
	public := api.Group("", mdw.OptionalAuth(d.Users))
	authed := api.Group("", mdw.Auth(d.Users))

	var reg Registry
	reg.Register(
		handler.NewUserHandler(d.Users, d.TokenTTL, d.CookieSecure),
		handler.NewProductHandler(d.Products),
		handler.NewOrderHandler(d.Orders),
		handler.NewContactHandler(d.Contacts),
	)
	reg.MountAll(public, authed)
	return r
}
