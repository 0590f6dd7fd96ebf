// Package app assembles the storefront from configuration: storage backend,
// optional catalog cache, services and the HTTP engine.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"produce-market/internal/core/auth"
	"produce-market/internal/core/cache"
	"produce-market/internal/core/config"
	"produce-market/internal/core/health"
	"produce-market/internal/metrics"
	"produce-market/internal/service"
	"produce-market/internal/transport/http/router"
)

var Version = "dev"

type App struct {
	Engine  *gin.Engine
	Backend *Backend
	Users   *service.UserService

	cache *cache.Cache
	log   *zap.Logger
}

// Options override process-global defaults, mostly for tests.
type Options struct {
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// New opens the configured backend and builds the engine. Close releases
// what New opened.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger, o Options) (*App, error) {
	if o.Registerer == nil {
		o.Registerer = prometheus.DefaultRegisterer
	}
	if o.Gatherer == nil {
		o.Gatherer = prometheus.DefaultGatherer
	}

	b, err := OpenBackend(ctx, cfg, l)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := b.Migrate(ctx); err != nil {
			_ = b.Close(context.Background())
			return nil, err
		}
		l.Info("schema ready", zap.String("driver", b.Driver))
	}

	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		l.Info("catalog cache enabled", zap.String("redis", cfg.Redis.Addr))
	}

	a := &App{Backend: b, cache: c, log: l}
	a.Users = service.NewUserService(b.Store.Users, NewJWTer(cfg.JWT), l)

	orders := service.NewOrderService(b.Store, metrics.NewStoreMetricsWith(o.Registerer), l)
	if b.Tx != nil {
		orders = orders.WithTx(b.Tx)
	}

	hc := health.NewHandler(Version)
	hc.Register("store", b.Ping)
	if c != nil {
		hc.Register("redis", c.Ping)
	}

	a.Engine = router.NewAPIEngine(router.Deps{
		Log:          l,
		Users:        a.Users,
		Orders:       orders,
		Products:     service.NewProductService(b.Store.Products, c, time.Duration(cfg.Redis.CatalogTTLSec)*time.Second, l),
		Contacts:     service.NewContactService(b.Store.Contacts, l),
		Health:       hc,
		HTTPMetrics:  metrics.NewHTTPMetricsWith(o.Registerer),
		Gatherer:     o.Gatherer,
		Limits:       cfg.Limits,
		AllowOrigins: cfg.App.HTTP.AllowOrigins,
		TokenTTL:     cfg.JWT.TTL(),
		CookieSecure: cfg.JWT.CookieSecure,
	})
	return a, nil
}

func NewJWTer(c config.JWT) *auth.JWTer {
	return &auth.JWTer{Secret: []byte(c.Secret), Issuer: c.Issuer, TTL: c.TTL()}
}

func (a *App) Close(ctx context.Context) error {
	if err := a.cache.Close(); err != nil {
		a.log.Warn("redis close", zap.Error(err))
	}
	return a.Backend.Close(ctx)
}
