package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	// AllowOrigins empty means any origin. Credentials are always allowed
	// so the token cookie reaches the API.
	AllowOrigins []string
	// SkipLogPaths are not logged by ginzap (probes, scrapes).
	SkipLogPaths []string
}

func NewRouter(l *zap.Logger, o Options) *gin.Engine {
	r := gin.New()
	skip := o.SkipLogPaths
	if skip == nil {
		skip = []string{"/livez", "/readyz", "/metrics"}
	}
	r.Use(ginzap.GinzapWithConfig(l, &ginzap.Config{TimeFormat: time.RFC3339, UTC: true, SkipPaths: skip}))
	r.Use(ginzap.RecoveryWithZap(l, true))
	r.Use(cors.New(corsConfig(o.AllowOrigins)))
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		// echo the caller's origin; "*" is not valid with credentials
		c.AllowOriginFunc = func(string) bool { return true }
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20,
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }
