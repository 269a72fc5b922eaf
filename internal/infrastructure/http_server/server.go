// Package httpserver wires the inbound HTTP server and its middleware stack.
package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/bionicotaku/lingo-services-media/internal/controllers"
	loader "github.com/bionicotaku/lingo-services-media/internal/infrastructure/config_loader"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewHTTPServer builds the kratos HTTP server with the media API routes and
// the health endpoints mounted.
func NewHTTPServer(c *loader.ServerConfig, handlers *controllers.Handlers, pool *pgxpool.Pool, logger log.Logger) *khttp.Server {
	opts := []khttp.ServerOption{
		khttp.Middleware(
			recovery.Recovery(),
			logging.Server(logger),
		),
	}
	if c.HTTP.Addr != "" {
		opts = append(opts, khttp.Address(c.HTTP.Addr))
	}
	if timeout := c.HTTP.TimeoutOrDefault(); timeout > 0 {
		opts = append(opts, khttp.Timeout(timeout))
	}

	srv := khttp.NewServer(opts...)
	controllers.RegisterRoutes(srv, handlers)
	registerHealth(srv, pool)
	return srv
}

const readyTimeout = 2 * time.Second

// registerHealth mounts liveness and readiness probes. Readiness pings the
// database so a broken pool takes the instance out of rotation.
func registerHealth(srv *khttp.Server, pool *pgxpool.Pool) {
	srv.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), readyTimeout)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
