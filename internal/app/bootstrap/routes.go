// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	complaintsfeature "github.com/dalemusser/complaints/internal/app/features/complaints"
	healthfeature "github.com/dalemusser/complaints/internal/app/features/health"
	homefeature "github.com/dalemusser/complaints/internal/app/features/home"
	complaintstore "github.com/dalemusser/complaints/internal/app/store/complaints"
	"github.com/dalemusser/complaints/internal/app/system/httpx"
	"github.com/dalemusser/complaints/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup and
// Startup have completed. The complaint store is built once here from the
// shared collection handle and injected into the handlers; when Redis is
// configured the store is wrapped in the read-through cache.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	m := metrics.New()

	base := complaintstore.NewWithCollection(deps.MongoDatabase, appCfg.MongoCollection)
	var store complaintsfeature.Store = base
	if deps.Redis != nil {
		store = complaintstore.NewCached(base, deps.Redis, appCfg.RedisTTL, logger, m)
	}

	return newRouter(routerDeps{
		Store:        store,
		Pinger:       deps.MongoClient,
		Counter:      base,
		Metrics:      m,
		MaxBodyBytes: appCfg.MaxBodyBytes,
	}, logger), nil
}

// routerDeps is everything the route table needs, already constructed.
type routerDeps struct {
	Store        complaintsfeature.Store
	Pinger       healthfeature.Pinger
	Counter      healthfeature.Counter
	Metrics      *metrics.Metrics
	MaxBodyBytes int64
}

// newRouter is the explicit route table:
//
//	GET    /                 greeting
//	GET    /complaints       list
//	POST   /complaints       create
//	GET    /complaints/{id}  getById
//	DELETE /complaints/{id}  deleteById
//	GET    /health           liveness + database ping
//	GET    /metrics          Prometheus
func newRouter(d routerDeps, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.AccessLog(logger))
	r.Use(middleware.Recoverer)

	// Any origin, method and header; no credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	complaintsHandler := complaintsfeature.NewHandler(d.Store, d.Metrics, d.MaxBodyBytes, logger)
	r.Mount("/complaints", complaintsfeature.Routes(complaintsHandler))

	if d.Pinger != nil {
		healthHandler := healthfeature.NewHandler(d.Pinger, d.Counter, logger)
		r.Mount("/health", healthfeature.Routes(healthHandler))
	}

	r.Handle("/metrics", d.Metrics.Handler())

	return r
}
