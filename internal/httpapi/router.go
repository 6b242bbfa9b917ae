package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropsrv/drop/internal/dropstore"
	"github.com/dropsrv/drop/internal/metrics"
)

const defaultRequestBodyLimit = 10 * 1024 * 1024 // 10MiB; clipboard blobs, not uploads

// New builds the top-level router: the three content families mounted at
// /app, /api, /txt, plus /metrics, wrapped in a middleware chain of body
// limit, timeout, panic recovery, metrics, and compression.
func New(store *dropstore.Store, ttl time.Duration, requestTimeout time.Duration) http.Handler {
	router := mux.NewRouter()

	newAppFamily(store, ttl).Mount(router, "/app")
	mountAssets(router)
	newAPIFamily(store, ttl).Mount(router, "/api")
	newTxtFamily(store, ttl).Mount(router, "/txt")

	router.Path("/metrics").
		Methods(http.MethodGet).
		Name("metrics").
		Handler(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	router.Use(HandlePanics)
	router.Use(HandleRequestBodyLimit(defaultRequestBodyLimit))
	if requestTimeout > 0 {
		router.Use(HandleTimeout(requestTimeout))
	}
	router.Use(MetricsMiddleware)
	router.Use(handlers.CompressHandler)

	return router
}
