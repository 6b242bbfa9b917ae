package httpapi

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"github.com/dropsrv/drop/internal/metrics"
)

// HandleRequestBodyLimit caps request body size; drop's blobs are small
// clipboard entries, not uploads, so a generous but finite cap keeps a
// misbehaving client from exhausting memory on a Memory-kind store.
func HandleRequestBodyLimit(maxBodySize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
			next.ServeHTTP(w, r)
		})
	}
}

// HandleTimeout bounds how long a single request's context stays valid.
func HandleTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HandlePanics recovers a panicking handler into a 500 response instead of
// taking down the server.
func HandlePanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				logger.Error("panic in handler", "recovered", rec, "stack", string(debug.Stack()))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusCapture struct {
	http.ResponseWriter
	status int
}

func (s *statusCapture) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request latency per named route, grouped by
// content family (the part of the route name before the colon) and
// response status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rt := mux.CurrentRoute(r)
		if rt == nil || rt.GetName() == "" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sc := &statusCapture{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sc, r)

		family, route := splitRouteName(rt.GetName())
		metrics.ObserveRequest(family, route, http.StatusText(sc.status), time.Since(start).Seconds())
	})
}

// splitRouteName pulls "family:route" apart; route names are assigned as
// literal "app:landing", "api:drop-post", etc. when mounting.
func splitRouteName(name string) (family, route string) {
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			return name[:i], name[i+1:]
		}
	}
	return "", name
}
