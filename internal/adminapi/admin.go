// Package adminapi mounts drop's operability surface: runtime log level
// control and a liveness probe, kept separate from the clipboard's
// functional (store/get/remove) surface.
package adminapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/dropsrv/drop/internal/dropstore"
	"github.com/dropsrv/drop/internal/httpapi"
	"github.com/dropsrv/drop/log"
)

var errInvalidLevel = errors.New("invalid verbosity level")

var logger = log.WithContext("pkg", "adminapi")

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

// New builds the admin HTTP handler: GET/POST /admin/loglevel and
// GET /admin/healthz. store is used only to report emptiness in the
// health payload; admin never mutates it.
func New(logLevel *slog.LevelVar, store *dropstore.Store) http.Handler {
	router := mux.NewRouter()

	router.Path("/admin/loglevel").
		Methods(http.MethodGet).
		Name("admin:get-loglevel").
		HandlerFunc(httpapi.WrapHandlerFunc(getLogLevel(logLevel)))
	router.Path("/admin/loglevel").
		Methods(http.MethodPost).
		Name("admin:post-loglevel").
		HandlerFunc(httpapi.WrapHandlerFunc(postLogLevel(logLevel)))
	router.Path("/admin/healthz").
		Methods(http.MethodGet).
		Name("admin:healthz").
		HandlerFunc(httpapi.WrapHandlerFunc(healthz(store)))

	return handlers.CompressHandler(router)
}

func getLogLevel(logLevel *slog.LevelVar) httpapi.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return httpapi.WriteJSON(w, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func postLogLevel(logLevel *slog.LevelVar) httpapi.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req logLevelRequest
		if err := httpapi.ParseJSON(r.Body, &req); err != nil {
			return httpapi.BadRequest(err)
		}

		switch req.Level {
		case "debug":
			logLevel.Set(log.LevelDebug)
		case "info":
			logLevel.Set(log.LevelInfo)
		case "warn":
			logLevel.Set(log.LevelWarn)
		case "error":
			logLevel.Set(log.LevelError)
		case "trace":
			logLevel.Set(log.LevelTrace)
		case "crit":
			logLevel.Set(log.LevelCrit)
		default:
			return httpapi.BadRequest(errInvalidLevel)
		}

		logger.Info("log level changed", "level", logLevel.Level().String())
		return httpapi.WriteJSON(w, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func healthz(store *dropstore.Store) httpapi.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return httpapi.WriteJSON(w, httpapi.M{
			"status": "ok",
			"empty":  store.IsEmpty(),
		})
	}
}
