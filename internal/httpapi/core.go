package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dropsrv/drop/internal/dropstore"
	"github.com/dropsrv/drop/internal/metrics"
)

// kindLabel is the metrics/logging label for a storage kind.
func kindLabel(kind dropstore.StorageKind) string {
	if kind == dropstore.Persistent {
		return "persistent"
	}
	return "memory"
}

// parseKind maps the wire value of the "store" field ("mem"/"persist") to
// a StorageKind, defaulting to Memory when unset.
func parseKind(raw string) (dropstore.StorageKind, error) {
	switch raw {
	case "", "mem":
		return dropstore.Memory, nil
	case "persist":
		return dropstore.Persistent, nil
	default:
		return 0, errors.New(`store must be "mem" or "persist"`)
	}
}

// computeHash is the adapter's hash function: lowercase hex SHA-256 of
// the blob.
func computeHash(blob []byte) string {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

// family wires one content family's request decoding/response rendering
// onto the shared store/get core. Three instances (app, api, txt) are
// mounted by router.go, differing only in the closures passed here.
type family struct {
	name  string
	store *dropstore.Store
	ttl   time.Duration

	decode        func(r *http.Request) (blob []byte, kind dropstore.StorageKind, err error)
	renderLanding func(w http.ResponseWriter, r *http.Request) error
	renderStored  func(w http.ResponseWriter, r *http.Request, handle string) error
	renderBlob    func(w http.ResponseWriter, r *http.Request, data []byte) error
	renderError   func(w http.ResponseWriter, status int, msg string) error
}

// Mount attaches this family's three routes under pathPrefix.
func (f *family) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name(f.name + ":landing").
		HandlerFunc(f.wrap(f.handleLanding))
	sub.Path("/drop").
		Methods(http.MethodPost).
		Name(f.name + ":drop-post").
		HandlerFunc(f.wrap(f.handlePost))
	sub.Path("/drop/{handle}").
		Methods(http.MethodGet).
		Name(f.name + ":drop-get").
		HandlerFunc(f.wrap(f.handleGet))
}

// wrap adapts a HandlerFunc to http.HandlerFunc, rendering any error
// through this family's own renderError so a JSON request gets a JSON
// error body, an HTML request an HTML one, and so on, rather than the
// plain-text body http.Error would always produce.
func (f *family) wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		msg := "internal error"
		if he, ok := err.(*httpError); ok {
			status = he.status
			if he.cause != nil {
				msg = he.cause.Error()
			}
		} else {
			logger.Debug("all errors should be wrapped in httpError", "err", err)
		}
		if rerr := f.renderError(w, status, msg); rerr != nil {
			logger.Error("failed to render error response", "family", f.name, "err", rerr)
		}
	}
}

func (f *family) handleLanding(w http.ResponseWriter, r *http.Request) error {
	return f.renderLanding(w, r)
}

func (f *family) handlePost(w http.ResponseWriter, r *http.Request) error {
	blob, kind, err := f.decode(r)
	if err != nil {
		return BadRequest(err)
	}
	if len(blob) == 0 {
		return BadRequest(dropstore.ErrEmpty)
	}

	hash := computeHash(blob)
	minPrefixLen, err := f.store.Store(hash, blob, kind, f.ttl)
	if err != nil {
		logger.Error("store failed", "hash", hash, "err", err)
		return HTTPError(errors.New("storage error"), http.StatusInternalServerError)
	}

	metrics.EntryStored(kindLabel(kind))
	return f.renderStored(w, r, hash[:minPrefixLen])
}

func (f *family) handleGet(w http.ResponseWriter, r *http.Request) error {
	handle := mux.Vars(r)["handle"]
	data, err := f.store.Get(handle)
	if err != nil {
		if errors.Is(err, dropstore.ErrNotFound) || errors.Is(err, dropstore.ErrAmbiguous) {
			return NotFound(errors.New("no such drop"))
		}
		logger.Error("get failed", "handle", handle, "err", err)
		return HTTPError(errors.New("storage error"), http.StatusInternalServerError)
	}
	return f.renderBlob(w, r, data)
}
