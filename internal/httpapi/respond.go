// Package httpapi is the thin HTTP adapter: request decoding, content
// negotiation across the app/api/txt families, and route mounting sit
// here. The package never touches the trie or the entry table directly
// — everything goes through dropstore.Store.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dropsrv/drop/log"
)

var logger = log.WithContext("pkg", "httpapi")

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

// HTTPError creates an error carrying an HTTP status code.
func HTTPError(cause error, status int) error {
	return &httpError{cause: cause, status: status}
}

// BadRequest is a convenience wrapper for HTTP 400.
func BadRequest(cause error) error {
	return &httpError{cause: cause, status: http.StatusBadRequest}
}

// NotFound is a convenience wrapper for HTTP 404.
func NotFound(cause error) error {
	return &httpError{cause: cause, status: http.StatusNotFound}
}

// HandlerFunc is like http.HandlerFunc but returns an error; a returned
// httpError carries its own status, anything else becomes a 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts a HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if he, ok := err.(*httpError); ok {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		logger.Debug("all errors should be wrapped in httpError", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

const (
	jsonContentType  = "application/json; charset=utf-8"
	plainContentType = "text/plain; charset=utf-8"
	htmlContentType  = "text/html; charset=utf-8"
)

// ParseJSON decodes r in strict mode, rejecting unknown fields.
func ParseJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON writes obj as a JSON response body.
func WriteJSON(w http.ResponseWriter, obj interface{}) error {
	w.Header().Set("Content-Type", jsonContentType)
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		logger.Error("failed to write JSON response", "err", err)
	}
	return nil
}

// M is a shorthand for a JSON object.
type M map[string]interface{}
