package httpapi

import (
	"errors"
	"fmt"
	"html"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"github.com/dropsrv/drop/internal/dropstore"
	"github.com/dropsrv/drop/internal/httpapi/assets"
)

// newAppFamily builds the HTML content family: a form-based landing page
// and plain-HTML responses, the family a human visiting in a browser
// actually uses.
func newAppFamily(store *dropstore.Store, ttl time.Duration) *family {
	f := &family{name: "app", store: store, ttl: ttl}
	f.decode = appDecode
	f.renderLanding = appRenderLanding
	f.renderStored = appRenderStored
	f.renderBlob = appRenderBlob
	f.renderError = appRenderError
	return f
}

// mountAssets wires the embedded CSS under /app/style.css. Separate from
// family.Mount since static assets aren't part of the store/get/remove
// core contract.
func mountAssets(root *mux.Router) {
	root.Path("/app/style.css").
		Methods(http.MethodGet).
		Name("app:style").
		HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			data, err := assets.FS.ReadFile("style.css")
			if err != nil {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			_, _ = w.Write(data)
		})
}

func appDecode(r *http.Request) ([]byte, dropstore.StorageKind, error) {
	if err := r.ParseForm(); err != nil {
		return nil, 0, fmt.Errorf("parse form: %w", err)
	}
	kind, err := parseKind(r.FormValue("store"))
	if err != nil {
		return nil, 0, err
	}
	return []byte(r.FormValue("data")), kind, nil
}

func appRenderLanding(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", htmlContentType)
	data, err := assets.FS.ReadFile("landing.html")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func appRenderStored(w http.ResponseWriter, r *http.Request, handle string) error {
	w.Header().Set("Content-Type", htmlContentType)
	url := "/app/drop/" + handle
	_, err := fmt.Fprintf(w,
		`<!DOCTYPE html><html><body><p>stored as <code>%s</code></p><p><a href="%s">%s://%s%s</a></p></body></html>`,
		html.EscapeString(handle), url, schemeOf(r), r.Host, url)
	return err
}

func appRenderBlob(w http.ResponseWriter, _ *http.Request, data []byte) error {
	if !utf8.Valid(data) {
		return HTTPError(errors.New("blob is not valid UTF-8"), http.StatusUnprocessableEntity)
	}
	w.Header().Set("Content-Type", htmlContentType)
	_, err := fmt.Fprintf(w, `<!DOCTYPE html><html><body><pre>%s</pre></body></html>`, html.EscapeString(string(data)))
	return err
}

func appRenderError(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(status)
	_, err := fmt.Fprintf(w, `<!DOCTYPE html><html><body><p>error: %s</p></body></html>`, html.EscapeString(msg))
	return err
}
