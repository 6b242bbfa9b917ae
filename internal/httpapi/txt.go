package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/dropsrv/drop/internal/dropstore"
)

// newTxtFamily builds the plaintext content family: POST body is the raw
// blob, GET responds with the raw bytes. Storage kind is chosen with
// ?store=mem|persist (default mem) since there is no form to carry it.
func newTxtFamily(store *dropstore.Store, ttl time.Duration) *family {
	f := &family{name: "txt", store: store, ttl: ttl}
	f.decode = txtDecode
	f.renderLanding = txtRenderLanding
	f.renderStored = txtRenderStored
	f.renderBlob = txtRenderBlob
	f.renderError = txtRenderError
	return f
}

func txtDecode(r *http.Request) ([]byte, dropstore.StorageKind, error) {
	kind, err := parseKind(r.URL.Query().Get("store"))
	if err != nil {
		return nil, 0, err
	}
	blob, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return blob, kind, nil
}

func txtRenderLanding(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", plainContentType)
	_, err := io.WriteString(w, "POST raw bytes to /txt/drop?store=mem|persist\nGET /txt/drop/{handle} to retrieve\n")
	return err
}

func txtRenderStored(w http.ResponseWriter, r *http.Request, handle string) error {
	w.Header().Set("Content-Type", plainContentType)
	url := "/txt/drop/" + handle
	_, err := fmt.Fprintf(w, "%s\n%s://%s%s\n", handle, schemeOf(r), r.Host, url)
	return err
}

func txtRenderBlob(w http.ResponseWriter, _ *http.Request, data []byte) error {
	if !utf8.Valid(data) {
		return HTTPError(errors.New("blob is not valid UTF-8"), http.StatusUnprocessableEntity)
	}
	w.Header().Set("Content-Type", plainContentType)
	_, err := w.Write(data)
	return err
}

func txtRenderError(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", plainContentType)
	w.WriteHeader(status)
	_, err := fmt.Fprintf(w, "error: %s\n", msg)
	return err
}

func schemeOf(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
