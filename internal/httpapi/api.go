package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/dropsrv/drop/internal/dropstore"
)

// dropRequest is the JSON body for POST /api/drop. Data accepts either a
// UTF-8 string or a JSON array of byte integers; both decode to the same
// byte sequence.
type dropRequest struct {
	Store string          `json:"store"`
	Data  json.RawMessage `json:"data"`
}

type dropResponse struct {
	Handle string `json:"handle"`
	URL    string `json:"url"`
}

type blobResponse struct {
	Data any `json:"data"`
}

// newAPIFamily builds the JSON content family.
func newAPIFamily(store *dropstore.Store, ttl time.Duration) *family {
	f := &family{name: "api", store: store, ttl: ttl}
	f.decode = apiDecode
	f.renderLanding = apiRenderLanding
	f.renderStored = apiRenderStored
	f.renderBlob = apiRenderBlob
	f.renderError = apiRenderError
	return f
}

func apiDecode(r *http.Request) ([]byte, dropstore.StorageKind, error) {
	var req dropRequest
	if err := ParseJSON(r.Body, &req); err != nil {
		return nil, 0, fmt.Errorf("invalid request body: %w", err)
	}
	kind, err := parseKind(req.Store)
	if err != nil {
		return nil, 0, err
	}
	blob, err := decodeBlobField(req.Data)
	if err != nil {
		return nil, 0, err
	}
	return blob, kind, nil
}

// decodeBlobField accepts a JSON string or a JSON array of integers,
// yielding the same byte sequence either way.
func decodeBlobField(raw json.RawMessage) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []byte(s), nil
	}
	var ints []byte
	if err := json.Unmarshal(raw, &ints); err == nil {
		return ints, nil
	}
	var nums []int
	if err := json.Unmarshal(raw, &nums); err != nil {
		return nil, fmt.Errorf("data must be a string or an array of byte integers: %w", err)
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return nil, fmt.Errorf("data[%d] out of byte range: %d", i, n)
		}
		out[i] = byte(n)
	}
	return out, nil
}

func apiRenderLanding(w http.ResponseWriter, _ *http.Request) error {
	return WriteJSON(w, M{
		"post": "/api/drop",
		"get":  "/api/drop/{handle}",
	})
}

func apiRenderStored(w http.ResponseWriter, r *http.Request, handle string) error {
	return WriteJSON(w, dropResponse{
		Handle: handle,
		URL:    schemeOf(r) + "://" + r.Host + "/api/drop/" + handle,
	})
}

func apiRenderBlob(w http.ResponseWriter, _ *http.Request, data []byte) error {
	if utf8.Valid(data) {
		return WriteJSON(w, blobResponse{Data: string(data)})
	}
	ints := make([]int, len(data))
	for i, b := range data {
		ints[i] = int(b)
	}
	return WriteJSON(w, blobResponse{Data: ints})
}

func apiRenderError(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(M{"error": msg})
}
