package httpapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropsrv/drop/internal/dropstore"
)

func newTestRouter(t *testing.T) (http.Handler, *dropstore.Store) {
	t.Helper()
	store, err := dropstore.NewStore(t.TempDir(), 16)
	require.NoError(t, err)
	return New(store, time.Hour, 5*time.Second), store
}

func TestAppLandingPage(t *testing.T) {
	router, _ := newTestRouter(t)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
}

func TestAppStoreAndFetchRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"store": {"mem"}, "data": {"hello app"}}
	req := httptest.NewRequest(http.MethodPost, "/app/drop", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "stored as")

	// pull the handle out of the response body.
	body := rr.Body.String()
	start := strings.Index(body, "<code>") + len("<code>")
	end := strings.Index(body, "</code>")
	handle := body[start:end]
	require.NotEmpty(t, handle)

	getReq := httptest.NewRequest(http.MethodGet, "/app/drop/"+handle, nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	assert.Equal(t, http.StatusOK, getRR.Code)
	assert.Contains(t, getRR.Body.String(), "hello app")
}

func TestAppRejectsEmptyBlob(t *testing.T) {
	router, _ := newTestRouter(t)
	form := url.Values{"store": {"mem"}, "data": {""}}
	req := httptest.NewRequest(http.MethodPost, "/app/drop", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAPIStoreJSONString(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/drop", strings.NewReader(`{"store":"persist","data":"hello api"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"handle"`)
}

func TestAPIStoreJSONByteArray(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/drop", strings.NewReader(`{"store":"mem","data":[104,105]}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestTxtStoreAndFetchRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/txt/drop?store=mem", strings.NewReader("hello txt"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	lines := strings.SplitN(rr.Body.String(), "\n", 2)
	handle := lines[0]
	require.NotEmpty(t, handle)

	getReq := httptest.NewRequest(http.MethodGet, "/txt/drop/"+handle, nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	assert.Equal(t, http.StatusOK, getRR.Code)
	assert.Equal(t, "hello txt", getRR.Body.String())
}

func TestGetUnknownHandleIsNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/drop/deadbeef", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPIErrorBodyIsJSON(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/drop/deadbeef", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, rr.Body.String(), `"error"`)
}

func TestAppErrorBodyIsHTML(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/app/drop/deadbeef", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "error:")
}

func TestTxtRejectsNonUTF8BlobWithPlaintextError(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/txt/drop?store=mem", strings.NewReader(string([]byte{0xff, 0xfe})))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	handle := strings.SplitN(rr.Body.String(), "\n", 2)[0]

	getReq := httptest.NewRequest(http.MethodGet, "/txt/drop/"+handle, nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	assert.Equal(t, http.StatusUnprocessableEntity, getRR.Code)
	assert.Contains(t, getRR.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, getRR.Body.String(), "error:")
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
