package adminapi

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropsrv/drop/internal/dropstore"
)

func TestGetLogLevel(t *testing.T) {
	lv := new(slog.LevelVar)
	store, err := dropstore.NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	handler := New(lv, store)
	req := httptest.NewRequest(http.MethodGet, "/admin/loglevel", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "currentLevel")
}

func TestPostLogLevelChangesLevel(t *testing.T) {
	lv := new(slog.LevelVar)
	store, err := dropstore.NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	handler := New(lv, store)
	req := httptest.NewRequest(http.MethodPost, "/admin/loglevel", strings.NewReader(`{"level":"debug"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, slog.LevelDebug, lv.Level())
}

func TestPostLogLevelRejectsUnknownLevel(t *testing.T) {
	lv := new(slog.LevelVar)
	store, err := dropstore.NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	handler := New(lv, store)
	req := httptest.NewRequest(http.MethodPost, "/admin/loglevel", strings.NewReader(`{"level":"wat"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealthz(t *testing.T) {
	lv := new(slog.LevelVar)
	store, err := dropstore.NewStore(t.TempDir(), 4)
	require.NoError(t, err)

	handler := New(lv, store)
	req := httptest.NewRequest(http.MethodGet, "/admin/healthz", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"empty":true`)
}
