package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ratebot/core/buildinfo"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthzOK(t *testing.T) {
	h := Handler(map[string]Check{
		"postgres": func(context.Context) error { return nil },
	})

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Components["postgres"].Status)
}

func TestHealthzDown(t *testing.T) {
	h := Handler(map[string]Check{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, "down", resp.Components["redis"].Status)
	assert.Equal(t, "ok", resp.Components["postgres"].Status)
}

func TestVersion(t *testing.T) {
	rec := get(t, Handler(nil), "/version")
	require.Equal(t, http.StatusOK, rec.Code)

	var info buildinfo.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, buildinfo.Current(), info)
}

func TestServerLifecycle(t *testing.T) {
	srv := NewServer("127.0.0.1:0", nil)
	require.NoError(t, srv.Start(context.Background()))
	assert.NoError(t, srv.Shutdown(context.Background()))
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, Handler(nil), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
