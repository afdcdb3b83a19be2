package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/glassquote/internal/config"
	"github.com/Simplici0/glassquote/internal/db"
	"github.com/Simplici0/glassquote/internal/migrations"
	"github.com/Simplici0/glassquote/internal/obs"
	"github.com/Simplici0/glassquote/internal/seed"
)

var fixedNow = time.Date(2026, 10, 15, 14, 30, 5, 0, time.UTC)

type testServer struct {
	*server
	handler http.Handler
}

func newTestServer(t *testing.T, managerLogin string) *testServer {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{
		AppEnv:          "test",
		DBPath:          filepath.Join(root, "app.db"),
		DataDir:         filepath.Join(root, "data"),
		PDFDir:          filepath.Join(root, "pdf"),
		AssetsDir:       filepath.Join(root, "assets"),
		MaxHeightMM:     1605,
		MaxWidthMM:      2750,
		MinOptionPrice:  100,
		ManagerLogin:    managerLogin,
		ManagerPassword: "secret",
		SessionSecret:   "test-secret",
	}

	database, err := db.Open(cfg.DBPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, migrations.Up(database))

	_, err = seed.Run(database, seed.Config{
		DataDir:         cfg.DataDir,
		ManagerLogin:    cfg.ManagerLogin,
		ManagerPassword: cfg.ManagerPassword,
	})
	require.NoError(t, err)

	srv := newServer(cfg, zerolog.Nop(), database, obs.NewMetrics(prometheus.NewRegistry()))
	srv.now = func() time.Time { return fixedNow }
	return &testServer{server: srv, handler: srv.routes(nil)}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(req)
}

func (ts *testServer) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.do(req)
}

func (ts *testServer) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return ts.do(req)
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body map[string]errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body["error"]
}

func TestRootRedirectsToManager(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.get("/")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/manager", rr.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.get("/healthz")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestLoginRoutesAbsentWithoutManagerLogin(t *testing.T) {
	ts := newTestServer(t, "")

	assert.Equal(t, http.StatusNotFound, ts.get("/login").Code)
	assert.Equal(t, http.StatusOK, ts.get("/manager").Code)
}
