package httpserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cfgpkg "github.com/taoyao-code/scoreboard-server/internal/config"
	appmetrics "github.com/taoyao-code/scoreboard-server/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(s *Server, method, path string, header http.Header) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func TestHealthzReadyzMetrics(t *testing.T) {
	cfg := cfgpkg.HTTPConfig{Addr: ":0", ReadTimeout: time.Second, WriteTimeout: time.Second}
	reg := appmetrics.NewRegistry()
	srv := New(cfg, "/metrics", appmetrics.Handler(reg), func() bool { return true }, nil)

	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/readyz", nil).Code)
	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/metrics", nil).Code)
}

func TestReadyzNotReady(t *testing.T) {
	cfg := cfgpkg.HTTPConfig{Addr: ":0"}
	srv := New(cfg, "", nil, func() bool { return false }, nil)

	assert.Equal(t, http.StatusServiceUnavailable, serve(srv, http.MethodGet, "/readyz", nil).Code)
}

func TestStaticPages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>scoreboard</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.html"), []byte("<h1>config</h1>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	srv := New(cfgpkg.HTTPConfig{Addr: ":0", StaticDir: dir}, "", nil, nil, nil)

	rr := serve(srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "scoreboard")

	rr = serve(srv, http.MethodGet, "/config", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "config")

	rr = serve(srv, http.MethodGet, "/static/app.js", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCORS(t *testing.T) {
	srv := New(cfgpkg.HTTPConfig{Addr: ":0", CORSOrigins: []string{"http://panel.local"}}, "", nil, nil, nil)

	rr := serve(srv, http.MethodGet, "/healthz", http.Header{"Origin": {"http://panel.local"}})
	assert.Equal(t, "http://panel.local", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = serve(srv, http.MethodGet, "/healthz", http.Header{"Origin": {"http://evil.local"}})
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
