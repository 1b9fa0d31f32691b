package rest

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmiller/expurgate/config"
	"github.com/robmiller/expurgate/di"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R'}

type testServer struct {
	echo      *echo.Echo
	container *di.ApplicationComponents
	cfg       *config.Config
	upstream  *httptest.Server
	hits      *atomic.Int32
}

func newTestServer(t *testing.T, body []byte, contentType string) *testServer {
	t.Helper()

	hits := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Cache: config.CacheConfig{
			Backend:            config.BackendFilesystem,
			Dir:                t.TempDir(),
			MaxAge:             168 * time.Hour,
			MaxFiles:           1024,
			MaxTotalSize:       1 << 30,
			MaxImageSize:       500 * 1024,
			MaintenanceTimeout: 5 * time.Second,
		},
		Fetch: config.FetchConfig{
			Timeout:              5 * time.Second,
			MaxRedirects:         3,
			UserAgent:            "expurgate-test",
			AllowPrivateNetworks: true,
		},
	}

	container, err := di.NewApplicationComponents(context.Background(), cfg, []byte("k"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	e := echo.New()
	RegisterRoutes(e, container, cfg)

	return &testServer{echo: e, container: container, cfg: cfg, upstream: upstream, hits: hits}
}

func (s *testServer) get(t *testing.T, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	target := path
	if query != nil {
		target += "?" + query.Encode()
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) imageQuery(imageURL string) url.Values {
	return url.Values{
		"url":      {imageURL},
		"checksum": {s.container.Authenticator.Derive(imageURL)},
	}
}

func (s *testServer) entries(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(s.cfg.Cache.Dir, "*.json"))
	require.NoError(t, err)
	return matches
}

func TestHandleImage_MissThenHit(t *testing.T) {
	s := newTestServer(t, pngBytes, "image/png")
	imageURL := s.upstream.URL + "/a.png"

	for i := 0; i < 2; i++ {
		rec := s.get(t, "/", s.imageQuery(imageURL))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pngBytes, rec.Body.Bytes())
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.Equal(t, "public, max-age=604800", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	}

	assert.Equal(t, int32(1), s.hits.Load(), "second request must be served from the cache")
	assert.Len(t, s.entries(t), 1)
}

func TestHandleImage_V1Route(t *testing.T) {
	s := newTestServer(t, pngBytes, "image/png")

	rec := s.get(t, "/v1/images", s.imageQuery(s.upstream.URL+"/a.png"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes, rec.Body.Bytes())
}

func TestHandleImage_WrongChecksum(t *testing.T) {
	s := newTestServer(t, pngBytes, "image/png")

	rec := s.get(t, "/", url.Values{"url": {s.upstream.URL + "/a.png"}, "checksum": {"wrong"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())
	assert.Equal(t, int32(0), s.hits.Load(), "no fetch for an unauthenticated request")
	assert.Empty(t, s.entries(t))
}

func TestHandleImage_MissingParameters(t *testing.T) {
	s := newTestServer(t, pngBytes, "image/png")

	for _, q := range []url.Values{nil, {"url": {s.upstream.URL}}, {"checksum": {"abc"}}} {
		rec := s.get(t, "/", q)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not found", rec.Body.String())
	}
	assert.Equal(t, int32(0), s.hits.Load())
}

func TestHandleImage_TooLarge(t *testing.T) {
	s := newTestServer(t, bytes.Repeat([]byte{0xaa}, 2*1024*1024), "image/png")

	rec := s.get(t, "/", s.imageQuery(s.upstream.URL+"/big.png"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())
	assert.Empty(t, s.entries(t))
}

func TestHandleImage_NotAnImage(t *testing.T) {
	s := newTestServer(t, []byte("<html></html>"), "text/html")

	rec := s.get(t, "/", s.imageQuery(s.upstream.URL+"/page"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, s.entries(t))
}

func TestHandleImage_EvictsWhenFull(t *testing.T) {
	s := newTestServer(t, pngBytes, "image/png")
	s.cfg.Cache.MaxFiles = 1
	container, err := di.NewApplicationComponents(context.Background(), s.cfg, []byte("k"))
	require.NoError(t, err)
	s.container = container
	s.echo = echo.New()
	RegisterRoutes(s.echo, container, s.cfg)

	for _, p := range []string{"/a.png", "/b.png", "/c.png"} {
		rec := s.get(t, "/", s.imageQuery(s.upstream.URL+p))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, pngBytes, rec.Body.Bytes())
		assert.Len(t, s.entries(t), 1, "one-in-one-out keeps the cache at its limit")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, pngBytes, "image/png")

	rec := s.get(t, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	s.get(t, "/", s.imageQuery(s.upstream.URL+"/a.png"))
	rec = s.get(t, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "expurgate_requests_total")
}
