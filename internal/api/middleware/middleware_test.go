package middleware_test

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
)

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = append([]byte(nil), value...)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

// countingHandler answers every request with a fixed body and counts calls.
type countingHandler struct {
	mu    sync.Mutex
	calls int
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"ok":true}`))
}

func (h *countingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestCacheMiddleware(t *testing.T) {
	t.Run("serves the second identical request from cache", func(t *testing.T) {
		next := &countingHandler{}
		h := middleware.NewCacheMiddleware(newMemoryCache(), time.Minute).Middleware(next)

		first := serve(h, http.MethodGet, "/api/doctors?search=neuro")
		second := serve(h, http.MethodGet, "/api/doctors?search=neuro")

		assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.Equal(t, `{"ok":true}`, second.Body.String())
		assert.Equal(t, 1, next.count())
	})

	t.Run("equivalent filter queries share an entry", func(t *testing.T) {
		next := &countingHandler{}
		h := middleware.NewCacheMiddleware(newMemoryCache(), time.Minute).Middleware(next)

		serve(h, http.MethodGet, "/api/doctors?sortBy=fees&search=a&specialty=X&specialty=X")
		w := serve(h, http.MethodGet, "/api/doctors?search=a&specialty=X&sortBy=fees&unknown=1")

		assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
		assert.Equal(t, 1, next.count())
	})

	t.Run("successful refresh invalidates earlier entries", func(t *testing.T) {
		next := &countingHandler{}
		h := middleware.NewCacheMiddleware(newMemoryCache(), time.Minute).Middleware(next)

		serve(h, http.MethodGet, "/api/doctors")
		serve(h, http.MethodPost, "/api/doctors/refresh")
		w := serve(h, http.MethodGet, "/api/doctors")

		assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
		assert.Equal(t, 3, next.count())
	})

	t.Run("availability and unrelated routes bypass the cache", func(t *testing.T) {
		next := &countingHandler{}
		h := middleware.NewCacheMiddleware(newMemoryCache(), time.Minute).Middleware(next)

		serve(h, http.MethodGet, "/api/doctors/1/availability")
		w := serve(h, http.MethodGet, "/api/doctors/1/availability")
		assert.Empty(t, w.Header().Get("X-Cache"))

		serve(h, http.MethodGet, "/health")
		serve(h, http.MethodGet, "/health")
		assert.Equal(t, 4, next.count())
	})

	t.Run("error responses are not cached", func(t *testing.T) {
		calls := 0
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"down"}`))
		})
		h := middleware.NewCacheMiddleware(newMemoryCache(), time.Minute).Middleware(next)

		serve(h, http.MethodGet, "/api/doctors")
		w := serve(h, http.MethodGet, "/api/doctors")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, 2, calls)
	})
}

func TestCORSMiddleware(t *testing.T) {
	next := &countingHandler{}

	t.Run("wildcard", func(t *testing.T) {
		h := middleware.CORSMiddleware([]string{"*"})(next)
		req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Origin", "https://example.com")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allow list", func(t *testing.T) {
		h := middleware.CORSMiddleware([]string{"https://a.example"})(next)

		req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Origin", "https://a.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "https://a.example", w.Header().Get("Access-Control-Allow-Origin"))

		req = httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
		req.Header.Set("Origin", "https://b.example")
		w = httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		before := next.count()
		h := middleware.CORSMiddleware([]string{"*"})(next)
		w := serve(h, http.MethodOptions, "/api/appointments")

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, before, next.count())
	})
}

func TestETag(t *testing.T) {
	h := middleware.ETag(&countingHandler{})

	w := serve(h, http.MethodGet, "/api/doctors")
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCompression(t *testing.T) {
	h := middleware.Compression(&countingHandler{})

	req := httptest.NewRequest(http.MethodGet, "/api/doctors", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestCacheControl(t *testing.T) {
	h := middleware.CacheControl(&countingHandler{})

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/doctors", "public, max-age=120, must-revalidate"},
		{http.MethodGet, "/api/doctors/specialties", "public, max-age=600, must-revalidate"},
		{http.MethodGet, "/api/doctors/7/availability", "private, no-cache, must-revalidate"},
		{http.MethodPost, "/api/appointments", "no-store"},
		{http.MethodGet, "/health", "private, no-cache, must-revalidate"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(h, tt.method, tt.path)
			assert.Equal(t, tt.want, w.Header().Get("Cache-Control"))
		})
	}
}
