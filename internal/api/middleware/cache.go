package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zatekoja/doctordirectory/internal/directory"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

const doctorsPath = "/api/doctors"

// CacheMiddleware caches successful GET responses of the doctor routes.
// Any successful non-GET request under /api/doctors starts a new cache
// generation, so entries written before a refresh are never served again.
type CacheMiddleware struct {
	cache      providers.CacheProvider
	ttl        time.Duration
	generation atomic.Int64
}

// NewCacheMiddleware creates a new cache middleware
func NewCacheMiddleware(cache providers.CacheProvider, ttl time.Duration) *CacheMiddleware {
	m := &CacheMiddleware{cache: cache, ttl: ttl}
	m.generation.Store(time.Now().UnixNano())
	return m
}

// Middleware returns the cache middleware handler
func (m *CacheMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cache == nil || !strings.HasPrefix(r.URL.Path, doctorsPath) {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method != http.MethodGet {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)
			if rw.statusCode < 300 {
				m.Invalidate()
			}
			return
		}

		if !cacheable(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		logger := observability.LoggerFromContext(ctx)
		cacheKey := m.cacheKey(r)

		cached, err := m.cache.Get(ctx, cacheKey)
		if err == nil {
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		}
		if !errors.Is(err, providers.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Response cache lookup failed")
		}

		w.Header().Set("X-Cache", "MISS")
		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			body:           &bytes.Buffer{},
		}
		next.ServeHTTP(recorder, r)

		if recorder.statusCode == http.StatusOK && recorder.body.Len() > 0 {
			if err := m.cache.Set(ctx, cacheKey, recorder.body.Bytes(), m.ttl); err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache response")
			}
		}
	})
}

// Invalidate starts a new cache generation. Older entries expire by TTL.
func (m *CacheMiddleware) Invalidate() {
	m.generation.Add(1)
}

// cacheable excludes availability, which changes with every booking.
func cacheable(path string) bool {
	return !strings.HasSuffix(path, "/availability")
}

// cacheKey hashes the route and its query. The listing route uses the
// canonical filter-state encoding so equivalent queries share an entry.
func (m *CacheMiddleware) cacheKey(r *http.Request) string {
	query := r.URL.RawQuery
	if r.URL.Path == doctorsPath {
		query = directory.Encode(directory.ParseFilterState(r.URL.Query()))
	}

	key := fmt.Sprintf("%d:%s:%s?%s", m.generation.Load(), r.Method, r.URL.Path, query)
	hash := sha256.Sum256([]byte(key))
	return "http:cache:" + hex.EncodeToString(hash[:])
}

// responseRecorder captures the response for caching
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
	written    bool
}

// WriteHeader captures the status code
func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.written {
		r.statusCode = statusCode
		r.ResponseWriter.WriteHeader(statusCode)
		r.written = true
	}
}

// Write captures the response body and writes to the client
func (r *responseRecorder) Write(data []byte) (int, error) {
	if !r.written {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(data)
	return r.ResponseWriter.Write(data)
}
