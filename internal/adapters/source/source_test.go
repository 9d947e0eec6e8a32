package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/pkg/config"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
	"github.com/zatekoja/doctordirectory/pkg/retry"
)

const feedBody = `[
	{"id": "1", "name": "Alice", "speciality": "Cardiologist", "fees": "₹ 700"},
	{"id": 2, "name": "Bob", "fees": 300},
	"not a record"
]`

func quickRetry(attempts int) retry.Config {
	return retry.Config{MaxAttempts: attempts, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, BackoffFactor: 1}
}

func TestHTTPSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	doctors, err := NewHTTPSource(server.URL, time.Second, 1).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, doctors, 3)
	assert.Equal(t, "Alice", doctors[0]["name"])
	assert.Equal(t, json.Number("2"), doctors[1]["id"])
	assert.Empty(t, doctors[2])
}

func TestHTTPSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"name": "Carol"}]`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, time.Second, 3).WithRetryConfig(quickRetry(3))
	doctors, err := src.Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, doctors, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSource_Failures(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
	}{
		{"not found is not retried", http.StatusNotFound, "", 1},
		{"server error is retried", http.StatusInternalServerError, "", 3},
		{"invalid JSON", http.StatusOK, `[{"name": `, 1},
		{"object instead of list", http.StatusOK, `{"doctors": []}`, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			src := NewHTTPSource(server.URL, time.Second, 3).WithRetryConfig(quickRetry(3))
			doctors, err := src.Fetch(context.Background())

			require.Error(t, err)
			assert.Nil(t, doctors)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
			assert.Equal(t, tc.wantCalls, calls.Load())
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPSource(url, time.Second, 1).Fetch(context.Background())

	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.True(t, appErr.Retryable())
}

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileSource_JSON(t *testing.T) {
	doctors, err := NewFileSource(writeFixture(t, "doctors.json", feedBody)).Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, doctors, 3)
	assert.Equal(t, "₹ 700", doctors[0]["fees"])
}

func TestFileSource_YAML(t *testing.T) {
	body := `
- id: "7"
  name: Dr. Meera Iyer
  specialities:
    - name: Dentist
  clinic:
    name: Smile Care
    address:
      locality: Baner
      city: Pune
  fees: 450
  video_consult: true
- just a string
`
	doctors, err := NewFileSource(writeFixture(t, "doctors.yml", body)).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Dr. Meera Iyer", doctors[0]["name"])
	assert.Equal(t, 450, doctors[0]["fees"])
	assert.Equal(t, true, doctors[0]["video_consult"])
	clinic, ok := doctors[0]["clinic"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Smile Care", clinic["name"])
	assert.Empty(t, doctors[1])
}

func TestFileSource_YAMLNonStringKeys(t *testing.T) {
	body := `
- 1: first
  name: Dr. Asha Rao
  fees: 300
  true: yes
`
	doctors, err := NewFileSource(writeFixture(t, "doctors.yaml", body)).Fetch(context.Background())

	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dr. Asha Rao", doctors[0]["name"])
	assert.Equal(t, 300, doctors[0]["fees"])
	assert.Equal(t, "first", doctors[0]["1"])
	assert.Contains(t, doctors[0], "true")
}

func TestFileSource_Missing(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json")).Fetch(context.Background())
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeExternal))
}

// memoryCache is an in-memory providers.CacheProvider.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	v, ok := c.items[key]
	if !ok {
		return nil, providers.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.items[key] = value
	c.lastTTL = ttl
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

// countingSource returns a fixed list, or err, and counts calls.
type countingSource struct {
	doctors []entities.RawDoctor
	err     error
	calls   int
}

func (s *countingSource) Fetch(context.Context) ([]entities.RawDoctor, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.doctors, nil
}

func TestCachedSource_CachesPayload(t *testing.T) {
	cache := newMemoryCache()
	inner := &countingSource{doctors: []entities.RawDoctor{{"name": "Alice", "fees": json.Number("700")}}}
	src := NewCachedSource(inner, cache, 5*time.Minute)

	first, err := src.Fetch(context.Background())
	require.NoError(t, err)
	second, err := src.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 5*time.Minute, cache.lastTTL)
	assert.Equal(t, first, second)
	assert.Equal(t, json.Number("700"), second[0]["fees"])
}

func TestCachedSource_Invalidate(t *testing.T) {
	cache := newMemoryCache()
	inner := &countingSource{doctors: []entities.RawDoctor{{"name": "Alice"}}}
	src := NewCachedSource(inner, cache, time.Minute)

	_, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.NoError(t, src.Invalidate(context.Background()))

	exists, _ := cache.Exists(context.Background(), RawPayloadKey)
	assert.False(t, exists)

	_, err = src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_CacheFailuresAreBypassed(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("redis: connection refused")
	cache.setErr = errors.New("redis: connection refused")
	inner := &countingSource{doctors: []entities.RawDoctor{{"name": "Alice"}}}

	doctors, err := NewCachedSource(inner, cache, time.Minute).Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, doctors, 1)
}

func TestCachedSource_CorruptEntryIsReplaced(t *testing.T) {
	cache := newMemoryCache()
	cache.items[RawPayloadKey] = []byte("{garbage")
	inner := &countingSource{doctors: []entities.RawDoctor{{"name": "Alice"}}}

	doctors, err := NewCachedSource(inner, cache, time.Minute).Fetch(context.Background())

	require.NoError(t, err)
	assert.Len(t, doctors, 1)
	assert.Equal(t, 1, inner.calls)
	assert.JSONEq(t, `[{"name":"Alice"}]`, string(cache.items[RawPayloadKey]))
}

func TestCachedSource_FetchErrorIsNotCached(t *testing.T) {
	cache := newMemoryCache()
	inner := &countingSource{err: apperrors.NewExternalError("feed down", nil)}

	_, err := NewCachedSource(inner, cache, time.Minute).Fetch(context.Background())

	require.Error(t, err)
	assert.Empty(t, cache.items)
}

func TestFallbackSource(t *testing.T) {
	primaryErr := apperrors.NewExternalError("feed down", nil)
	fallback := &countingSource{doctors: []entities.RawDoctor{{"name": "Fixture"}}}

	doctors, err := NewFallbackSource(&countingSource{err: primaryErr}, fallback).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fixture", doctors[0]["name"])

	_, err = NewFallbackSource(&countingSource{err: primaryErr}, &countingSource{err: errors.New("missing")}).Fetch(context.Background())
	assert.Equal(t, primaryErr, err)
}

func TestNewDoctorSource(t *testing.T) {
	base := config.SourceConfig{URL: "http://feed", Timeout: time.Second, MaxAttempts: 1, CacheTTL: time.Minute}

	assert.IsType(t, &HTTPSource{}, NewDoctorSource(base, nil))

	fixtureOnly := base
	fixtureOnly.URL = ""
	fixtureOnly.FixturePath = "doctors.json"
	assert.IsType(t, &FileSource{}, NewDoctorSource(fixtureOnly, newMemoryCache()))

	both := base
	both.FixturePath = "doctors.json"
	assert.IsType(t, &FallbackSource{}, NewDoctorSource(both, nil))

	cached, ok := NewDoctorSource(base, newMemoryCache()).(providers.InvalidatingSource)
	require.True(t, ok)
	assert.IsType(t, &CachedSource{}, cached)
}
