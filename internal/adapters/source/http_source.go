package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
	"github.com/zatekoja/doctordirectory/pkg/retry"
	"go.opentelemetry.io/otel/attribute"
)

// maxPayloadBytes bounds the feed body read into memory.
const maxPayloadBytes = 32 << 20

// statusError is a non-2xx response from the feed.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("doctor feed returned status %d", e.StatusCode)
}

// HTTPSource fetches the doctor list with a single GET to a JSON endpoint.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewHTTPSource creates a source for url. Transient failures are retried up
// to maxAttempts times in total.
func NewHTTPSource(url string, timeout time.Duration, maxAttempts int) *HTTPSource {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = maxAttempts
	cfg.InitialDelay = 200 * time.Millisecond
	cfg.MaxDelay = 2 * time.Second
	cfg.MaxTotalTimeout = 0

	return &HTTPSource{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryCfg: cfg,
	}
}

// WithRetryConfig replaces the backoff settings.
func (s *HTTPSource) WithRetryConfig(cfg retry.Config) *HTTPSource {
	s.retryCfg = cfg
	return s
}

// Fetch implements providers.DoctorSource.
func (s *HTTPSource) Fetch(ctx context.Context) ([]entities.RawDoctor, error) {
	ctx, span := observability.StartSpan(ctx, "source.http.Fetch")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("http.url", s.url))

	start := time.Now()
	var doctors []entities.RawDoctor
	err := retry.DoWithLog(ctx, s.retryCfg, "doctor-feed", func() error {
		var fetchErr error
		doctors, fetchErr = s.fetchOnce(ctx)
		return fetchErr
	}, retry.LogAttempt("doctor-feed"))
	observability.RecordSourceFetch(ctx, "http", time.Since(start), err)

	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewExternalError("failed to fetch doctors", err)
	}

	observability.SetSpanAttributes(span, attribute.Int("directory.records", len(doctors)))
	observability.LoggerFromContext(ctx).Debug().
		Int("records", len(doctors)).
		Dur("duration", time.Since(start)).
		Msg("Fetched doctor list")
	return doctors, nil
}

func (s *HTTPSource) fetchOnce(ctx context.Context) ([]entities.RawDoctor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &statusError{StatusCode: resp.StatusCode}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(statusErr)
		}
		return nil, statusErr
	}

	doctors, err := decodeJSONList(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, retry.Permanent(err)
	}
	return doctors, nil
}
