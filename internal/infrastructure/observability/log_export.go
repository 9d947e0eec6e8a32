package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	otellog "go.opentelemetry.io/otel/log"
)

// logExportWriter turns zerolog JSON lines into OpenTelemetry log records.
type logExportWriter struct {
	logger otellog.Logger
}

func newLogExportWriter(provider otellog.LoggerProvider) *logExportWriter {
	return &logExportWriter{logger: provider.Logger(instrumentationName)}
}

func (w *logExportWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel never fails: a line that cannot be decoded is dropped from the
// export and still reaches the other writers.
func (w *logExportWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return len(p), nil
	}

	var rec otellog.Record
	rec.SetTimestamp(time.Now())
	rec.SetObservedTimestamp(time.Now())
	rec.SetSeverity(severity(level))
	rec.SetSeverityText(level.String())

	for key, v := range fields {
		switch key {
		case zerolog.MessageFieldName:
			rec.SetBody(otellog.StringValue(fmt.Sprint(v)))
		case zerolog.LevelFieldName, zerolog.TimestampFieldName:
		default:
			rec.AddAttributes(attributeFor(key, v))
		}
	}

	w.logger.Emit(context.Background(), rec)
	return len(p), nil
}

func attributeFor(key string, v any) otellog.KeyValue {
	switch t := v.(type) {
	case string:
		return otellog.String(key, t)
	case bool:
		return otellog.Bool(key, t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return otellog.Int64(key, n)
		}
		if f, err := t.Float64(); err == nil {
			return otellog.Float64(key, f)
		}
		return otellog.String(key, t.String())
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return otellog.String(key, fmt.Sprint(t))
		}
		return otellog.String(key, string(b))
	}
}

func severity(level zerolog.Level) otellog.Severity {
	switch level {
	case zerolog.TraceLevel:
		return otellog.SeverityTrace
	case zerolog.DebugLevel:
		return otellog.SeverityDebug
	case zerolog.InfoLevel:
		return otellog.SeverityInfo
	case zerolog.WarnLevel:
		return otellog.SeverityWarn
	case zerolog.ErrorLevel:
		return otellog.SeverityError
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return otellog.SeverityFatal
	}
	return otellog.SeverityUndefined
}
