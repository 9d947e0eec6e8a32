package observability

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

var logSetup struct {
	sync.Mutex
	out     io.Writer
	service string
	env     string
	export  zerolog.LevelWriter
}

// InitLogger initializes the global zerolog logger on stdout
func InitLogger(serviceName, env string) {
	InitLoggerWithWriter(os.Stdout, serviceName, env)
}

// InitLoggerWithWriter initializes the global logger on out. Development gets
// a console writer, everything else structured JSON with caller info.
func InitLoggerWithWriter(out io.Writer, serviceName, env string) {
	logSetup.Lock()
	defer logSetup.Unlock()

	logSetup.out, logSetup.service, logSetup.env = out, serviceName, env
	buildLogger()
}

// exportLogs tees the global logger into w, or stops exporting when w is nil.
func exportLogs(w zerolog.LevelWriter) {
	logSetup.Lock()
	defer logSetup.Unlock()

	logSetup.export = w
	if logSetup.out != nil {
		buildLogger()
	}
}

func buildLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var out io.Writer = logSetup.out
	if logSetup.env == "development" {
		out = zerolog.ConsoleWriter{Out: logSetup.out, TimeFormat: time.RFC3339}
	}
	if logSetup.export != nil {
		out = zerolog.MultiLevelWriter(out, logSetup.export)
	}

	ctx := zerolog.New(out).With().Timestamp()
	if logSetup.env != "development" {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Str("service", logSetup.service).Logger()
}

// LoggerFromContext returns a logger with trace context
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &logger
}
