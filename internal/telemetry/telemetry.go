// Package telemetry wires structured request logging and optional OTLP
// tracing around the HTTP server.
package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Middleware wraps an HTTP handler with request logging and, when tracing is
// enabled, span creation.
type Middleware func(http.Handler) http.Handler

// Init sets up request logging and, when otlpEndpoint is non-empty, OTLP/HTTP
// trace export. With an empty endpoint only the JSON request log is active and
// the returned shutdown is a no-op.
func Init(ctx context.Context, serviceName, otlpEndpoint string) (func(context.Context) error, Middleware, error) {
	if serviceName == "" {
		return nil, nil, errors.New("telemetry: service name is required")
	}

	logWriter := newJSONLogWriter(serviceName, os.Stdout)

	if otlpEndpoint == "" {
		noop := func(context.Context) error { return nil }
		return noop, requestLogger(logWriter, nil), nil
	}

	exporter, err := newTraceExporter(ctx, otlpEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: create resource: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	traced := func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName)
	}
	return tracerProvider.Shutdown, requestLogger(logWriter, traced), nil
}

// requestLogger logs one JSON line per request, carrying the trace id when a
// span is active. wrap, when non-nil, is applied outside the logger.
func requestLogger(logWriter *jsonLogWriter, wrap Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(recorder, r)

			spanCtx := trace.SpanFromContext(r.Context()).SpanContext()
			traceID := ""
			if spanCtx.IsValid() {
				traceID = spanCtx.TraceID().String()
			}

			msg := fmt.Sprintf("%s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start))
			if err := logWriter.Log("INFO", msg, traceID); err != nil {
				fmt.Fprintf(os.Stderr, "telemetry: failed to write request log: %v\n", err)
			}
		})
		if wrap != nil {
			return wrap(handler)
		}
		return handler
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func newTraceExporter(ctx context.Context, endpoint string) (*otlptrace.Exporter, error) {
	var opts []otlptracehttp.Option

	parsed, err := url.Parse(endpoint)
	if err == nil && parsed.Scheme != "" {
		if parsed.Host == "" {
			return nil, fmt.Errorf("invalid OTLP endpoint: %s", endpoint)
		}
		opts = append(opts, otlptracehttp.WithEndpoint(parsed.Host))
		if parsed.Path != "" && parsed.Path != "/" {
			opts = append(opts, otlptracehttp.WithURLPath(parsed.Path))
		}
		if parsed.Scheme == "http" {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(endpoint))
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	return otlptracehttp.New(ctx, opts...)
}

type jsonLogWriter struct {
	mu      sync.Mutex
	service string
	out     io.Writer
}

func newJSONLogWriter(service string, out io.Writer) *jsonLogWriter {
	if out == nil {
		out = os.Stdout
	}
	return &jsonLogWriter{service: service, out: out}
}

func (w *jsonLogWriter) Log(level, message, traceID string) error {
	entry := map[string]string{
		"ts":       time.Now().UTC().Format(time.RFC3339Nano),
		"level":    strings.ToUpper(level),
		"service":  w.service,
		"msg":      message,
		"trace_id": traceID,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err = w.out.Write(append(data, '\n'))
	return err
}
