package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingNamesSpansByRoute(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	mux := http.NewServeMux()
	registerRoutes(mux, handlers{})
	h := withTracing(mux, otelhttp.WithTracerProvider(provider))

	for _, target := range []string{"/healthz", "/nowhere/at/all/here"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}
	if got := spans[0].Name(); got != "GET /healthz" {
		t.Fatalf("span name = %q, want %q", got, "GET /healthz")
	}
	if got := spans[1].Name(); got != "GET unmatched" {
		t.Fatalf("span name = %q, want %q", got, "GET unmatched")
	}
}

func TestTracingKeepsFlusher(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	flushed := false
	mux.HandleFunc("GET /stream", func(w http.ResponseWriter, r *http.Request) {
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
			flushed = true
		}
	})

	rr := httptest.NewRecorder()
	withTracing(mux).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/stream", nil))
	if !flushed {
		t.Fatal("handler did not see an http.Flusher")
	}
}
