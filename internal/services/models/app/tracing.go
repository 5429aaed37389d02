package server

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const tracingOperation = "models"

// withTracing opens one server span per request, named by route pattern.
func withTracing(mux *http.ServeMux, opts ...otelhttp.Option) http.Handler {
	opts = append([]otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return routeName(mux, r)
		}),
	}, opts...)
	return otelhttp.NewHandler(mux, tracingOperation, opts...)
}

// routeName resolves the mux pattern before the mux sets r.Pattern.
func routeName(mux *http.ServeMux, r *http.Request) string {
	if _, pattern := mux.Handler(r); pattern != "" {
		return pattern
	}
	return r.Method + " unmatched"
}
