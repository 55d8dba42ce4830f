package recordstore

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/xid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mishcolife/catalogadmin/internal/infrastructure/observability"
)

// RequestIDHeader carries the id generated for every outgoing request
const RequestIDHeader = "X-Request-ID"

type routeKey struct{}

// withRoute tags ctx with the endpoint template used for logs and metrics
func withRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// RouteFromContext returns the endpoint template of the current request
func RouteFromContext(ctx context.Context) string {
	if r, ok := ctx.Value(routeKey{}).(string); ok {
		return r
	}
	return ""
}

func routeOf(req *http.Request) string {
	if r := RouteFromContext(req.Context()); r != "" {
		return r
	}
	return req.URL.Path
}

// TransportFunc adapts a function to http.RoundTripper
type TransportFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper
func (f TransportFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Middleware wraps a round tripper
type Middleware func(next http.RoundTripper) http.RoundTripper

// Chain wraps base with middlewares; the first middleware runs outermost
func Chain(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// RequestIDMiddleware sets a fresh X-Request-ID unless one is present
func RequestIDMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(req *http.Request) (*http.Response, error) {
			if req.Header.Get(RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			r := req.Clone(req.Context())
			r.Header.Set(RequestIDHeader, xid.New().String())
			return next.RoundTrip(r)
		})
	}
}

// TokenSource supplies the bearer token of the current operator session
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to TokenSource
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token implements TokenSource
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// BearerMiddleware adds the session token as an Authorization header. A
// missing token sends the request unauthenticated and lets the store decide.
func BearerMiddleware(tokens TokenSource) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(req *http.Request) (*http.Response, error) {
			if tokens == nil || req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}
			token, err := tokens.Token(req.Context())
			if err != nil || token == "" {
				return next.RoundTrip(req)
			}
			r := req.Clone(req.Context())
			r.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(r)
		})
	}
}

// LoggingMiddleware logs every exchange with the store
func LoggingMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			logger := observability.LoggerFromContext(req.Context())
			event := logger.Debug()
			if err != nil {
				event = logger.Warn().Err(err)
			} else if resp.StatusCode >= 500 {
				event = logger.Warn()
			}
			event = event.
				Str("method", req.Method).
				Str("route", routeOf(req)).
				Str("request_id", req.Header.Get(RequestIDHeader)).
				Dur("duration", time.Since(start))
			if resp != nil {
				event = event.Int("status", resp.StatusCode)
			}
			event.Msg("record store request")
			return resp, err
		})
	}
}

// ObservabilityMiddleware adds an OpenTelemetry client span and request
// metrics. metrics may be nil.
func ObservabilityMiddleware(metrics *observability.Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return TransportFunc(func(req *http.Request) (*http.Response, error) {
			route := routeOf(req)

			ctx, span := observability.StartSpan(req.Context(), "recordstore "+req.Method+" "+route)
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", req.Method),
				attribute.String("http.route", route),
			)

			r := req.Clone(ctx)
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

			start := time.Now()
			resp, err := next.RoundTrip(r)

			status := 0
			if resp != nil {
				status = resp.StatusCode
				observability.SetSpanAttributes(span, attribute.Int("http.status_code", status))
			}
			observability.RecordError(span, err)
			observability.RecordSyncMetric(ctx, metrics, req.Method, route, status, time.Since(start))
			return resp, err
		})
	}
}
