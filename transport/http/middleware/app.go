package middleware

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"todoevo/config"
	"todoevo/infras/otel"
)

const (
	otelHTTPScopeName = "http"
)

type App interface {
	Tracing(http.Handler) http.Handler
}

type appImpl struct {
	otel   otel.Otel
	config *config.Config
}

func NewApp(otl otel.Otel, cfg *config.Config) App {
	return &appImpl{
		otel:   otl,
		config: cfg,
	}
}

// Tracing opens one span per request and records the route and outcome.
func (a *appImpl) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		spanName := fmt.Sprintf("%s %s", request.Method, request.URL.Path)

		ctx, scope := a.otel.NewScope(request.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		recorder := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

		next.ServeHTTP(recorder, request.WithContext(ctx))

		route := request.URL.Path
		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		scope.SetAttributes(map[string]any{
			"app.name":         a.config.App.Name,
			"http.path":        request.URL.Path,
			"http.route":       route,
			"http.method":      request.Method,
			"http.user_agent":  request.UserAgent(),
			"http.host":        request.Host,
			"http.source":      request.RemoteAddr,
			"http.status_code": recorder.status,
		})
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
