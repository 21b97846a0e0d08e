package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/driftlock/identity/internal/identity/service"
	"github.com/driftlock/identity/internal/identity/store"
	"github.com/driftlock/identity/pkg/httpx"
	"github.com/driftlock/identity/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService *service.AuthService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	r.Mux.Handle("POST /api/v1/users/register", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /api/v1/users/login", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /api/v1/users/logout", &LogoutHandler{AuthService: r.AuthService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
	r.Mux.Handle("GET /metrics", promhttp.Handler())
	r.Mux.Handle("GET /{$}", RootHandler())
}
