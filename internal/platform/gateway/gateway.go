// Package gateway is the edge routing layer: pure path-prefix forwarding to
// the owning service, no business logic. It also hosts the swagger UI and a
// per-client rate limit, which belong at the edge rather than in any ledger.
package gateway

import (
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"

	"taskhive/internal/platform/discovery"

	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	_ "taskhive/internal/platform/gateway/docs"
)

// Route maps one path prefix to one logical service name.
type Route struct {
	Prefix  string
	Service string
}

// DefaultRoutes is the canonical prefix table: auth and user lookups go to
// the user service, task operations to the task service, submissions to the
// submission service.
func DefaultRoutes() []Route {
	return []Route{
		{Prefix: "/auth", Service: "user-service"},
		{Prefix: "/api/users", Service: "user-service"},
		{Prefix: "/api/tasks", Service: "task-service"},
		{Prefix: "/api/submissions", Service: "submission-service"},
	}
}

type Gateway struct {
	routes   []Route
	resolver discovery.Resolver
	logger   *slog.Logger
	addr     string
	limiter  *clientLimiter
	mux      *http.ServeMux
}

func New(routes []Route, resolver discovery.Resolver, logger *slog.Logger, addr string) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}
	if len(routes) == 0 {
		routes = DefaultRoutes()
	}

	g := &Gateway{
		routes:   routes,
		resolver: resolver,
		logger:   logger,
		addr:     addr,
		limiter:  newClientLimiter(rate.Limit(50), 100),
		mux:      http.NewServeMux(),
	}

	g.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	g.mux.HandleFunc("/", g.handleProxy)
	return g
}

func (g *Gateway) Start() error {
	g.logger.Info("gateway starting",
		"event", "gateway_starting",
		"module", "internal/platform/gateway",
		"layer", "platform",
		"addr", g.addr,
	)
	return http.ListenAndServe(g.addr, g.mux)
}

func (g *Gateway) Handler() http.Handler {
	return g.mux
}

func (g *Gateway) handleProxy(w http.ResponseWriter, r *http.Request) {
	if !g.limiter.allow(resolveClientIP(r)) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	route, ok := g.matchRoute(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	base, err := g.resolver.Resolve(route.Service)
	if err != nil {
		g.logger.Warn("route resolution failed",
			"event", "gateway_resolve_failed",
			"module", "internal/platform/gateway",
			"layer", "platform",
			"service", route.Service,
			"error", err,
		)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	target, err := url.Parse(base)
	if err != nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, _ *http.Request, err error) {
		g.logger.Warn("upstream call failed",
			"event", "gateway_upstream_failed",
			"module", "internal/platform/gateway",
			"layer", "platform",
			"service", route.Service,
			"error", err,
		)
		http.Error(w, "service unavailable", http.StatusBadGateway)
	}
	proxy.ServeHTTP(w, r)
}

func (g *Gateway) matchRoute(path string) (Route, bool) {
	for _, route := range g.routes {
		if strings.HasPrefix(path, route.Prefix) {
			return route, true
		}
	}
	return Route{}, false
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}

// clientLimiter keeps one token bucket per client address.
type clientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (c *clientLimiter) allow(client string) bool {
	c.mu.Lock()
	limiter, ok := c.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[client] = limiter
	}
	c.mu.Unlock()
	return limiter.Allow()
}
