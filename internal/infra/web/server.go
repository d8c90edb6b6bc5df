package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"gift-advisor/internal/infra/logging"
	"gift-advisor/internal/infra/metrics"
	"gift-advisor/internal/usecase"
)

type Server struct {
	chatUC usecase.ChatUseCase
	log    *zerolog.Logger
}

func NewServer(chatUC usecase.ChatUseCase, logger *zerolog.Logger) *Server {
	return &Server{
		chatUC: chatUC,
		log:    logger,
	}
}

// Options shape a router for its deployment target: the local server mounts
// routes at the root and exposes /metrics, the lambda variant mounts the
// same routes under a path prefix (e.g. "/api") without metrics.
type Options struct {
	PathPrefix  string
	WithMetrics bool
}

// Router builds the HTTP surface: GET /health, POST /chat, and optionally
// GET /metrics. Cross-origin requests are allowed from any origin; this is
// a permissive policy, not a security boundary.
func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.observe)

	routes := func(r chi.Router) {
		r.Get("/health", healthHandler())
		r.Post("/chat", chatHandler(s.chatUC, s.log))
		if opts.WithMetrics {
			r.Method(http.MethodGet, "/metrics", promhttp.Handler())
		}
	}

	if opts.PathPrefix != "" {
		r.Route(opts.PathPrefix, routes)
	} else {
		r.Group(routes)
	}
	return r
}

// requestID tags every request with a trace id, echoed in X-Request-ID.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(logging.WithTraceID(r.Context(), id)))
	})
}

// observe records request counts and latency per route. The route label is
// the chi pattern, not the raw path: raw paths would mint a new series for
// every probe/scan URL.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(r.Method, route, ww.Status(), time.Since(start).Milliseconds())
	})
}
