package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"k8s.io/client-go/kubernetes"

	"github.com/acme/kubelet-stats-exporter/internal/config"
	"github.com/acme/kubelet-stats-exporter/internal/version"
)

// Server serves the metrics exposition and health endpoints
type Server struct {
	logger     *zap.Logger
	config     *config.Config
	router     chi.Router
	kubeClient kubernetes.Interface
}

// NewServer creates a new exposition server
func NewServer(logger *zap.Logger, cfg *config.Config, kubeClient kubernetes.Interface) *Server {
	s := &Server{
		logger:     logger,
		config:     cfg,
		router:     chi.NewRouter(),
		kubeClient: kubeClient,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.requestLogger)
}

func (s *Server) setupRoutes() {
	metricsHandler := http.Handler(promhttp.Handler())
	if s.config.RateLimits.ScrapesPerMinute > 0 {
		limiter := rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(s.config.RateLimits.ScrapesPerMinute)),
			1,
		)
		metricsHandler = scrapeRateLimit(limiter)(metricsHandler)
	}

	s.router.Handle("/metrics", metricsHandler)
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)
	s.router.Get("/version", s.handleVersion)
}

// requestLogger logs each request at debug level with its request ID
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("Request handled",
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// scrapeRateLimit rejects scrapes beyond the configured rate so an
// aggressive Prometheus (or a misconfigured second one) cannot hammer
// every kubelet in the cluster.
func scrapeRateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "scrape rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleReadyz reports ready once the API server is reachable; until then
// a scrape would only produce three empty metric families.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if _, err := s.kubeClient.Discovery().ServerVersion(); err != nil {
		s.logger.Warn("Readiness check failed", zap.Error(err))
		http.Error(w, "kubernetes api unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Get())
}
