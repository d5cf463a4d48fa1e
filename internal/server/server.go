package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/handler"
	"github.com/osse101/QuotaPit_Go/internal/logger"
	"github.com/osse101/QuotaPit_Go/internal/metrics"
	"github.com/osse101/QuotaPit_Go/internal/session"
	"github.com/osse101/QuotaPit_Go/internal/sse"
)

type Server struct {
	httpServer     *http.Server
	sessionService session.Service
	hub            *sse.Hub
}

// NewServer wires the game API, the SSE stream and the operational endpoints
func NewServer(cfg *config.Config, rules config.GameRules, sessionService session.Service, hub *sse.Hub) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: NewRouter(cfg, rules, sessionService, hub),
			// No write timeout: SSE streams stay open
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		sessionService: sessionService,
		hub:            hub,
	}
}

// NewRouter builds the chi router. Chi middleware executes in the order defined.
func NewRouter(cfg *config.Config, rules config.GameRules, sessionService session.Service, hub *sse.Hub) http.Handler {
	r := chi.NewRouter()

	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         CORSMaxAge,
	}))
	r.Use(SecurityLoggingMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Operational routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(sessionService))
	r.Get("/version", handler.HandleVersion(config.RulesSchemaVersion))
	r.Handle("/metrics", promhttp.Handler())

	games := handler.NewGameHandler(sessionService)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/rules", handler.HandleRules(rules))
		r.Get("/events", sse.Handler(hub))

		r.Post("/games", games.HandleCreate)
		r.Route("/games/{id}", func(r chi.Router) {
			r.Get("/", games.HandleGet)
			r.Delete("/", games.HandleEnd)
			r.Post("/options", games.HandleSelectOption)
			r.Post("/spin", games.HandleSpin)
			r.Post("/deposit", games.HandleDeposit)
			r.Post("/withdraw", games.HandleWithdraw)
		})
	})

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Flush lets the SSE handler stream through the wrapper
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func isQuietPath(path string) bool {
	for _, p := range QuietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// loggingMiddleware attaches a request-scoped logger carrying the request ID
// and logs the start and end of every request
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = logger.GenerateRequestID()
		}
		w.Header().Set(HeaderRequestID, requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if isSensitiveHeader(k) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

func isSensitiveHeader(name string) bool {
	for _, h := range SensitiveHeaders {
		if strings.EqualFold(name, h) {
			return true
		}
	}
	return false
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop closes the SSE streams first so Shutdown does not wait on them
func (s *Server) Stop(ctx context.Context) error {
	s.hub.Stop()
	return s.httpServer.Shutdown(ctx)
}
