// Package http provides HTTP server implementation and request handlers using Gin web framework.
// The server uses Clean Architecture principles with structured logging (slog) and graceful shutdown.
//
// This server uses Gin (github.com/gin-gonic/gin) for HTTP routing while maintaining
// compatibility with the application's existing patterns:
//   - Custom slog-based logging middleware (instead of Gin's default logger)
//   - Gin-compatible error handling utilities (httputil.HandleErrorGin)
//   - Manual http.Server configuration for timeout, mTLS and graceful shutdown control
package http

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	accessUsecase "github.com/allisson/keyhouse/internal/access/usecase"
	"github.com/allisson/keyhouse/internal/authn"
	"github.com/allisson/keyhouse/internal/config"
	"github.com/allisson/keyhouse/internal/metrics"
	secretsHTTP "github.com/allisson/keyhouse/internal/secrets/http"
)

// Server represents the HTTPS server serving the automation API under
// mutual TLS.
type Server struct {
	db       *sql.DB
	server   *http.Server
	logger   *slog.Logger
	router   *gin.Engine
	reqGroup singleflight.Group
}

// NewServer creates a new HTTP server.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter configures the Gin router with all routes and middleware, and
// loads the mTLS configuration the automation API authenticates clients
// through.
func (s *Server) SetupRouter(
	cfg *config.Config,
	secretHandler *secretsHTTP.SecretHandler,
	clientUsecase accessUsecase.ClientUsecase,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) error {
	router := gin.New()

	router.Use(gin.Recovery())

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	clientMiddleware := authn.Middleware(clientUsecase, s.logger)

	var rateLimitMiddleware gin.HandlerFunc
	if cfg.RateLimitEnabled {
		rateLimitMiddleware = authn.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger)
	}

	automation := router.Group("/automation/v2/secrets")
	automation.Use(clientMiddleware)
	if rateLimitMiddleware != nil {
		automation.Use(rateLimitMiddleware)
	}
	{
		automation.POST("", secretHandler.Create)
		automation.GET("", secretHandler.ListNames)
		automation.POST("/:name", secretHandler.CreateOrUpdate)
		automation.GET("/:name", secretHandler.GetByName)
		automation.DELETE("/:name", secretHandler.Delete)
		automation.GET("/:name/versions/:range", secretHandler.GetVersions)
		automation.POST("/:name/setversion", secretHandler.SetVersion)
		automation.GET("/expiring/v2/:time", secretHandler.ExpiringSecrets)
		automation.GET("/expiring/:time/:group", secretHandler.ExpiringNamesByGroup)
		automation.GET("/expiring/:time", secretHandler.ExpiringNames)
		automation.POST("/:name/backfill-expiration", secretHandler.BackfillExpiration)
		automation.GET("/:name/groups", secretHandler.GetGroups)
		automation.PUT("/:name/groups", secretHandler.UpdateGroups)
	}

	s.router = router

	tlsConfig, err := buildTLSConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to build tls config: %w", err)
	}
	s.server.TLSConfig = tlsConfig

	return nil
}

// buildTLSConfig loads the server certificate and the client CA pool used
// to verify peer certificates presented by automation clients.
func buildTLSConfig(cfg *config.Config) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load server certificate: %w", err)
	}

	caBytes, err := os.ReadFile(cfg.TLSClientCAFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client ca file: %w", err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("no valid certificates found in client ca file")
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientCAs:    pool,
		ClientAuth:   tls.RequireAndVerifyClientCert,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// GetHandler returns the http.Handler for testing purposes.
// Returns nil if SetupRouter has not been called yet.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTPS server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not initialized - call SetupRouter first")
	}

	s.server.Handler = s.router

	s.logger.Info("starting https server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler returns a simple health check response.
func (s *Server) healthHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("health", func() (interface{}, error) {
		return gin.H{"status": "healthy"}, nil
	})
	c.JSON(http.StatusOK, v)
}

type readinessResponse struct {
	StatusCode int
	Body       gin.H
}

// readinessHandler returns a simple readiness check response.
func (s *Server) readinessHandler(c *gin.Context) {
	v, _, _ := s.reqGroup.Do("readiness", func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		dbStatus := "ok"
		httpStatus := http.StatusOK

		if s.db == nil {
			s.logger.Error("readiness check failed: database not initialized")
			dbStatus = "error"
			httpStatus = http.StatusServiceUnavailable
		} else if err := s.db.PingContext(ctx); err != nil {
			s.logger.Error("readiness check failed: database ping error", slog.Any("err", err))
			dbStatus = "error"
			httpStatus = http.StatusServiceUnavailable
		}

		return readinessResponse{
			StatusCode: httpStatus,
			Body: gin.H{
				"status": map[int]string{
					http.StatusOK:                 "ready",
					http.StatusServiceUnavailable: "not_ready",
				}[httpStatus],
				"components": gin.H{
					"database": dbStatus,
				},
			},
		}, nil
	})

	res := v.(readinessResponse)
	c.JSON(res.StatusCode, res.Body)
}
