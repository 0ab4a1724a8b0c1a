// Package http provides the HTTP server adapter for the application layer.
// This is a thin adapter layer that translates HTTP requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dinkominfo-bms/itsa-review/internal/application/service"
	"github.com/dinkominfo-bms/itsa-review/internal/application/workflow"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	JWTSecret    string
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server with the given services
func NewServer(
	config ServerConfig,
	authService service.AuthService,
	submissionService service.SubmissionService,
	resultService service.ResultService,
	notificationService service.NotificationService,
	feedbackService service.FeedbackService,
	engine workflow.Engine,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	server := &Server{
		config: config,
		router: router,
		handlers: NewHandlers(
			authService,
			submissionService,
			resultService,
			notificationService,
			feedbackService,
			engine,
			logger,
		),
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures middleware for the router
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
}

// loggingMiddleware creates a logging middleware
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api")

	// Public auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/register", s.handlers.Register)
		auth.POST("/login", s.handlers.Login)
	}

	// Everything else requires a valid session token
	protected := api.Group("")
	protected.Use(authMiddleware(s.config.JWTSecret))
	{
		applications := protected.Group("/applications")
		{
			applications.POST("", s.handlers.CreateApplication)
			applications.GET("", s.handlers.ListApplications)
			applications.GET("/:id", s.handlers.GetApplication)
			applications.PUT("/:id", s.handlers.UpdateApplication)
			applications.DELETE("/:id", s.handlers.DeleteApplication)
			applications.POST("/:id/transition", s.handlers.TransitionApplication)
			applications.POST("/:id/result", s.handlers.AttachResult)
			applications.GET("/:id/result", s.handlers.GetResult)
		}

		results := protected.Group("/results")
		{
			results.PUT("/:id", s.handlers.UpdateResult)
			results.DELETE("/:id", s.handlers.DeleteResult)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", s.handlers.ListNotifications)
			notifications.GET("/unread-count", s.handlers.CountUnreadNotifications)
			notifications.PATCH("/:id/read", s.handlers.MarkNotificationRead)
			notifications.POST("/read-all", s.handlers.MarkAllNotificationsRead)
			notifications.DELETE("/:id", s.handlers.DeleteNotification)
		}

		feedback := protected.Group("/feedback")
		{
			feedback.POST("", s.handlers.SubmitFeedback)
			feedback.GET("", s.handlers.ListFeedback)
			feedback.GET("/:id", s.handlers.GetFeedback)
			feedback.POST("/:id/reply", s.handlers.ReplyFeedback)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
