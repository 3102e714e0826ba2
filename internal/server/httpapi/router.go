// Package httpapi serves the public HTTP surface next to the gRPC API: a
// health probe and the rate-limited contact form relay.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/citycare/citycare/internal/common"
	"github.com/citycare/citycare/internal/logging"
	"github.com/citycare/citycare/internal/ratelimit"
	"github.com/citycare/citycare/internal/server/services"
	"github.com/gin-gonic/gin"
)

// ContactSender relays a contact form submission.
type ContactSender interface {
	Send(ctx context.Context, m services.ContactMessage) error
}

type HealthCheckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type Handlers struct {
	contact ContactSender
	logger  logging.Logger
}

func SetupRouter(contact ContactSender, limiter *ratelimit.RateLimiter, logger logging.Logger) *gin.Engine {
	h := &Handlers{contact: contact, logger: logger.With("module", "http")}

	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	{
		api.POST("/contact", ratelimit.Middleware(limiter), h.Contact)
	}

	return router
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthCheckResponse{
		Status:  "OK",
		Message: "CityCare server is running",
	})
}

func (h *Handlers) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	err := h.contact.Send(c.Request.Context(), services.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
	default:
		h.logger.Error(c.Request.Context(), "contact relay failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
	}
}

// Server runs the router until ctx is cancelled, then shuts down gracefully.
type Server struct {
	srv    *http.Server
	logger logging.Logger
}

func NewServer(addr string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.With("module", "http_server"),
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
