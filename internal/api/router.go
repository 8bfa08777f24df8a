// Package api wires the HTTP routes.
package api

import (
	"smartgriev/backend/internal/api/handler"
	"smartgriev/backend/internal/api/middleware"
	"smartgriev/backend/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handler       *handler.Handler
	Authenticator middleware.Authenticator
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
	CORSOrigins   []string
}

// NewRouter builds the gin engine with public and authenticated groups.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := cfg.Handler

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	public := r.Group("/api")
	{
		public.GET("/health", h.Health)
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/departments", h.ListDepartments)
	}

	protected := r.Group("/api")
	protected.Use(middleware.Auth(cfg.Authenticator))
	{
		protected.POST("/complaints/submit", h.SubmitComplaint)
		protected.GET("/complaints", h.ListComplaints)
		protected.GET("/complaints/:id", h.GetComplaint)
		protected.PUT("/complaints/:id/status", h.UpdateStatus)
		protected.POST("/nlp/classify", h.Classify)
		protected.GET("/analytics", h.Analytics)
		protected.GET("/notifications", h.ListNotifications)
		protected.PUT("/notifications/:id/read", h.MarkNotificationRead)
	}

	return r
}
