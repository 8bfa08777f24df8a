package handler

import (
	"context"
	"net/http"

	"smartgriev/backend/internal/access"
	"smartgriev/backend/internal/api/middleware"
	"smartgriev/backend/internal/apperr"
	"smartgriev/backend/internal/auth"
	"smartgriev/backend/internal/complaint"
	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/nlp"
	"smartgriev/backend/internal/notification"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DepartmentLister serves the routing departments.
type DepartmentLister interface {
	GetDepartments(ctx context.Context) ([]models.Department, error)
}

// Handler holds the services behind the HTTP API.
type Handler struct {
	Complaints    *complaint.Service
	Notifications *notification.Service
	Auth          *auth.Service
	Classifier    nlp.Classifier
	Departments   DepartmentLister
	Logger        *zap.Logger
}

func NewHandler(
	complaints *complaint.Service,
	notifications *notification.Service,
	authService *auth.Service,
	classifier nlp.Classifier,
	departments DepartmentLister,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Complaints:    complaints,
		Notifications: notifications,
		Auth:          authService,
		Classifier:    classifier,
		Departments:   departments,
		Logger:        logger,
	}
}

// Health reports that the process is serving.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Smart Griev Backend Running"})
}

// respondError writes {"error": ...} with the status derived from err.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("kind", apperr.KindOf(err).String()),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": apperr.Message(err)})
}

// bind decodes the JSON body into dst. An empty body leaves dst zero-valued
// so the service reports the missing fields.
func bind(c *gin.Context, dst interface{}) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

func (h *Handler) actor(c *gin.Context) (access.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid authorization header"})
	}
	return actor, ok
}
