package handler

import (
	"net/http"
	"strings"

	"smartgriev/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

type classifyRequest struct {
	Text string `json:"text"`
}

// Classify runs the classifier on arbitrary text without storing anything.
func (h *Handler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.respondError(c, apperr.Validation("Text is required"))
		return
	}

	result, err := h.Classifier.Classify(req.Text)
	if err != nil {
		h.respondError(c, apperr.Classification(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListDepartments returns the routing departments.
func (h *Handler) ListDepartments(c *gin.Context) {
	departments, err := h.Departments.GetDepartments(c.Request.Context())
	if err != nil {
		h.respondError(c, apperr.Persistence("failed to load departments", err))
		return
	}
	c.JSON(http.StatusOK, departments)
}
