package handler

import (
	"net/http"

	"smartgriev/backend/internal/complaint"

	"github.com/gin-gonic/gin"
)

// SubmitComplaint classifies and stores a complaint for the caller.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var in complaint.SubmitInput
	if err := bind(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	created, err := h.Complaints.Submit(c.Request.Context(), actor, in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListComplaints returns the complaints visible to the caller.
func (h *Handler) ListComplaints(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	complaints, err := h.Complaints.List(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

// GetComplaint returns one complaint with its history and attachments.
func (h *Handler) GetComplaint(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	detail, err := h.Complaints.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type statusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// UpdateStatus moves a complaint to a new status. Officers and admins only.
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := bind(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.Complaints.UpdateStatus(c.Request.Context(), actor, c.Param("id"), req.Status, req.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Analytics returns the global dashboard summary.
func (h *Handler) Analytics(c *gin.Context) {
	summary, err := h.Complaints.Analytics(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
