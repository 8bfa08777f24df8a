package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's newest notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	notifications, err := h.Notifications.List(c.Request.Context(), actor.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead acknowledges one of the caller's notifications.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	n, err := h.Notifications.MarkRead(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
