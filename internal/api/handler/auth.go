package handler

import (
	"net/http"

	"smartgriev/backend/internal/auth"

	"github.com/gin-gonic/gin"
)

// Register creates an account and profile and returns a session.
func (h *Handler) Register(c *gin.Context) {
	var in auth.RegisterInput
	if err := bind(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login exchanges email and password for a session.
func (h *Handler) Login(c *gin.Context) {
	var in auth.LoginInput
	if err := bind(c, &in); err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
