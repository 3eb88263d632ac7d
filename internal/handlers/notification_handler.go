package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/services"
)

type NotificationHandler struct {
	notices *services.NotificationService
	log     *slog.Logger
}

func NewNotificationHandler(notices *services.NotificationService, log *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notices: notices, log: log}
}

func (h *NotificationHandler) List(c *gin.Context) {
	notes, err := h.notices.List(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if notes == nil {
		notes = []models.Notification{}
	}
	respond(c, http.StatusOK, "", gin.H{"notifications": notes})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.notices.MarkRead(c.Request.Context(), userID(c)); err != nil {
		respondError(c, h.log, err)
		return
	}
	respond(c, http.StatusOK, "Notifications marked as read", nil)
}
