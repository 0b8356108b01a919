package handler

import (
	"net/http"
	"strconv"

	"github.com/vybraa/vybraa-api-v1/internal/middleware"
	"github.com/vybraa/vybraa-api-v1/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	store service.Store
}

func NewNotificationHandler(store service.Store) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// List handles GET /me/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	list, err := h.store.Notifications().ListByUser(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list notifications"})
		return
	}
	c.JSON(http.StatusOK, list)
}
