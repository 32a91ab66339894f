package handlers

import (
	"net/http"

	"snapgram/httpx"
	"snapgram/service"

	"github.com/gin-gonic/gin"
)

type PushHandler struct {
	notifications *service.NotificationService
}

func NewPushHandler(notifications *service.NotificationService) *PushHandler {
	return &PushHandler{notifications: notifications}
}

func (h *PushHandler) GetVapidPublicKey(c *gin.Context) {
	if !h.notifications.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "push notifications are not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"publicKey": h.notifications.PublicKey()})
}

func (h *PushHandler) Subscribe(c *gin.Context) {
	var req service.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	userID := currentUserID(c)
	if err := h.notifications.Subscribe(ctx, userID, req); err != nil {
		httpx.WriteServiceError(c, err, "failed to save subscription")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "push subscription saved", "userId": userID})
}
