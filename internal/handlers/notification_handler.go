package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "outgo/internal/errors"
	"outgo/internal/notifier"
)

// NotificationHandler proxies push-subscription requests to the relay.
type NotificationHandler struct {
	dispatcher notifier.Dispatcher
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(dispatcher notifier.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

// SubscribeNotificationsRequest carries the browser's push subscription.
// The subscription blob is forwarded to the relay untouched.
type SubscribeNotificationsRequest struct {
	Subscription json.RawMessage `json:"subscription" binding:"required"`
}

// Subscribe registers the user's browser for push notifications.
// @Summary     Subscribe to push notifications
// @Description Register the browser's push subscription for budget alerts
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SubscribeNotificationsRequest true "Push subscription"
// @Success     200 {object} map[string]bool "Subscribed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Relay unavailable"
// @Router      /notifications/subscribe [post]
func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubscribeNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.dispatcher.Subscribe(c.Request.Context(), userID, req.Subscription); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": true})
}

// TestNotification sends a test push to the user's registered browser.
// @Summary     Send a test notification
// @Description Deliver a test push notification to verify the subscription
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]bool "Delivered"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No push subscription"
// @Failure     502 {object} ErrorResponse "Delivery failed"
// @Router      /notifications/test [post]
func (h *NotificationHandler) TestNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payload := notifier.Payload{
		Title: "Notifications enabled",
		Body:  "You'll get an alert here when a monthly budget is reached.",
		URL:   "/app/settings",
	}
	if err := h.dispatcher.Send(c.Request.Context(), userID, payload); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivered": true})
}
