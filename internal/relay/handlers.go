// Package relay is a small push-notification relay. The API server posts
// subscribe and notify requests here; the relay holds the VAPID key pair and
// talks to the browser push services, so web-push credentials never reach
// the main application.
package relay

import (
	"encoding/json"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"outgo/internal/logger"
)

// Handler serves the relay's HTTP endpoints.
type Handler struct {
	store     *Store
	sender    Sender
	publicKey string
}

// NewHandler creates a relay handler.
func NewHandler(store *Store, sender Sender, publicKey string) *Handler {
	return &Handler{store: store, sender: sender, publicKey: publicKey}
}

// RegisterRoutes attaches the relay endpoints to the router. The auth
// middleware guards the write endpoints; the VAPID public key stays open so
// browsers can subscribe.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/vapidPublicKey", h.VAPIDPublicKey)
	writes := r.Group("", auth)
	writes.POST("/subscribe", h.Subscribe)
	writes.POST("/notify", h.Notify)
}

// VAPIDPublicKey returns the key browsers need to create a subscription.
func (h *Handler) VAPIDPublicKey(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"publicKey": h.publicKey})
}

// SubscribeRequest registers a browser push subscription for a user.
type SubscribeRequest struct {
	UserID       string               `json:"userId" binding:"required"`
	Subscription webpush.Subscription `json:"subscription" binding:"required"`
}

// Subscribe stores the subscription, replacing any previous one for the
// same user. 201 for a new user, 200 for a replacement.
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscribe request: " + err.Error()})
		return
	}
	if req.Subscription.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subscription endpoint is required"})
		return
	}

	created := h.store.Set(req.UserID, req.Subscription)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"subscribed": true})
}

// NotifyRequest asks the relay to deliver a notification to a user.
type NotifyRequest struct {
	UserID string `json:"userId" binding:"required"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
	URL    string `json:"url"`
}

// Notify pushes the payload to the user's registered endpoint. A 404 means
// no subscription is stored; 410/404 from the push service drops the stale
// subscription and also reports 404 to the caller.
func (h *Handler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notify request: " + err.Error()})
		return
	}

	sub, ok := h.store.Get(req.UserID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no subscription for user"})
		return
	}

	message, err := json.Marshal(gin.H{"title": req.Title, "body": req.Body, "url": req.URL})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "encoding notification"})
		return
	}

	status, err := h.sender.Push(c.Request.Context(), &sub, message)
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		// The endpoint no longer exists; forget it.
		h.store.Delete(req.UserID)
		logger.Get().Infow("dropped stale push subscription",
			"user_id", req.UserID,
			"status", status,
		)
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription expired"})
	case err != nil:
		logger.Get().Warnw("push delivery failed",
			"user_id", req.UserID,
			"error", err.Error(),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": "push delivery failed"})
	default:
		c.JSON(http.StatusOK, gin.H{"delivered": true})
	}
}
