// Package notifier is the HTTP client for the push relay service. Delivery
// is best-effort: the relay may have no subscription for a user or be down
// entirely, and callers are expected to log those failures rather than fail
// the operation that triggered the notification.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "outgo/internal/errors"
)

// Payload is the content of a push notification.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Dispatcher registers push subscriptions and requests delivery.
type Dispatcher interface {
	// Subscribe registers a push endpoint for the user. The subscription
	// blob is opaque to the API; only the relay inspects it.
	Subscribe(ctx context.Context, userID string, subscription json.RawMessage) error

	// Send requests best-effort delivery of a notification. A missing
	// subscription returns ErrNoSubscription; transport and relay
	// failures return ErrNotificationDispatch.
	Send(ctx context.Context, userID string, payload Payload) error
}

// Client talks to the relay over HTTP. When apiKey is non-empty it is sent
// as X-API-Key; the relay rejects unauthenticated writes when configured
// with the same secret.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a relay client against the given base URL.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

type subscribeRequest struct {
	UserID       string          `json:"userId"`
	Subscription json.RawMessage `json:"subscription"`
}

type notifyRequest struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url"`
}

// Subscribe registers the user's push subscription with the relay.
func (c *Client) Subscribe(ctx context.Context, userID string, subscription json.RawMessage) error {
	status, err := c.post(ctx, "/subscribe", subscribeRequest{UserID: userID, Subscription: subscription})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationDispatch, err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return apperrors.Wrap(apperrors.ErrNotificationDispatch,
			fmt.Errorf("subscribe returned status %d", status))
	}
	return nil
}

// Send requests delivery of a notification to the user.
func (c *Client) Send(ctx context.Context, userID string, payload Payload) error {
	status, err := c.post(ctx, "/notify", notifyRequest{
		UserID: userID,
		Title:  payload.Title,
		Body:   payload.Body,
		URL:    payload.URL,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrNotificationDispatch, err)
	}
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return apperrors.ErrNoSubscription
	default:
		return apperrors.Wrap(apperrors.ErrNotificationDispatch,
			fmt.Errorf("notify returned status %d", status))
	}
}

func (c *Client) post(ctx context.Context, path string, body interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("encoding relay request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("relay request to %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}
