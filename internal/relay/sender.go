package relay

import (
	"context"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Sender delivers an encrypted payload to a push endpoint and reports the
// endpoint's HTTP status.
type Sender interface {
	Push(ctx context.Context, sub *webpush.Subscription, message []byte) (int, error)
}

// webpushSender signs and encrypts messages with the relay's VAPID key pair.
type webpushSender struct {
	subscriber string
	publicKey  string
	privateKey string
	ttl        int
}

// NewWebpushSender creates a Sender backed by the Web Push protocol.
func NewWebpushSender(subscriber, publicKey, privateKey string) Sender {
	return &webpushSender{
		subscriber: subscriber,
		publicKey:  publicKey,
		privateKey: privateKey,
		ttl:        3600,
	}
}

func (s *webpushSender) Push(ctx context.Context, sub *webpush.Subscription, message []byte) (int, error) {
	resp, err := webpush.SendNotificationWithContext(ctx, message, sub, &webpush.Options{
		Subscriber:      s.subscriber,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             s.ttl,
	})
	if err != nil {
		return 0, fmt.Errorf("pushing to %s: %w", sub.Endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest &&
		resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusGone {
		return resp.StatusCode, fmt.Errorf("push service returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
