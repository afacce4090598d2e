package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outgo/internal/testutil"
)

func newRelayStub(t *testing.T, subscribeStatus, notifyStatus int) (*httptest.Server, *[]string) {
	t.Helper()
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(raw))
		switch r.URL.Path {
		case "/subscribe":
			w.WriteHeader(subscribeStatus)
		case "/notify":
			w.WriteHeader(notifyStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	return server, &bodies
}

func newTestClient(baseURL string) *Client {
	return NewClient(&http.Client{Timeout: 5 * time.Second}, baseURL, "")
}

func TestSubscribe(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		server, bodies := newRelayStub(t, http.StatusCreated, http.StatusOK)
		defer server.Close()

		client := newTestClient(server.URL)
		sub := json.RawMessage(`{"endpoint":"https://push.example/abc","keys":{"p256dh":"k","auth":"a"}}`)
		err := client.Subscribe(context.Background(), "user-1", sub)
		testutil.AssertNoError(t, err)

		if len(*bodies) != 1 {
			t.Fatalf("expected 1 request, got %d", len(*bodies))
		}
		var req struct {
			UserID       string          `json:"userId"`
			Subscription json.RawMessage `json:"subscription"`
		}
		if err := json.Unmarshal([]byte((*bodies)[0]), &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.UserID != "user-1" || len(req.Subscription) == 0 {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("replacing_existing_returns_ok", func(t *testing.T) {
		server, _ := newRelayStub(t, http.StatusOK, http.StatusOK)
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.Subscribe(context.Background(), "user-1", json.RawMessage(`{}`))
		testutil.AssertNoError(t, err)
	})

	t.Run("relay_error", func(t *testing.T) {
		server, _ := newRelayStub(t, http.StatusInternalServerError, http.StatusOK)
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.Subscribe(context.Background(), "user-1", json.RawMessage(`{}`))
		testutil.AssertAppError(t, err, "NOTIFICATION_DISPATCH_FAILED")
	})
}

func TestSend(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		server, bodies := newRelayStub(t, http.StatusCreated, http.StatusOK)
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.Send(context.Background(), "user-1", Payload{
			Title: "Budget alert",
			Body:  "You've spent 120.00 EUR of your 100.00 EUR budget for 2024-03.",
			URL:   "/app/dashboard",
		})
		testutil.AssertNoError(t, err)

		var req struct {
			UserID string `json:"userId"`
			Title  string `json:"title"`
		}
		if err := json.Unmarshal([]byte((*bodies)[0]), &req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.UserID != "user-1" || req.Title != "Budget alert" {
			t.Errorf("unexpected request %+v", req)
		}
	})

	t.Run("no_subscription", func(t *testing.T) {
		server, _ := newRelayStub(t, http.StatusCreated, http.StatusNotFound)
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.Send(context.Background(), "user-1", Payload{Title: "x"})
		testutil.AssertAppError(t, err, "NO_PUSH_SUBSCRIPTION")
	})

	t.Run("relay_failure", func(t *testing.T) {
		server, _ := newRelayStub(t, http.StatusCreated, http.StatusBadGateway)
		defer server.Close()

		client := newTestClient(server.URL)
		err := client.Send(context.Background(), "user-1", Payload{Title: "x"})
		testutil.AssertAppError(t, err, "NOTIFICATION_DISPATCH_FAILED")
	})

	t.Run("relay_unreachable", func(t *testing.T) {
		server, _ := newRelayStub(t, http.StatusCreated, http.StatusOK)
		server.Close()

		client := newTestClient(server.URL)
		err := client.Send(context.Background(), "user-1", Payload{Title: "x"})
		testutil.AssertAppError(t, err, "NOTIFICATION_DISPATCH_FAILED")
	})
}
