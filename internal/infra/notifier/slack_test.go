package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"newsie/internal/domain/entity"
	"newsie/internal/usecase/layout"
)

type capturedPost struct {
	Path      string
	Channel   string
	Text      string
	Username  string
	IconEmoji string
	Blocks    []map[string]any
}

func newSlackServer(t *testing.T, status int, body string, captured *capturedPost, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if captured != nil {
			captured.Path = r.URL.Path
			captured.Channel = r.FormValue("channel")
			captured.Text = r.FormValue("text")
			captured.Username = r.FormValue("username")
			captured.IconEmoji = r.FormValue("icon_emoji")
			if raw := r.FormValue("blocks"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &captured.Blocks); err != nil {
					t.Errorf("unmarshal blocks: %v", err)
				}
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "3")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestNotifier(srv *httptest.Server) *SlackNotifier {
	return NewSlackNotifier(SlackConfig{
		Token:   "xoxb-test",
		APIURL:  srv.URL + "/",
		Timeout: 5 * time.Second,
	})
}

func TestSlackNotifier_Deliver(t *testing.T) {
	t.Run("TC-1: should post blocks with sender identity and return ts", func(t *testing.T) {
		// Arrange
		var captured capturedPost
		var hits int32
		srv := newSlackServer(t, http.StatusOK, `{"ok":true,"channel":"C123","ts":"1614560461.000100"}`, &captured, &hits)
		n := newTestNotifier(srv)
		payload := samplePayload(t, 2)

		// Act
		ts, err := n.Deliver(context.Background(), "#news-results", payload)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ts != "1614560461.000100" {
			t.Errorf("expected ts=%q, got %q", "1614560461.000100", ts)
		}
		if captured.Path != "/chat.postMessage" {
			t.Errorf("expected path /chat.postMessage, got %q", captured.Path)
		}
		if captured.Channel != "#news-results" {
			t.Errorf("expected channel=#news-results, got %q", captured.Channel)
		}
		if captured.Text != "Newsie Incoming!" {
			t.Errorf("expected fallback text, got %q", captured.Text)
		}
		if captured.Username != "Newsie" {
			t.Errorf("expected username=Newsie, got %q", captured.Username)
		}
		if captured.IconEmoji != ":newspaper:" {
			t.Errorf("expected icon_emoji=:newspaper:, got %q", captured.IconEmoji)
		}
		if len(captured.Blocks) != payload.Len() {
			t.Fatalf("expected %d blocks, got %d", payload.Len(), len(captured.Blocks))
		}
		if captured.Blocks[0]["type"] != "header" {
			t.Errorf("expected first block to be header, got %v", captured.Blocks[0]["type"])
		}
	})

	t.Run("TC-2: should surface Slack error code as DeliveryError", func(t *testing.T) {
		var hits int32
		srv := newSlackServer(t, http.StatusOK, `{"ok":false,"error":"channel_not_found"}`, nil, &hits)
		n := newTestNotifier(srv)

		_, err := n.Deliver(context.Background(), "#missing", samplePayload(t, 1))

		var deliveryErr *DeliveryError
		if !errors.As(err, &deliveryErr) {
			t.Fatalf("expected *DeliveryError, got %T (%v)", err, err)
		}
		if deliveryErr.Code != "channel_not_found" {
			t.Errorf("expected code=channel_not_found, got %q", deliveryErr.Code)
		}
		if !errors.Is(err, entity.ErrDelivery) {
			t.Error("expected error to wrap entity.ErrDelivery")
		}
	})

	t.Run("TC-3: should report rate limit with retry-after", func(t *testing.T) {
		var hits int32
		srv := newSlackServer(t, http.StatusTooManyRequests, `{"ok":false,"error":"ratelimited"}`, nil, &hits)
		n := newTestNotifier(srv)

		_, err := n.Deliver(context.Background(), "#news-results", samplePayload(t, 1))

		var deliveryErr *DeliveryError
		if !errors.As(err, &deliveryErr) {
			t.Fatalf("expected *DeliveryError, got %T (%v)", err, err)
		}
		if deliveryErr.Code != "ratelimited" {
			t.Errorf("expected code=ratelimited, got %q", deliveryErr.Code)
		}
		if deliveryErr.RetryAfter != 3*time.Second {
			t.Errorf("expected retry after 3s, got %v", deliveryErr.RetryAfter)
		}
		if atomic.LoadInt32(&hits) != 1 {
			t.Errorf("expected exactly 1 request (no retry), got %d", hits)
		}
	})

	t.Run("TC-4: should map server errors to DeliveryError with status", func(t *testing.T) {
		var hits int32
		srv := newSlackServer(t, http.StatusInternalServerError, `oops`, nil, &hits)
		n := newTestNotifier(srv)

		_, err := n.Deliver(context.Background(), "#news-results", samplePayload(t, 1))

		var deliveryErr *DeliveryError
		if !errors.As(err, &deliveryErr) {
			t.Fatalf("expected *DeliveryError, got %T (%v)", err, err)
		}
		if deliveryErr.StatusCode != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", deliveryErr.StatusCode)
		}
	})

	t.Run("TC-5: should refuse oversized payloads without a request", func(t *testing.T) {
		var hits int32
		srv := newSlackServer(t, http.StatusOK, `{"ok":true,"ts":"1"}`, nil, &hits)
		n := NewSlackNotifier(SlackConfig{
			Token:        "xoxb-test",
			APIURL:       srv.URL + "/",
			BlockCeiling: 5,
		})

		_, err := n.Deliver(context.Background(), "#news-results", samplePayload(t, 2))

		if !errors.Is(err, ErrBlockCeilingExceeded) {
			t.Fatalf("expected ErrBlockCeilingExceeded, got %v", err)
		}
		if atomic.LoadInt32(&hits) != 0 {
			t.Errorf("expected no request, got %d", hits)
		}
	})

	t.Run("TC-6: should honor configured bot name and icon", func(t *testing.T) {
		var captured capturedPost
		var hits int32
		srv := newSlackServer(t, http.StatusOK, `{"ok":true,"ts":"2"}`, &captured, &hits)
		n := NewSlackNotifier(SlackConfig{
			Token:     "xoxb-test",
			APIURL:    srv.URL + "/",
			BotName:   "Morning Brief",
			IconEmoji: ":sunrise:",
		})

		if _, err := n.Deliver(context.Background(), "C999", samplePayload(t, 1)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if captured.Username != "Morning Brief" || captured.IconEmoji != ":sunrise:" {
			t.Errorf("unexpected sender identity %q %q", captured.Username, captured.IconEmoji)
		}
	})
}

func TestDeliveryError_Error(t *testing.T) {
	err := &DeliveryError{Code: "invalid_blocks", Message: "must be more than 0 characters"}
	if got := err.Error(); got != "slack: invalid_blocks: must be more than 0 characters" {
		t.Errorf("unexpected message %q", got)
	}

	err = &DeliveryError{Code: "channel_not_found"}
	if got := err.Error(); got != "slack: channel_not_found" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestCheckCeiling(t *testing.T) {
	payload := layout.Payload{Units: make([]layout.Unit, 51)}

	err := checkCeiling(payload, DefaultBlockCeiling)

	var ceilingErr *CeilingError
	if !errors.As(err, &ceilingErr) {
		t.Fatalf("expected *CeilingError, got %v", err)
	}
	if ceilingErr.Units != 51 || ceilingErr.Ceiling != 50 {
		t.Errorf("unexpected details %+v", ceilingErr)
	}
	if !errors.Is(err, entity.ErrDelivery) {
		t.Error("expected error to wrap entity.ErrDelivery")
	}
	if checkCeiling(payload, 0) != nil {
		t.Error("expected ceiling 0 to disable the check")
	}
}
