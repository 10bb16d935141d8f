package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khabarwire/khabar/pkg/domain"
)

func TestOneSignal_Send(t *testing.T) {
	notification := domain.Notification{Title: "भूकम्प आयो", Body: "ठूलो क्षति", URL: "https://x/1", Image: "https://x/1.jpg"}

	t.Run("success", func(t *testing.T) {
		var got map[string]any
		var auth, path string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, path = r.Header.Get("Authorization"), r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"notif-123","recipients":42}`))
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app-1", RESTKey: "key-1", Endpoint: ts.URL + "/api/v1/"})
		id, err := sender.Send(context.Background(), notification)
		require.NoError(t, err)
		assert.Equal(t, "notif-123", id)
		assert.Equal(t, "Basic key-1", auth)
		assert.Equal(t, "/api/v1/notifications", path)

		assert.Equal(t, "app-1", got["app_id"])
		assert.Equal(t, map[string]any{"en": "भूकम्प आयो"}, got["headings"])
		assert.Equal(t, map[string]any{"en": "ठूलो क्षति"}, got["contents"])
		assert.Equal(t, []any{"All"}, got["included_segments"])
		assert.Equal(t, "https://x/1", got["url"])
		assert.Equal(t, "https://x/1.jpg", got["big_picture"])
		assert.Equal(t, "https://x/1.jpg", got["chrome_web_image"])
		assert.Equal(t, map[string]any{"id1": "https://x/1.jpg"}, got["ios_attachments"])
	})

	t.Run("no image fields without image", func(t *testing.T) {
		var got map[string]any
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"n1"}`))
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL, Segment: "Nepal"})
		_, err := sender.Send(context.Background(), domain.Notification{Title: "t", Body: "b", URL: "u"})
		require.NoError(t, err)
		assert.NotContains(t, got, "big_picture")
		assert.NotContains(t, got, "ios_attachments")
		assert.Equal(t, []any{"Nepal"}, got["included_segments"])
	})

	t.Run("missing credentials", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", Endpoint: ts.URL})
		_, err := sender.Send(context.Background(), notification)
		require.ErrorIs(t, err, ErrNoCredentials)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})

	t.Run("retries transient errors", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch atomic.AddInt32(&calls, 1) {
			case 1:
				w.WriteHeader(http.StatusServiceUnavailable)
			case 2:
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"errors":["rate limited"]}`))
			default:
				_, _ = w.Write([]byte(`{"id":"third-time"}`))
			}
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL, Retries: 3})
		sender.retryDelay = time.Millisecond
		id, err := sender.Send(context.Background(), notification)
		require.NoError(t, err)
		assert.Equal(t, "third-time", id)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("gives up after retries", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL, Retries: 2})
		sender.retryDelay = time.Millisecond
		_, err := sender.Send(context.Background(), notification)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":["app_id not found"]}`))
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL, Retries: 3})
		sender.retryDelay = time.Millisecond
		_, err := sender.Send(context.Background(), notification)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app_id not found")
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("timeout retried with the same idempotency key", func(t *testing.T) {
		var calls int32
		var mu sync.Mutex
		var keys []string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			key, _ := body["idempotency_key"].(string)
			mu.Lock()
			keys = append(keys, key)
			mu.Unlock()
			if atomic.AddInt32(&calls, 1) == 1 {
				time.Sleep(300 * time.Millisecond) // accepted, but the response is late
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"n1"}`))
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL, Timeout: 100 * time.Millisecond, Retries: 3})
		sender.retryDelay = time.Millisecond
		msg := notification
		msg.ID = "abc123"
		id, err := sender.Send(context.Background(), msg)
		require.NoError(t, err)
		assert.Equal(t, "n1", id)

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, keys, 2)
		assert.Equal(t, keys[0], keys[1])
		assert.Equal(t, idempotencyKey("abc123"), keys[0])
		_, err = uuid.Parse(keys[0])
		require.NoError(t, err)
	})

	t.Run("timeout without id is not retried", func(t *testing.T) {
		var calls int32
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(300 * time.Millisecond)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"n1"}`))
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL, Timeout: 100 * time.Millisecond, Retries: 3})
		sender.retryDelay = time.Millisecond
		_, err := sender.Send(context.Background(), notification)
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("ok status without id", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"","recipients":0,"errors":["All included players are not subscribed"]}`))
		}))
		defer ts.Close()

		sender := NewOneSignal(OneSignalParams{AppID: "app", RESTKey: "key", Endpoint: ts.URL})
		_, err := sender.Send(context.Background(), notification)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not subscribed")
	})
}

func TestNewOneSignal_Defaults(t *testing.T) {
	sender := NewOneSignal(OneSignalParams{AppID: "a", RESTKey: "k"})
	assert.Equal(t, "https://onesignal.com/api/v1", sender.client.BaseURL)
	assert.Equal(t, "All", sender.segment)
	assert.Equal(t, 3, sender.retries)
}

func TestIdempotencyKey(t *testing.T) {
	assert.Empty(t, idempotencyKey(""))
	assert.Equal(t, idempotencyKey("a"), idempotencyKey("a"))
	assert.NotEqual(t, idempotencyKey("a"), idempotencyKey("b"))
}
