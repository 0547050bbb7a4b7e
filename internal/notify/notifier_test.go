package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/dealflow/internal/config"
)

func TestLogNotifierSeverityLevels(t *testing.T) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	n := NewLogNotifier(log)
	n.Notify(context.Background(), Error("Save failed", "connection refused"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Save failed", entry["title"])
	assert.Equal(t, "connection refused", entry["msg"])
}

func TestFanoutDeliversToAllSinks(t *testing.T) {
	var count atomic.Int32
	sink := notifierFunc(func(context.Context, Notification) { count.Add(1) })

	fanout := NewFanout(sink, sink, sink)
	fanout.Notify(context.Background(), Success("Saved", "deal saved"))

	assert.Equal(t, int32(3), count.Load())
}

type notifierFunc func(context.Context, Notification)

func (f notifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

func TestWebhookNotifierPostsJSON(t *testing.T) {
	received := make(chan Notification, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n Notification
		require.NoError(t, json.NewDecoder(r.Body).Decode(&n))
		received <- n
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotificationsConfig{
		WebhookURL:         server.URL,
		RateLimitPerSecond: 100,
		MaxRetries:         0,
		TimeoutSeconds:     5,
	}, logrus.New())

	notifier.Notify(context.Background(), Success("Deal created", "Acme Robotics"))

	n := <-received
	assert.Equal(t, "Deal created", n.Title)
	assert.Equal(t, SeveritySuccess, n.Severity)
}

func TestWebhookNotifierNoURLIsNoop(t *testing.T) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})

	notifier := NewWebhookNotifier(config.NotificationsConfig{}, log)
	// must not panic or block
	notifier.Notify(context.Background(), Success("x", "y"))
}
