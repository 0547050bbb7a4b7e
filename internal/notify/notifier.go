// Package notify emits user-facing notifications for completed and
// failed actions. Notifications are advisory only; no data contract
// depends on their delivery.
package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Severity classifies a notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a single user-facing message
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier delivers notifications to the user
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the structured log. It is the
// fallback sink and the one used in tests.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification at a level matching its severity
func (n *LogNotifier) Notify(_ context.Context, notification Notification) {
	entry := n.logger.WithFields(logrus.Fields{
		"title":    notification.Title,
		"severity": notification.Severity,
	})
	switch notification.Severity {
	case SeverityError:
		entry.Error(notification.Description)
	default:
		entry.Info(notification.Description)
	}
}

// Fanout delivers each notification to every registered sink
type Fanout struct {
	sinks []Notifier
}

// NewFanout creates a notifier that forwards to all given sinks
func NewFanout(sinks ...Notifier) *Fanout {
	return &Fanout{sinks: sinks}
}

// Notify forwards to every sink
func (f *Fanout) Notify(ctx context.Context, n Notification) {
	for _, sink := range f.sinks {
		sink.Notify(ctx, n)
	}
}

// Success builds a success notification stamped now
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeveritySuccess, CreatedAt: time.Now()}
}

// Error builds an error notification stamped now
func Error(title, description string) Notification {
	return Notification{Title: title, Description: description, Severity: SeverityError, CreatedAt: time.Now()}
}
