package notify

import (
	"context"
	"log"
)

// LogNotifier writes notifications to a standard logger. It is the default
// sink for the server binary, where no richer host channel exists.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a log-backed notifier. A nil logger uses the
// process default.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(_ context.Context, audience Audience, title, body string) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Printf("notify %s: %s: %s", audience, title, body)
	return nil
}
