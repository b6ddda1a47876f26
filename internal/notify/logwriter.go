package notify

import (
	"context"
	"log"
)

// LogWriter is the fallback channel when no external notifier is
// configured. Digests land in the application log instead of a chat.
type LogWriter struct {
	logger *log.Logger
}

func NewLogWriter(logger *log.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) Send(ctx context.Context, subject, body string) error {
	if w == nil || w.logger == nil {
		return nil
	}
	w.logger.Printf("[Notify] %s\n%s", subject, body)
	return nil
}

var _ Notifier = (*LogWriter)(nil)
