// Package notify delivers digest messages to the user's channel of choice.
// Delivery is best effort: composers treat a failed send as a reason to log
// the digest, never as a reason to abort a scheduled run.
package notify

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("notifier unavailable")

type Notifier interface {
	Send(ctx context.Context, subject, body string) error
}
