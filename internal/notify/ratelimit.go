package notify

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	apperrors "backupwatch/internal/errors"
)

// rateLimited drops sends that exceed the configured hourly budget, so a
// flapping watch loop cannot flood a channel.
type rateLimited struct {
	next    Notifier
	limiter *rate.Limiter
}

// RateLimited wraps a notifier with an hourly send budget.
func RateLimited(next Notifier, maxPerHour int) Notifier {
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Hour/time.Duration(maxPerHour)), 1),
	}
}

func (r *rateLimited) Send(subject, body string) error {
	if !r.limiter.Allow() {
		return fmt.Errorf("dropping %q: %w", subject, apperrors.ErrNotifyThrottled)
	}
	return r.next.Send(subject, body)
}
