package browser

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

type throttled struct {
	Session
	limiter *rate.Limiter
}

// Throttle paces Navigate and Follow so consecutive page loads are at least
// interval apart. A non-positive interval returns s unchanged.
func Throttle(s Session, interval time.Duration) Session {
	if s == nil || interval <= 0 {
		return s
	}
	return &throttled{Session: s, limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (t *throttled) Navigate(ctx context.Context, url string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.Session.Navigate(ctx, url)
}

func (t *throttled) Follow(ctx context.Context, el Element) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.Session.Follow(ctx, el)
}
