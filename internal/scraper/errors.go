package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobsweep/internal/browser"
)

// fatal reports whether err ends the whole run rather than one lookup, page
// or query.
func fatal(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	return ctx.Err() != nil || errors.Is(err, browser.ErrSessionClosed)
}
