package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/rs/zerolog"
)

// PopupDismisser closes the job-alert overlay that can cover the results.
type PopupDismisser struct {
	site   Site
	logger zerolog.Logger
}

func NewPopupDismisser(site Site, logger zerolog.Logger) *PopupDismisser {
	return &PopupDismisser{site: site, logger: logger}
}

// Dismiss clicks the overlay's close control when the overlay is present.
// It reports whether a close click happened; only fatal session errors are
// returned.
func (d *PopupDismisser) Dismiss(ctx context.Context, s browser.Session) (bool, error) {
	_, closer, err := d.site.FindPopup(ctx, s)
	if err != nil {
		if fatal(ctx, err) {
			return false, err
		}
		if !errors.Is(err, browser.ErrElementNotFound) {
			d.logger.Debug().Err(err).Msg("popup lookup failed")
		}
		return false, nil
	}

	if err := s.Click(ctx, closer); err != nil {
		if fatal(ctx, err) {
			return false, err
		}
		d.logger.Warn().Err(err).Msg("popup close failed")
		return false, nil
	}

	d.logger.Debug().Msg("popup dismissed")
	return true, nil
}
