package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/rs/zerolog"
)

const DefaultLoadRetries = 4

// PageLoader confirms a results page rendered by looking for its marker
// element, re-navigating when it is missing.
type PageLoader struct {
	site      Site
	dismisser *PopupDismisser
	retries   int
	logger    zerolog.Logger
}

func NewPageLoader(site Site, dismisser *PopupDismisser, retries int, logger zerolog.Logger) *PageLoader {
	if retries < 0 {
		retries = 0
	}
	return &PageLoader{site: site, dismisser: dismisser, retries: retries, logger: logger}
}

// Load checks the current page for the marker and, failing that, navigates
// to url up to the retry budget. The popup is dismissed before every check.
// It returns the marker text and whether the page loaded.
func (l *PageLoader) Load(ctx context.Context, s browser.Session, url string) (string, bool, error) {
	text, ok, err := l.check(ctx, s)
	if err != nil || ok {
		return text, ok, err
	}

	l.logger.Info().Str("url", url).Msg("bad page, try again")
	for attempt := 1; attempt <= l.retries; attempt++ {
		if err := s.Navigate(ctx, url); err != nil {
			if fatal(ctx, err) {
				return "", false, err
			}
			l.logger.Warn().Err(err).Int("attempt", attempt).Str("url", url).Msg("reload failed")
			continue
		}

		text, ok, err := l.check(ctx, s)
		if err != nil || ok {
			return text, ok, err
		}
		l.logger.Debug().Int("attempt", attempt).Str("url", url).Msg("marker still missing")
	}

	l.logger.Warn().Int("attempts", l.retries).Str("url", url).Msg("page never loaded")
	return "", false, nil
}

func (l *PageLoader) check(ctx context.Context, s browser.Session) (string, bool, error) {
	if _, err := l.dismisser.Dismiss(ctx, s); err != nil {
		return "", false, err
	}

	marker, err := l.site.FindMarker(ctx, s)
	if err != nil {
		if fatal(ctx, err) {
			return "", false, err
		}
		if !errors.Is(err, browser.ErrElementNotFound) {
			l.logger.Debug().Err(err).Msg("marker lookup failed")
		}
		return "", false, nil
	}

	text, err := marker.Text()
	if err != nil {
		l.logger.Debug().Err(err).Msg("marker text unreadable")
		return "", true, nil
	}
	return cleanText(text), true, nil
}
