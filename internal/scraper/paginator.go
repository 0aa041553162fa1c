package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/rs/zerolog"
)

// Paginator finds the control that leads to the next results page.
type Paginator struct {
	site   Site
	logger zerolog.Logger
}

func NewPaginator(site Site, logger zerolog.Logger) *Paginator {
	return &Paginator{site: site, logger: logger}
}

// Next returns the next-page control, or nil when this is the last page.
//
// Two controls mean previous and next are both shown, so the second is next.
// A lone control is next only when its label says so; a previous label or an
// unrecognised one ends pagination.
func (p *Paginator) Next(ctx context.Context, s browser.Session) (browser.Element, error) {
	controls, err := p.site.FindNextControls(ctx, s)
	if err != nil {
		if fatal(ctx, err) {
			return nil, err
		}
		if !errors.Is(err, browser.ErrElementNotFound) {
			p.logger.Debug().Err(err).Msg("pagination lookup failed")
		}
		return nil, nil
	}

	switch len(controls) {
	case 2:
		return controls[1], nil
	case 1:
		control := controls[0]
		if p.site.IsPreviousControl(control) {
			p.logger.Debug().Msg("only a previous control, last page")
			return nil, nil
		}
		p.logger.Debug().Msg("single pagination control is ambiguous, stopping")
		return nil, nil
	default:
		p.logger.Debug().Int("controls", len(controls)).Msg("no next control")
		return nil, nil
	}
}
