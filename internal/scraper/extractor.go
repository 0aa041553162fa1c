package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/rs/zerolog"
)

// ListingExtractor turns the listing containers on the current page into
// records. It never changes the page.
type ListingExtractor struct {
	site   Site
	now    func() time.Time
	logger zerolog.Logger
}

func NewListingExtractor(site Site, now func() time.Time, logger zerolog.Logger) *ListingExtractor {
	if now == nil {
		now = time.Now
	}
	return &ListingExtractor{site: site, now: now, logger: logger}
}

// Extract returns one record per non-sponsored listing, in page order.
func (e *ListingExtractor) Extract(ctx context.Context, s browser.Session) ([]models.Listing, error) {
	containers, err := e.site.FindListings(ctx, s)
	if err != nil {
		if fatal(ctx, err) {
			return nil, err
		}
		e.logger.Debug().Err(err).Msg("listing lookup failed")
		return nil, nil
	}

	pageURL, err := s.CurrentURL(ctx)
	if err != nil {
		if fatal(ctx, err) {
			return nil, err
		}
		pageURL = ""
	}

	listings := make([]models.Listing, 0, len(containers))
	sponsored := 0
	for _, container := range containers {
		if e.site.IsSponsored(container) {
			sponsored++
			continue
		}
		listings = append(listings, e.extractOne(container, pageURL))
	}

	e.logger.Debug().
		Int("containers", len(containers)).
		Int("sponsored", sponsored).
		Int("listings", len(listings)).
		Msg("page extracted")
	return listings, nil
}

func (e *ListingExtractor) extractOne(container browser.Element, pageURL string) models.Listing {
	listing := models.Listing{}

	if el, ok := e.find(container, FieldTitle); ok {
		title, _ := e.text(el, FieldTitle)
		href, _, err := el.Attribute("href")
		if err != nil {
			e.logger.Debug().Err(err).Msg("title href unreadable")
		}
		link := absoluteURL(pageURL, href)
		if title != "" && link != "" {
			listing.Designation = models.Some(title)
			listing.PageLink = models.Some(link)
		}
	}
	if el, ok := e.find(container, FieldCompany); ok {
		if company, ok := e.text(el, FieldCompany); ok {
			listing.Company = models.Some(company)
		}
	}
	if el, ok := e.find(container, FieldLocation); ok {
		if location, ok := e.text(el, FieldLocation); ok {
			listing.Location = models.Some(location)
		}
	}

	listing.TimeCaptured = e.now()
	return listing
}

func (e *ListingExtractor) find(container browser.Element, field Field) (browser.Element, bool) {
	el, err := e.site.FindField(container, field)
	if err != nil {
		if !errors.Is(err, browser.ErrElementNotFound) {
			e.logger.Debug().Err(err).Str("field", string(field)).Msg("field lookup failed")
		}
		return nil, false
	}
	return el, true
}

func (e *ListingExtractor) text(el browser.Element, field Field) (string, bool) {
	text, err := el.Text()
	if err != nil {
		e.logger.Debug().Err(err).Str("field", string(field)).Msg("field text unreadable")
		return "", false
	}
	return cleanText(text), true
}
