package scraper

import (
	"context"
	"errors"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/models"
)

// Field names an optional listing attribute.
type Field string

const (
	FieldTitle    Field = "title"
	FieldCompany  Field = "company"
	FieldLocation Field = "location"
)

// Site is the set of page lookups the scraping components need. Swapping the
// Site adapts the scraper to another job board without touching the loop.
type Site interface {
	Name() string
	SearchURL(q models.Query) string
	FindMarker(ctx context.Context, s browser.Session) (browser.Element, error)
	FindPopup(ctx context.Context, s browser.Session) (overlay browser.Element, closer browser.Element, err error)
	FindListings(ctx context.Context, s browser.Session) ([]browser.Element, error)
	IsSponsored(listing browser.Element) bool
	FindNextControls(ctx context.Context, s browser.Session) ([]browser.Element, error)
	IsPreviousControl(control browser.Element) bool
	FindField(listing browser.Element, field Field) (browser.Element, error)
}

// SelectorSite implements Site with the CSS selectors of a Profile.
type SelectorSite struct {
	profile Profile
}

func NewSelectorSite(profile Profile) *SelectorSite {
	return &SelectorSite{profile: profile}
}

func (s *SelectorSite) Name() string {
	return s.profile.Name
}

func (s *SelectorSite) Profile() Profile {
	return s.profile
}

func (s *SelectorSite) SearchURL(q models.Query) string {
	return buildSearchURL(s.profile.SearchURL, s.profile.Sort, q)
}

func (s *SelectorSite) FindMarker(ctx context.Context, session browser.Session) (browser.Element, error) {
	return session.FindOne(ctx, s.profile.Marker)
}

func (s *SelectorSite) FindPopup(ctx context.Context, session browser.Session) (browser.Element, browser.Element, error) {
	if s.profile.Popup.Overlay == "" || s.profile.Popup.Close == "" {
		return nil, nil, browser.ErrElementNotFound
	}
	overlay, err := session.FindOne(ctx, s.profile.Popup.Overlay)
	if err != nil {
		return nil, nil, err
	}
	closer, err := overlay.FindOne(s.profile.Popup.Close)
	if errors.Is(err, browser.ErrElementNotFound) {
		closer, err = session.FindOne(ctx, s.profile.Popup.Close)
	}
	if err != nil {
		return nil, nil, err
	}
	return overlay, closer, nil
}

func (s *SelectorSite) FindListings(ctx context.Context, session browser.Session) ([]browser.Element, error) {
	return session.FindAll(ctx, s.profile.Listing)
}

func (s *SelectorSite) IsSponsored(listing browser.Element) bool {
	if s.profile.Sponsored == "" {
		return false
	}
	_, err := listing.FindOne(s.profile.Sponsored)
	return err == nil
}

func (s *SelectorSite) FindNextControls(ctx context.Context, session browser.Session) ([]browser.Element, error) {
	return session.FindAll(ctx, s.profile.Paging.Control)
}

func (s *SelectorSite) IsPreviousControl(control browser.Element) bool {
	return controlLabelIs(control, s.profile.Paging.PreviousLabel)
}

// FindField returns the first element matched by the field's selectors.
func (s *SelectorSite) FindField(listing browser.Element, field Field) (browser.Element, error) {
	var selectors []string
	switch field {
	case FieldTitle:
		selectors = s.profile.Fields.Title
	case FieldCompany:
		selectors = s.profile.Fields.Company
	case FieldLocation:
		selectors = s.profile.Fields.Location
	}

	for _, selector := range selectors {
		el, err := listing.FindOne(selector)
		if errors.Is(err, browser.ErrElementNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return el, nil
	}
	return nil, browser.ErrElementNotFound
}

func controlLabelIs(control browser.Element, label string) bool {
	if label == "" {
		return false
	}
	text, err := control.Text()
	if err != nil {
		return false
	}
	return sameLabel(text, label)
}
