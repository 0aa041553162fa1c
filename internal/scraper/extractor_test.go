package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tickingClock() func() time.Time {
	current := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func extractPage(t *testing.T, fixture pageSpec) []models.Listing {
	t.Helper()
	session, _ := staticRecording(map[string]pageSpec{testBase: fixture})
	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, testBase))

	listings, err := NewListingExtractor(testSite(), tickingClock(), zerolog.Nop()).Extract(ctx, session)
	require.NoError(t, err)
	return listings
}

func TestExtractSkipsSponsoredListings(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true, cards: []card{
		{title: "Data Engineer", href: "/rc/clk?jk=1", company: "Acme", location: "Austin, TX"},
		{title: "Promoted Role", href: "/pagead/1", company: "AdCo", location: "Remote", sponsored: true},
		{title: "ML Engineer", href: "/rc/clk?jk=2", company: "Beta", location: "Dallas, TX"},
	}})

	require.Len(t, listings, 2)
	assert.Equal(t, "Data Engineer", models.Value(listings[0].Designation))
	assert.Equal(t, "ML Engineer", models.Value(listings[1].Designation))
}

func TestExtractFullRecord(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true, cards: []card{
		{title: "\n\tSenior\tData Scientist ", href: "/rc/clk?jk=abc", company: "\n  Acme Corp\n", location: "New York,\tNY"},
	}})

	require.Len(t, listings, 1)
	got := listings[0]
	assert.Equal(t, "Senior Data Scientist", models.Value(got.Designation))
	assert.Equal(t, "https://jobs.example.com/rc/clk?jk=abc", models.Value(got.PageLink))
	assert.Equal(t, "Acme Corp", models.Value(got.Company))
	assert.Equal(t, "New York, NY", models.Value(got.Location))
	assert.False(t, got.TimeCaptured.IsZero())
}

func TestExtractKeepsLiteralEntityText(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true, cards: []card{
		{title: "Use &amp;lt;div&amp;gt; tags", href: "/rc/clk?jk=1", company: "R&amp;amp;D Co", location: "Austin, TX"},
	}})

	require.Len(t, listings, 1)
	assert.Equal(t, "Use &lt;div&gt; tags", models.Value(listings[0].Designation))
	assert.Equal(t, "R&amp;D Co", models.Value(listings[0].Company))
}

func TestExtractPartialRecord(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true, cards: []card{
		{title: "Analyst", href: "/rc/clk?jk=1"},
		{company: "Gamma", location: "Reno, NV"},
	}})

	require.Len(t, listings, 2)

	titleOnly := listings[0]
	assert.Equal(t, "Analyst", models.Value(titleOnly.Designation))
	assert.NotNil(t, titleOnly.PageLink)
	assert.Nil(t, titleOnly.Company)
	assert.Nil(t, titleOnly.Location)
	assert.False(t, titleOnly.TimeCaptured.IsZero())

	noTitle := listings[1]
	assert.Nil(t, noTitle.Designation)
	assert.Nil(t, noTitle.PageLink)
	assert.Equal(t, "Gamma", models.Value(noTitle.Company))
	assert.Equal(t, "Reno, NV", models.Value(noTitle.Location))
	assert.False(t, noTitle.TimeCaptured.IsZero())
}

func TestExtractFallsBackToSecondaryTitleSelector(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true, cards: []card{
		{title: "Backend Developer", href: "/rc/clk?jk=9", fallback: true, company: "Delta"},
	}})

	require.Len(t, listings, 1)
	assert.Equal(t, "Backend Developer", models.Value(listings[0].Designation))
	assert.Equal(t, "https://jobs.example.com/rc/clk?jk=9", models.Value(listings[0].PageLink))
}

func TestExtractDropsTitleWithoutHref(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true, cards: []card{
		{title: "No Link Role", company: "Epsilon"},
	}})

	require.Len(t, listings, 1)
	assert.Nil(t, listings[0].Designation)
	assert.Nil(t, listings[0].PageLink)
	assert.Equal(t, "Epsilon", models.Value(listings[0].Company))
}

func TestExtractIsIdempotentApartFromCaptureTime(t *testing.T) {
	session, _ := staticRecording(map[string]pageSpec{testBase: {marker: true, cards: []card{
		{title: "Data Engineer", href: "/rc/clk?jk=1", company: "Acme", location: "Austin, TX"},
		{title: "Analyst", href: "/rc/clk?jk=2"},
	}}})
	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, testBase))

	extractor := NewListingExtractor(testSite(), tickingClock(), zerolog.Nop())
	first, err := extractor.Extract(ctx, session)
	require.NoError(t, err)
	second, err := extractor.Extract(ctx, session)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].SameContent(second[i]), "listing %d differs", i)
		assert.NotEqual(t, first[i].TimeCaptured, second[i].TimeCaptured)
	}
	assert.Len(t, session.navigations, 1)
}

func TestExtractEmptyPage(t *testing.T) {
	listings := extractPage(t, pageSpec{marker: true})
	assert.Empty(t, listings)
}
