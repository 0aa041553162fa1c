package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	texasQuery = models.Query{Title: "data scientist", Location: "Texas"}
	ohioQuery  = models.Query{Title: "data scientist", Location: "Ohio"}
)

const (
	texasURL      = testBase + "?q=data+scientist&l=Texas&sort=date"
	texasPage2URL = texasURL + "&start=10"
	ohioURL       = testBase + "?q=data+scientist&l=Ohio&sort=date"
)

func page1Spec() pageSpec {
	return pageSpec{
		marker: true,
		popup:  true,
		cards: []card{
			{title: "Data Scientist", href: "/rc/clk?jk=1", company: "Acme", location: "Austin, TX"},
			{title: "Sponsored Scientist", href: "/pagead/1", company: "AdCo", sponsored: true},
			{title: "Research Scientist", href: "/rc/clk?jk=2", company: "Beta", location: "Dallas, TX"},
		},
		controls: []control{
			{"Jobs by date", "/jobs?q=data+scientist&l=Texas&sort=date"},
			{"Next »", "/jobs?q=data+scientist&l=Texas&sort=date&start=10"},
		},
	}
}

func page2Spec() pageSpec {
	return pageSpec{
		marker: true,
		cards: []card{
			{title: "Data Analyst", href: "/rc/clk?jk=3", company: "Gamma", location: "Houston, TX"},
		},
		controls: []control{{"« Previous", "/jobs?q=data+scientist&l=Texas&sort=date"}},
	}
}

type openerSpy struct {
	session *recordingSession
	opens   int
	wrap    func(browser.Session) browser.Session
	err     error
}

func (o *openerSpy) open(context.Context) (browser.Session, error) {
	o.opens++
	if o.err != nil {
		return nil, o.err
	}
	if o.wrap != nil {
		return o.wrap(o.session), nil
	}
	return o.session, nil
}

func newTestRunner(spy *openerSpy, budget int) *Runner {
	return NewRunner(spy.open, testSite(), Options{
		PageBudget: budget,
		Now:        tickingClock(),
		Logger:     zerolog.Nop(),
	})
}

func TestRunSinglePageBudget(t *testing.T) {
	session, _ := staticRecording(map[string]pageSpec{texasURL: page1Spec()})
	spy := &openerSpy{session: session}

	result, err := newTestRunner(spy, 1).Run(context.Background(), []models.Query{texasQuery})
	require.NoError(t, err)

	assert.Equal(t, []string{texasURL}, session.navigations)
	assert.Zero(t, session.scans[".np"])
	assert.Zero(t, session.follows)

	require.Len(t, result.Queries, 1)
	assert.Equal(t, StopSinglePage, result.Queries[0].StoppedReason)
	assert.Equal(t, 1, result.Queries[0].Pages)

	require.Len(t, result.Listings, 2)
	for _, listing := range result.Listings {
		assert.Equal(t, "data scientist", listing.QueryTitle)
		assert.Equal(t, "Texas", listing.QueryLocation)
		assert.Equal(t, 1, listing.Page)
	}
}

func TestRunFollowsNextUntilLastPage(t *testing.T) {
	session, fetcher := staticRecording(map[string]pageSpec{
		texasURL:      page1Spec(),
		texasPage2URL: page2Spec(),
	})
	spy := &openerSpy{session: session}

	result, err := newTestRunner(spy, DefaultPageBudget).Run(context.Background(), []models.Query{texasQuery})
	require.NoError(t, err)

	assert.Equal(t, []string{texasURL, texasPage2URL}, fetcher.fetches)
	assert.Equal(t, 1, session.follows)

	require.Len(t, result.Queries, 1)
	stats := result.Queries[0]
	assert.Equal(t, 2, stats.Pages)
	assert.Equal(t, 3, stats.Listings)
	assert.Equal(t, StopNoNextPage, stats.StoppedReason)

	require.Len(t, result.Listings, 3)
	assert.Equal(t, 1, result.Listings[0].Page)
	assert.Equal(t, 1, result.Listings[1].Page)
	assert.Equal(t, 2, result.Listings[2].Page)
	assert.Equal(t, "Data Analyst", models.Value(result.Listings[2].Designation))
}

func TestRunStopsAtPageBudget(t *testing.T) {
	page2 := page2Spec()
	page2.controls = []control{{"« Previous", "/jobs"}, {"Next »", "/jobs?start=20"}}
	session, _ := staticRecording(map[string]pageSpec{
		texasURL:      page1Spec(),
		texasPage2URL: page2,
	})
	spy := &openerSpy{session: session}

	result, err := newTestRunner(spy, 2).Run(context.Background(), []models.Query{texasQuery})
	require.NoError(t, err)

	assert.Equal(t, 1, session.follows)
	assert.Equal(t, 1, session.scans[".np"])
	assert.Equal(t, StopBudgetExhausted, result.Queries[0].StoppedReason)
	assert.Equal(t, 2, result.Queries[0].Pages)
}

func TestRunSkipsQueryThatNeverLoads(t *testing.T) {
	session, _ := staticRecording(map[string]pageSpec{
		texasURL: {cards: []card{{title: "Hidden", href: "/x"}}},
		ohioURL:  {marker: true, cards: []card{{title: "Ohio Role", href: "/rc/clk?jk=5", company: "Zeta"}}},
	})
	spy := &openerSpy{session: session}

	result, err := newTestRunner(spy, 1).Run(context.Background(), []models.Query{texasQuery, ohioQuery})
	require.NoError(t, err)

	require.Len(t, result.Queries, 2)
	assert.Equal(t, StopPageLoadFailed, result.Queries[0].StoppedReason)
	assert.Zero(t, result.Queries[0].Pages)
	assert.Equal(t, StopSinglePage, result.Queries[1].StoppedReason)

	// Initial navigation plus four reloads for Texas, then one for Ohio.
	assert.Len(t, session.navigations, 6)

	require.Len(t, result.Listings, 1)
	assert.Equal(t, "Ohio Role", models.Value(result.Listings[0].Designation))
	assert.Equal(t, 1, spy.opens)
	assert.Equal(t, 1, session.closes)
}

func TestRunContinuesAfterNavigationFailure(t *testing.T) {
	session, _ := staticRecording(map[string]pageSpec{
		ohioURL: {marker: true, cards: []card{{title: "Ohio Role", href: "/rc/clk?jk=5"}}},
	})
	spy := &openerSpy{session: session}

	var reported []QueryStats
	runner := NewRunner(spy.open, testSite(), Options{
		PageBudget: 1,
		Logger:     zerolog.Nop(),
		OnQuery:    func(stats QueryStats) { reported = append(reported, stats) },
	})
	result, err := runner.Run(context.Background(), []models.Query{texasQuery, ohioQuery})
	require.NoError(t, err)

	assert.Equal(t, StopNavigateFailed, result.Queries[0].StoppedReason)
	assert.Len(t, result.Listings, 1)
	assert.Equal(t, result.Queries, reported)
}

func TestRunStopsWhenNextClickFails(t *testing.T) {
	page1 := page1Spec()
	page1.popup = false
	session, _ := staticRecording(map[string]pageSpec{texasURL: page1})
	spy := &openerSpy{
		session: session,
		wrap:    func(s browser.Session) browser.Session { return stuckSession{Session: s} },
	}

	result, err := newTestRunner(spy, DefaultPageBudget).Run(context.Background(), []models.Query{texasQuery})
	require.NoError(t, err)
	assert.Equal(t, StopNextClickFailed, result.Queries[0].StoppedReason)
	assert.Len(t, result.Listings, 2)
	assert.Equal(t, 1, session.closes)
}

func TestRunAbortsOnClosedSessionAndReleasesOnce(t *testing.T) {
	session, _ := staticRecording(map[string]pageSpec{
		texasURL: page1Spec(),
		ohioURL:  page1Spec(),
	})
	session.navigateErr = browser.ErrSessionClosed
	session.failNavigateAfter = 1
	spy := &openerSpy{session: session}

	result, err := newTestRunner(spy, 1).Run(context.Background(), []models.Query{texasQuery, ohioQuery})
	require.Error(t, err)
	assert.ErrorIs(t, err, browser.ErrSessionClosed)

	assert.Len(t, result.Listings, 2)
	require.Len(t, result.Queries, 2)
	assert.Equal(t, StopAborted, result.Queries[1].StoppedReason)
	assert.Equal(t, 1, spy.opens)
	assert.Equal(t, 1, session.closes)
}

func TestRunAbortsOnCanceledContext(t *testing.T) {
	session, _ := staticRecording(map[string]pageSpec{texasURL: page1Spec()})
	spy := &openerSpy{session: session}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(spy.open, testSite(), Options{PageBudget: 1, Logger: zerolog.Nop()})
	_, err := runner.Run(ctx, []models.Query{texasQuery, ohioQuery})
	require.Error(t, err)
	assert.Equal(t, 1, session.closes)
}

func TestRunReportsOpenFailure(t *testing.T) {
	spy := &openerSpy{err: errors.New("chrome not found")}

	_, err := newTestRunner(spy, 1).Run(context.Background(), []models.Query{texasQuery})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open session")
	assert.Contains(t, err.Error(), "chrome not found")
}
