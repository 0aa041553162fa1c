package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/rs/zerolog"
)

const DefaultPageBudget = 101

// StopReason says why a query stopped paging.
type StopReason string

const (
	StopNavigateFailed  StopReason = "navigate-failed"
	StopPageLoadFailed  StopReason = "page-load-failed"
	StopSinglePage      StopReason = "single-page"
	StopBudgetExhausted StopReason = "page-budget-exhausted"
	StopNoNextPage      StopReason = "no-next-page"
	StopNextClickFailed StopReason = "next-click-failed"
	StopAborted         StopReason = "aborted"
)

// QueryStats summarizes one query's walk through the result pages.
type QueryStats struct {
	Query         models.Query `json:"query"`
	SearchURL     string       `json:"search_url"`
	Pages         int          `json:"pages"`
	Listings      int          `json:"listings"`
	StoppedReason StopReason   `json:"stopped_reason"`
}

// Result is everything one run collected, in capture order.
type Result struct {
	Listings []models.Listing
	Queries  []QueryStats
}

type Options struct {
	// PageBudget caps the pages read per query. 1 disables pagination.
	PageBudget  int
	LoadRetries int
	Now         func() time.Time
	Logger      zerolog.Logger
	// OnQuery is called after each query finishes.
	OnQuery func(QueryStats)
}

// Runner walks every query through search, load, extract and next-page on
// a single session.
type Runner struct {
	open       browser.Opener
	site       Site
	loader     *PageLoader
	paginator  *Paginator
	extractor  *ListingExtractor
	pageBudget int
	onQuery    func(QueryStats)
	logger     zerolog.Logger
}

func NewRunner(open browser.Opener, site Site, opts Options) *Runner {
	budget := opts.PageBudget
	if budget <= 0 {
		budget = DefaultPageBudget
	}
	retries := opts.LoadRetries
	if retries <= 0 {
		retries = DefaultLoadRetries
	}
	logger := opts.Logger.With().Str("site", site.Name()).Logger()

	dismisser := NewPopupDismisser(site, logger)
	return &Runner{
		open:       open,
		site:       site,
		loader:     NewPageLoader(site, dismisser, retries, logger),
		paginator:  NewPaginator(site, logger),
		extractor:  NewListingExtractor(site, opts.Now, logger),
		pageBudget: budget,
		onQuery:    opts.OnQuery,
		logger:     logger,
	}
}

// Run opens one session, searches every query in order and closes the
// session once. A query that fails to load is skipped; only fatal session
// errors end the run early, and then the partial result is returned.
func (r *Runner) Run(ctx context.Context, queries []models.Query) (Result, error) {
	var result Result

	session, err := r.open(ctx)
	if err != nil {
		return result, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("close session")
		}
	}()

	for _, q := range queries {
		listings, stats, err := r.search(ctx, session, q)
		result.Listings = append(result.Listings, listings...)
		result.Queries = append(result.Queries, stats)
		if r.onQuery != nil {
			r.onQuery(stats)
		}
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

func (r *Runner) search(ctx context.Context, s browser.Session, q models.Query) ([]models.Listing, QueryStats, error) {
	stats := QueryStats{Query: q, SearchURL: r.site.SearchURL(q)}
	logger := r.logger.With().Str("title", q.Title).Str("location", q.Location).Logger()

	var collected []models.Listing
	if err := s.Navigate(ctx, stats.SearchURL); err != nil {
		if fatal(ctx, err) {
			stats.StoppedReason = StopAborted
			return nil, stats, err
		}
		logger.Warn().Err(err).Str("url", stats.SearchURL).Msg("search navigation failed")
		stats.StoppedReason = StopNavigateFailed
		return nil, stats, nil
	}

	for page := 1; page <= r.pageBudget; page++ {
		current, err := s.CurrentURL(ctx)
		if err != nil {
			if fatal(ctx, err) {
				stats.StoppedReason = StopAborted
				return collected, stats, err
			}
			current = stats.SearchURL
		}

		marker, ok, err := r.loader.Load(ctx, s, current)
		if err != nil {
			stats.StoppedReason = StopAborted
			return collected, stats, err
		}
		if !ok {
			stats.StoppedReason = StopPageLoadFailed
			break
		}
		logger.Info().Int("page", page).Str("marker", marker).Str("url", current).Msg("page loaded")

		listings, err := r.extractor.Extract(ctx, s)
		if err != nil {
			stats.StoppedReason = StopAborted
			return collected, stats, err
		}
		for i := range listings {
			listings[i].QueryTitle = q.Title
			listings[i].QueryLocation = q.Location
			listings[i].Page = page
		}
		collected = append(collected, listings...)
		stats.Pages++
		stats.Listings += len(listings)

		if r.pageBudget == 1 {
			stats.StoppedReason = StopSinglePage
			break
		}
		if page == r.pageBudget {
			stats.StoppedReason = StopBudgetExhausted
			break
		}

		next, err := r.paginator.Next(ctx, s)
		if err != nil {
			stats.StoppedReason = StopAborted
			return collected, stats, err
		}
		if next == nil {
			stats.StoppedReason = StopNoNextPage
			break
		}
		if err := s.Follow(ctx, next); err != nil {
			if fatal(ctx, err) {
				stats.StoppedReason = StopAborted
				return collected, stats, err
			}
			logger.Warn().Err(err).Int("page", page).Msg("next page click failed")
			stats.StoppedReason = StopNextClickFailed
			break
		}
	}

	logger.Info().
		Int("pages", stats.Pages).
		Int("listings", stats.Listings).
		Str("stopped_reason", string(stats.StoppedReason)).
		Msg("query finished")
	return collected, stats, nil
}
