package cmd

import (
	"context"
	"fmt"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/config"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/jimezsa/jobsweep/internal/scraper"
)

// ExtractCmd runs the page pipeline over a saved results page, without a
// browser or network.
type ExtractCmd struct {
	File    string `arg:"" type:"existingfile" help:"Saved results page (HTML)."`
	Profile string `help:"Selector profile: built-in name or YAML file."`
	Format  string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links   string `help:"Table link display: short or full." enum:"short,full" default:"full"`
}

type extraction struct {
	Marker   string
	Listings []models.Listing
	HasNext  bool
}

func (e *ExtractCmd) Run(ctx *Context) error {
	profile, err := config.ResolveProfile(firstNonEmpty(e.Profile, ctx.Config.Profile))
	if err != nil {
		return err
	}

	session := browser.NewStaticSession(browser.FileFetcher{})
	defer session.Close()

	got, err := extractPage(context.Background(), ctx, scraper.NewSelectorSite(profile), session, e.File)
	if err != nil {
		return err
	}

	format, err := resolveFormat(ctx, e.Format, "")
	if err != nil {
		return err
	}
	if err := writeListings(ctx, "", format, e.Links, got.Listings); err != nil {
		return err
	}

	next := "no"
	if got.HasNext {
		next = "yes"
	}
	ctx.UI.Statusf("%s | %s listings, next page: %s", got.Marker, ctx.UI.Tally(len(got.Listings)), next)
	return nil
}

func extractPage(runCtx context.Context, ctx *Context, site scraper.Site, session browser.Session, path string) (extraction, error) {
	logger := ctx.Logger.With().Str("site", site.Name()).Logger()

	if err := session.Navigate(runCtx, path); err != nil {
		return extraction{}, fmt.Errorf("open %s: %w", path, err)
	}

	// A file never changes between reads, so re-navigating cannot help.
	loader := scraper.NewPageLoader(site, scraper.NewPopupDismisser(site, logger), 0, logger)
	marker, ok, err := loader.Load(runCtx, session, path)
	if err != nil {
		return extraction{}, err
	}
	if !ok {
		return extraction{}, fmt.Errorf("%s: results marker not found", path)
	}

	listings, err := scraper.NewListingExtractor(site, nil, logger).Extract(runCtx, session)
	if err != nil {
		return extraction{}, err
	}

	next, err := scraper.NewPaginator(site, logger).Next(runCtx, session)
	if err != nil {
		return extraction{}, err
	}

	return extraction{Marker: marker, Listings: listings, HasNext: next != nil}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
