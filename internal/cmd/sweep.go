package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/config"
	"github.com/jimezsa/jobsweep/internal/export"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/jimezsa/jobsweep/internal/network"
	"github.com/jimezsa/jobsweep/internal/scraper"
	"github.com/jimezsa/jobsweep/internal/seen"
	"github.com/jimezsa/jobsweep/internal/store"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
)

type SweepCmd struct {
	Title     string `help:"Job titles (comma-separated)."`
	Location  string `help:"Locations (comma-separated)."`
	Titles    string `help:"File of job titles, one per line, or a JSON file (string array or object with job_titles)."`
	Locations string `help:"File of locations, one per line, or a JSON file (string array or object with locations)."`

	Pages           int           `help:"Page budget per query (config page_budget when unset)."`
	Retries         int           `help:"Re-navigations when the results marker is missing (config load_retries when unset)."`
	Driver          string        `help:"Session driver: rod or http (config driver when unset)." enum:",rod,http" default:""`
	Headful         bool          `help:"Show the browser window (rod driver)."`
	ChromePath      string        `help:"Chrome/Chromium binary (rod driver)."`
	Profile         string        `help:"Selector profile: built-in name or YAML file."`
	Proxies         string        `help:"Comma-separated proxy URLs." env:"JOBSWEEP_PROXIES"`
	MinPageInterval time.Duration `help:"Minimum delay between page loads, e.g. 2s."`

	Format     string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links      string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output     string `name:"output" short:"o" help:"Write output to a file."`
	SQLite     string `name:"sqlite" help:"Append listings to a SQLite database."`
	Seen       string `help:"Path to seen listings JSON file."`
	NewOnly    bool   `help:"Output only unseen listings (requires --seen)."`
	NewOut     string `help:"Write unseen listings JSON to a file (requires --seen)."`
	SeenUpdate bool   `help:"Merge newly discovered listings into --seen after the sweep (requires --seen)."`
}

func (s *SweepCmd) Run(ctx *Context) error {
	if err := s.validateSeenFlags(); err != nil {
		return err
	}

	titles, err := resolveTerms(titleTerms, s.Title, s.Titles)
	if err != nil {
		return err
	}
	locations, err := resolveTerms(locationTerms, s.Location, s.Locations)
	if err != nil {
		return err
	}
	queries := models.Combine(titles, locations)

	cfg := s.applyOverrides(ctx.Config)
	if err := cfg.Validate(); err != nil {
		return err
	}

	profile, err := config.ResolveProfile(cfg.Profile)
	if err != nil {
		return err
	}
	site := scraper.NewSelectorSite(profile)

	proxies, err := config.LoadProxies(s.Proxies)
	if err != nil {
		return err
	}

	outputPath := s.Output
	if err := checkDistinctPaths(outputPath, s.NewOut, s.Seen); err != nil {
		return err
	}
	format, err := resolveFormat(ctx, s.Format, outputPath)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := ctx.Logger.With().Str("run_id", runID).Logger()

	var sink store.Sink
	if strings.TrimSpace(s.SQLite) != "" {
		db, err := store.OpenSQLite(s.SQLite)
		if err != nil {
			return err
		}
		defer db.Close()
		sink = db
	}

	opener, err := newOpener(cfg, proxies, logger)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Int("queries", len(queries)).Str("driver", cfg.Driver).Str("profile", profile.Name).Msg("sweep started")
	runner := scraper.NewRunner(opener, site, scraper.Options{
		PageBudget:  cfg.PageBudget,
		LoadRetries: cfg.LoadRetries,
		Logger:      logger,
		OnQuery:     func(stats scraper.QueryStats) { reportQuery(ctx, stats) },
	})
	result, runErr := runner.Run(runCtx, queries)
	if runErr != nil && len(result.Listings) == 0 {
		return fmt.Errorf("sweep: %w", runErr)
	}

	if sink != nil {
		// The run context may already be canceled; rows collected so far still land.
		if err := sink.Append(context.Background(), runID, result.Listings); err != nil {
			return fmt.Errorf("write --sqlite: %w", err)
		}
	}

	var unseen []models.Listing
	if strings.TrimSpace(s.Seen) != "" {
		history, err := seen.ReadAllowMissing(s.Seen)
		if err != nil {
			return fmt.Errorf("read --seen: %w", err)
		}
		unseen, _ = seen.Diff(result.Listings, history)
	}

	if strings.TrimSpace(s.NewOut) != "" {
		if err := seen.Write(s.NewOut, unseen); err != nil {
			return fmt.Errorf("write --new-out: %w", err)
		}
	}

	output := result.Listings
	if s.NewOnly {
		output = unseen
	}
	if err := writeListings(ctx, outputPath, format, s.Links, output); err != nil {
		return err
	}

	if s.SeenUpdate {
		if err := updateSeenHistory(s.Seen, unseen); err != nil {
			return err
		}
	}

	printSweepSummary(ctx, formatSweepSummary(runID, result, unseen, strings.TrimSpace(s.Seen) != ""))

	if runErr != nil {
		return fmt.Errorf("sweep stopped early: %w", runErr)
	}
	return nil
}

func (s *SweepCmd) validateSeenFlags() error {
	if strings.TrimSpace(s.Seen) != "" {
		return nil
	}
	if s.NewOnly {
		return fmt.Errorf("--new-only requires --seen")
	}
	if strings.TrimSpace(s.NewOut) != "" {
		return fmt.Errorf("--new-out requires --seen")
	}
	if s.SeenUpdate {
		return fmt.Errorf("--seen-update requires --seen")
	}
	return nil
}

// applyOverrides layers the sweep flags over the loaded config.
func (s *SweepCmd) applyOverrides(cfg config.Config) config.Config {
	if s.Driver != "" {
		cfg.Driver = s.Driver
	}
	if s.Headful {
		cfg.Headless = false
	}
	if s.ChromePath != "" {
		cfg.ChromePath = s.ChromePath
	}
	if s.Profile != "" {
		cfg.Profile = s.Profile
	}
	if s.Pages != 0 {
		cfg.PageBudget = s.Pages
	}
	if s.Retries != 0 {
		cfg.LoadRetries = s.Retries
	}
	if s.MinPageInterval > 0 {
		cfg.MinPageIntervalMS = int(s.MinPageInterval / time.Millisecond)
	}
	return cfg
}

func writeListings(ctx *Context, outputPath string, format export.Format, links string, listings []models.Listing) error {
	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteListings(writer, listings, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
	})
}

// newOpener returns the session factory for the configured driver. Every
// session it opens is paced by the configured minimum page interval.
func newOpener(cfg config.Config, proxies []string, logger zerolog.Logger) (browser.Opener, error) {
	interval := cfg.MinPageInterval()

	var rotator *network.Rotator
	if len(proxies) > 0 {
		var err error
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Driver {
	case config.DriverHTTP:
		client, err := network.NewClient(rotator, network.ClientOptions{
			TimeoutSeconds: cfg.PageTimeoutSeconds,
			UserAgent:      cfg.UserAgent,
		})
		if err != nil {
			return nil, err
		}
		return func(context.Context) (browser.Session, error) {
			return browser.Throttle(browser.NewStaticSession(browser.HTTPFetcher{Client: client}), interval), nil
		}, nil
	case config.DriverRod:
		driver := models.DriverConfig{
			Headless:    cfg.Headless,
			ChromePath:  cfg.ChromePath,
			UserAgent:   cfg.UserAgent,
			PageTimeout: cfg.PageTimeout(),
		}
		if rotator != nil {
			driver.Proxy = rotator.First()
		}
		return func(ctx context.Context) (browser.Session, error) {
			session, err := browser.LaunchRod(ctx, driver, logger)
			if err != nil {
				return nil, err
			}
			return browser.Throttle(session, interval), nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown driver: %s", cfg.Driver)
	}
}

func reportQuery(ctx *Context, stats scraper.QueryStats) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	ctx.UI.Statusf("%s | %s: %s listings over %d pages (%s)",
		stats.Query.Title, stats.Query.Location, ctx.UI.Tally(stats.Listings), stats.Pages, stats.StoppedReason)
}

func checkDistinctPaths(outputPath, newOut, seenPath string) error {
	if strings.TrimSpace(newOut) != "" && pathsEqual(outputPath, newOut) {
		return fmt.Errorf("--new-out path must differ from --output")
	}
	if strings.TrimSpace(seenPath) != "" && pathsEqual(outputPath, seenPath) {
		return fmt.Errorf("--output path must differ from --seen")
	}
	if strings.TrimSpace(newOut) != "" && pathsEqual(newOut, seenPath) {
		return fmt.Errorf("--new-out path must differ from --seen")
	}
	return nil
}

func pathsEqual(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil {
		return absA == absB
	}
	return filepath.Clean(a) == filepath.Clean(b)
}

func updateSeenHistory(seenPath string, input []models.Listing) error {
	history, err := seen.ReadAllowMissing(seenPath)
	if err != nil {
		return fmt.Errorf("read --seen: %w", err)
	}

	merged, _ := seen.Merge(history, input)
	if err := seen.Write(seenPath, merged); err != nil {
		return fmt.Errorf("write --seen: %w", err)
	}

	return nil
}

func printSweepSummary(ctx *Context, summary string) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", summary)
}

func formatSweepSummary(runID string, result scraper.Result, unseen []models.Listing, seenEnabled bool) string {
	pages := 0
	for _, stats := range result.Queries {
		pages += stats.Pages
	}

	summary := fmt.Sprintf("summary: run_id=%s queries=%d pages=%d listings=%d",
		runID, len(result.Queries), pages, len(result.Listings))
	if seenEnabled {
		summary += fmt.Sprintf(" new_listings=%d", len(unseen))
	}
	return summary
}

func resolveFormat(ctx *Context, format string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if format != "" {
		return export.ParseFormat(format)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}
