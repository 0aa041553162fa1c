package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jimezsa/jobsweep/internal/browser"
	"github.com/jimezsa/jobsweep/internal/config"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/jimezsa/jobsweep/internal/scraper"
	"github.com/rs/zerolog"
)

func builtinSite(t *testing.T) scraper.Site {
	t.Helper()
	profile, err := config.ResolveProfile(config.DefaultProfile)
	if err != nil {
		t.Fatalf("ResolveProfile() error = %v", err)
	}
	return scraper.NewSelectorSite(profile)
}

func TestExtractPageFromSavedResults(t *testing.T) {
	ctx := &Context{Logger: zerolog.Nop()}
	session := browser.NewStaticSession(browser.FileFetcher{})
	defer session.Close()

	got, err := extractPage(context.Background(), ctx, builtinSite(t), session, filepath.Join("testdata", "results.html"))
	if err != nil {
		t.Fatalf("extractPage() error = %v", err)
	}

	if got.Marker != "Page 2 of 240 jobs" {
		t.Fatalf("Marker = %q, want %q", got.Marker, "Page 2 of 240 jobs")
	}
	if !got.HasNext {
		t.Fatalf("HasNext = false, want true")
	}
	if len(got.Listings) != 2 {
		t.Fatalf("len(Listings) = %d, want 2 (sponsored card skipped)", len(got.Listings))
	}

	first := got.Listings[0]
	if models.Value(first.Designation) != "Data Scientist" {
		t.Fatalf("Designation = %q, want %q", models.Value(first.Designation), "Data Scientist")
	}
	if models.Value(first.PageLink) != "https://www.indeed.com/viewjob?jk=a1" {
		t.Fatalf("PageLink = %q", models.Value(first.PageLink))
	}
	if models.Value(first.Company) != "Acme Analytics" {
		t.Fatalf("Company = %q, want %q", models.Value(first.Company), "Acme Analytics")
	}
	if models.Value(first.Location) != "Austin, TX" {
		t.Fatalf("Location = %q, want %q", models.Value(first.Location), "Austin, TX")
	}

	partial := got.Listings[1]
	if partial.Designation != nil || partial.PageLink != nil {
		t.Fatalf("partial listing has title fields: %#v", partial)
	}
	if models.Value(partial.Company) != "Beta Labs" || models.Value(partial.Location) != "Remote" {
		t.Fatalf("partial listing = %#v, want company and location kept", partial)
	}
	if partial.TimeCaptured.IsZero() {
		t.Fatalf("TimeCaptured is zero")
	}
}

func TestExtractPageWithoutMarker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.html")
	if err := os.WriteFile(path, []byte("<html><body><p>captcha</p></body></html>"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx := &Context{Logger: zerolog.Nop()}
	session := browser.NewStaticSession(browser.FileFetcher{})
	defer session.Close()

	if _, err := extractPage(context.Background(), ctx, builtinSite(t), session, path); err == nil {
		t.Fatalf("extractPage() error = nil, want marker error")
	}
}

func TestExtractPageLoneNextControlIsNotFollowed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "first.html")
	page := `<html><body><div id="searchCount">Page 1 of 240 jobs</div>
<div class="row result clickcard"><a class="jobtitle turnstileLink" href="https://www.indeed.com/viewjob?jk=a1">Data Scientist</a></div>
<a href="https://www.indeed.com/jobs?start=10"><span class="np">Next &raquo;</span></a>
</body></html>`
	if err := os.WriteFile(path, []byte(page), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	ctx := &Context{Logger: zerolog.Nop()}
	session := browser.NewStaticSession(browser.FileFetcher{})
	defer session.Close()

	got, err := extractPage(context.Background(), ctx, builtinSite(t), session, path)
	if err != nil {
		t.Fatalf("extractPage() error = %v", err)
	}
	if got.HasNext {
		t.Fatalf("HasNext = true, want false for a single ambiguous control")
	}
	if len(got.Listings) != 1 {
		t.Fatalf("len(Listings) = %d, want 1", len(got.Listings))
	}
}
