package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jimezsa/jobsweep/internal/browser"
)

const testBase = "https://jobs.example.com/jobs"

func testProfile() Profile {
	return Profile{
		Name:      "test",
		SearchURL: testBase,
		Sort:      "date",
		Marker:    "#searchCount",
		Popup: PopupRule{
			Overlay: ".popover.popover-foreground.jobalert-popover",
			Close:   ".popover-x",
		},
		Listing:   ".row.result.clickcard",
		Sponsored: ".sponsoredGray",
		Fields: FieldRules{
			Title:    []string{".jobtitle.turnstileLink", ".turnstileLink"},
			Company:  []string{".company"},
			Location: []string{".location"},
		},
		Paging: PagingRules{
			Control:       ".np",
			PreviousLabel: "« Previous",
		},
	}
}

func testSite() *SelectorSite {
	return NewSelectorSite(testProfile())
}

type card struct {
	title     string
	href      string
	fallback  bool
	company   string
	location  string
	sponsored bool
}

type pageSpec struct {
	marker   bool
	popup    bool
	cards    []card
	controls []control
}

type control struct {
	label string
	href  string
}

func renderPage(fixture pageSpec) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	if fixture.popup {
		b.WriteString(`<div class="popover popover-foreground jobalert-popover"><a class="popover-x" href="#">&times;</a></div>` + "\n")
	}
	if fixture.marker {
		b.WriteString("<div id=\"searchCount\">\n\tPage 1 of 240 jobs\n</div>\n")
	}
	for _, c := range fixture.cards {
		b.WriteString(`<div class="row result clickcard">`)
		if c.title != "" {
			class := "jobtitle turnstileLink"
			if c.fallback {
				class = "turnstileLink"
			}
			fmt.Fprintf(&b, `<h2><a class="%s" href="%s">%s</a></h2>`, class, c.href, c.title)
		}
		if c.company != "" {
			fmt.Fprintf(&b, `<span class="company">%s</span>`, c.company)
		}
		if c.location != "" {
			fmt.Fprintf(&b, `<span class="location">%s</span>`, c.location)
		}
		if c.sponsored {
			b.WriteString(`<span class=" sponsoredGray ">Sponsored</span>`)
		}
		b.WriteString("</div>\n")
	}
	if len(fixture.controls) > 0 {
		b.WriteString(`<div class="pagination">`)
		for _, ctl := range fixture.controls {
			fmt.Fprintf(&b, `<a class="np" href="%s">%s</a>`, ctl.href, ctl.label)
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

// siteFetcher serves rendered pages by URL and counts fetches.
type siteFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fetches []string
	// sequences serves successive bodies for a URL, repeating the last one.
	sequences map[string][]string
}

func newSiteFetcher(pages map[string]pageSpec) *siteFetcher {
	rendered := make(map[string]string, len(pages))
	for url, fixture := range pages {
		rendered[url] = renderPage(fixture)
	}
	return &siteFetcher{pages: rendered}
}

func (f *siteFetcher) Fetch(_ context.Context, url string) (browser.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, url)
	if seq := f.sequences[url]; len(seq) > 0 {
		if len(seq) > 1 {
			f.sequences[url] = seq[1:]
		}
		return browser.Page{URL: url, Body: []byte(seq[0])}, nil
	}
	body, ok := f.pages[url]
	if !ok {
		return browser.Page{}, errors.New("http 404")
	}
	return browser.Page{URL: url, Body: []byte(body)}, nil
}

// recordingSession counts the calls the scraper makes on a session.
type recordingSession struct {
	browser.Session

	navigations []string
	scans       map[string]int
	clicks      int
	follows     int
	closes      int

	failNavigateAfter int
	navigateErr       error
}

func newRecordingSession(inner browser.Session) *recordingSession {
	return &recordingSession{Session: inner, scans: map[string]int{}}
}

func (r *recordingSession) Navigate(ctx context.Context, url string) error {
	r.navigations = append(r.navigations, url)
	if r.navigateErr != nil && len(r.navigations) > r.failNavigateAfter {
		return r.navigateErr
	}
	return r.Session.Navigate(ctx, url)
}

func (r *recordingSession) FindAll(ctx context.Context, selector string) ([]browser.Element, error) {
	r.scans[selector]++
	return r.Session.FindAll(ctx, selector)
}

func (r *recordingSession) Click(ctx context.Context, el browser.Element) error {
	r.clicks++
	return r.Session.Click(ctx, el)
}

func (r *recordingSession) Follow(ctx context.Context, el browser.Element) error {
	r.follows++
	return r.Session.Follow(ctx, el)
}

func (r *recordingSession) Close() error {
	r.closes++
	return r.Session.Close()
}

func staticRecording(pages map[string]pageSpec) (*recordingSession, *siteFetcher) {
	fetcher := newSiteFetcher(pages)
	return newRecordingSession(browser.NewStaticSession(fetcher)), fetcher
}

// stuckSession fails every click.
type stuckSession struct {
	browser.Session
}

func (s stuckSession) Click(context.Context, browser.Element) error {
	return browser.ErrNotInteractable
}

func (s stuckSession) Follow(context.Context, browser.Element) error {
	return browser.ErrNotInteractable
}
