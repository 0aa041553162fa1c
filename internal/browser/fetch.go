package browser

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobsweep/internal/network"
)

// HTTPFetcher fetches pages over the tls-client backed network client.
type HTTPFetcher struct {
	Client *network.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, target string) (Page, error) {
	resp, err := f.Client.Get(ctx, target)
	if err != nil {
		return Page{}, err
	}
	return Page{URL: resp.URL, Body: resp.Body}, nil
}

// FileFetcher serves saved HTML pages from disk. Targets are plain paths or
// file:// URLs.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, target string) (Page, error) {
	path := target
	if strings.HasPrefix(target, "file://") {
		parsed, err := url.Parse(target)
		if err != nil {
			return Page{}, err
		}
		path = parsed.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Page{}, fmt.Errorf("read page: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Page{URL: (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), Body: data}, nil
}
