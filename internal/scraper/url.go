package scraper

import (
	"net/url"
	"strings"

	"github.com/jimezsa/jobsweep/internal/models"
)

// buildSearchURL renders base?q=<title>&l=<location>&sort=<sort>.
// Spaces in terms become '+'.
func buildSearchURL(base string, sort string, q models.Query) string {
	var b strings.Builder
	b.WriteString(base)
	if strings.Contains(base, "?") {
		b.WriteByte('&')
	} else {
		b.WriteByte('?')
	}
	b.WriteString("q=")
	b.WriteString(url.QueryEscape(strings.TrimSpace(q.Title)))
	b.WriteString("&l=")
	b.WriteString(url.QueryEscape(strings.TrimSpace(q.Location)))
	if sort != "" {
		b.WriteString("&sort=")
		b.WriteString(url.QueryEscape(sort))
	}
	return b.String()
}
