package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "tsv":
		return FormatTSV, nil
	case "table", "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func WriteListings(w io.Writer, listings []models.Listing, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, listings)
	case FormatCSV:
		return writeCSV(w, listings, ',')
	case FormatTSV:
		return writeCSV(w, listings, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, listings)
	default:
		return writeTable(w, listings, opts)
	}
}

func writeJSON(w io.Writer, listings []models.Listing) error {
	if listings == nil {
		listings = []models.Listing{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}

func writeCSV(w io.Writer, listings []models.Listing, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, listing := range listings {
		if err := writer.Write(csvRow(listing)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, listings []models.Listing, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, listing := range listings {
		fmt.Fprintln(tw, strings.Join(tableRow(listing, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, listings []models.Listing) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, listing := range listings {
		urlLine := "  URL: -"
		if link := safe(listing.PageLink); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", orDash(listing.Designation), orDash(listing.Company)),
			fmt.Sprintf("  Location: %s", orDash(listing.Location)),
			urlLine,
			fmt.Sprintf("  Captured: %s", listing.TimeCaptured.Format(time.RFC3339)),
		}
		if listing.QueryTitle != "" {
			lines = append(lines, fmt.Sprintf("  Query: %s in %s (page %d)", listing.QueryTitle, listing.QueryLocation, listing.Page))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"designation",
		"company",
		"location",
		"page_link",
		"time_captured",
		"query_title",
		"query_location",
		"page",
	}
}

func csvRow(listing models.Listing) []string {
	captured := ""
	if !listing.TimeCaptured.IsZero() {
		captured = listing.TimeCaptured.Format(time.RFC3339)
	}
	page := ""
	if listing.Page > 0 {
		page = strconv.Itoa(listing.Page)
	}
	return []string{
		models.Value(listing.Designation),
		models.Value(listing.Company),
		models.Value(listing.Location),
		models.Value(listing.PageLink),
		captured,
		listing.QueryTitle,
		listing.QueryLocation,
		page,
	}
}

func safe(value *string) string {
	return strings.TrimSpace(models.Value(value))
}

func orDash(value *string) string {
	if v := safe(value); v != "" {
		return v
	}
	return "-"
}

func tableHeader() []string {
	return []string{
		"title",
		"company",
		"location",
		"url",
	}
}

func tableRow(listing models.Listing, output *termenv.Output, opts WriteOptions) []string {
	const linkColor = "#87CEEB"

	link := safe(listing.PageLink)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		if opts.ColorEnabled {
			displayURL = output.String(displayURL).Foreground(output.Color(linkColor)).String()
		}
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}
	return []string{
		orDash(listing.Designation),
		orDash(listing.Company),
		orDash(listing.Location),
		displayURL,
	}
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
