package scraper

import (
	"net/url"
	"strings"
)

// cleanText collapses tabs, newlines and runs of spaces into single spaces.
func cleanText(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil || baseURL.Scheme == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func sameLabel(a, b string) bool {
	a, b = cleanText(a), cleanText(b)
	return a != "" && strings.EqualFold(a, b)
}
