package browser

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched HTML document and the URL it was served from.
type Page struct {
	URL  string
	Body []byte
}

// Fetcher loads the raw page behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// StaticSession is a Session over plain HTML parsed with goquery.
// Scripts never run, so it only sees server-rendered markup.
type StaticSession struct {
	fetcher Fetcher

	mu     sync.Mutex
	doc    *goquery.Document
	url    string
	closed bool
}

func NewStaticSession(fetcher Fetcher) *StaticSession {
	return &StaticSession{fetcher: fetcher}
}

func (s *StaticSession) Navigate(ctx context.Context, target string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	page, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", target, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return fmt.Errorf("parse %s: %w", target, err)
	}

	finalURL := page.URL
	if finalURL == "" {
		finalURL = target
	}

	s.mu.Lock()
	s.doc = doc
	s.url = finalURL
	s.mu.Unlock()
	return nil
}

func (s *StaticSession) CurrentURL(_ context.Context) (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url, nil
}

func (s *StaticSession) FindOne(_ context.Context, selector string) (Element, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrElementNotFound
	}
	return findOne(doc.Selection, selector)
}

func (s *StaticSession) FindAll(_ context.Context, selector string) ([]Element, error) {
	doc, err := s.document()
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return findAll(doc.Selection, selector), nil
}

// Click is a no-op: static markup has no in-page behavior to trigger.
func (s *StaticSession) Click(_ context.Context, el Element) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, ok := el.(*staticElement); !ok {
		return ErrNotInteractable
	}
	return nil
}

// Follow navigates to the href of the element or its nearest enclosing link,
// resolved against the current URL.
func (s *StaticSession) Follow(ctx context.Context, el Element) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	node, ok := el.(*staticElement)
	if !ok {
		return ErrNotInteractable
	}
	href, ok := node.sel.Closest("a[href]").Attr("href")
	if !ok || strings.TrimSpace(href) == "" || strings.HasPrefix(strings.TrimSpace(href), "javascript:") {
		return ErrNotInteractable
	}

	s.mu.Lock()
	base := s.url
	s.mu.Unlock()
	return s.Navigate(ctx, resolveURL(base, strings.TrimSpace(href)))
}

func (s *StaticSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.doc = nil
	return nil
}

func (s *StaticSession) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	return nil
}

func (s *StaticSession) document() (*goquery.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.doc, nil
}

type staticElement struct {
	sel *goquery.Selection
}

func (e *staticElement) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e *staticElement) Attribute(name string) (string, bool, error) {
	value, ok := e.sel.Attr(name)
	return value, ok, nil
}

func (e *staticElement) FindOne(selector string) (Element, error) {
	return findOne(e.sel, selector)
}

func (e *staticElement) FindAll(selector string) ([]Element, error) {
	return findAll(e.sel, selector), nil
}

func findOne(root *goquery.Selection, selector string) (Element, error) {
	match := root.Find(selector)
	if match.Length() == 0 {
		return nil, ErrElementNotFound
	}
	return &staticElement{sel: match.First()}, nil
}

func findAll(root *goquery.Selection, selector string) []Element {
	match := root.Find(selector)
	elements := make([]Element, 0, match.Length())
	match.Each(func(_ int, sel *goquery.Selection) {
		elements = append(elements, &staticElement{sel: sel})
	})
	return elements
}

func resolveURL(base string, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
