package browser

import (
	"context"
	"errors"
)

var (
	// ErrElementNotFound is returned when a selector matches nothing.
	ErrElementNotFound = errors.New("element not found")
	// ErrNotInteractable is returned when an element cannot be clicked.
	ErrNotInteractable = errors.New("element not interactable")
	// ErrSessionClosed is returned by every call made after Close.
	ErrSessionClosed = errors.New("session closed")
)

// Session is the single live page the scraper drives.
type Session interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	FindOne(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	// Click activates el in place, without waiting for a navigation.
	Click(ctx context.Context, el Element) error
	// Follow activates el and waits for the navigation it starts.
	Follow(ctx context.Context, el Element) error
	Close() error
}

// Element is a node found on the current page.
type Element interface {
	Text() (string, error)
	Attribute(name string) (string, bool, error)
	FindOne(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
}

// Opener acquires a session for one run.
type Opener func(ctx context.Context) (Session, error)
