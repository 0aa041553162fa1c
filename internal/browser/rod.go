package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/jimezsa/jobsweep/internal/models"
	"github.com/rs/zerolog"
)

const defaultPageTimeout = 30 * time.Second

// RodSession drives a real Chrome tab through the DevTools protocol.
type RodSession struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	closed bool
}

// LaunchRod starts Chrome and opens the single tab a run works in.
func LaunchRod(ctx context.Context, cfg models.DriverConfig, logger zerolog.Logger) (*RodSession, error) {
	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if cfg.ChromePath != "" {
		l = l.Bin(cfg.ChromePath)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().Context(ctx).ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect chrome: %w", err)
	}

	_ = proto.BrowserSetDownloadBehavior{
		Behavior:         proto.BrowserSetDownloadBehaviorBehaviorDeny,
		BrowserContextID: b.BrowserContextID,
	}.Call(b)

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("open tab: %w", err)
	}

	if cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
			logger.Warn().Err(err).Msg("set user agent")
		}
	}

	// Alerts block every other call on the tab.
	go page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		_ = proto.PageHandleJavaScriptDialog{Accept: false}.Call(page)
	})()

	timeout := cfg.PageTimeout
	if timeout <= 0 {
		timeout = defaultPageTimeout
	}

	logger.Debug().Str("control_url", controlURL).Bool("headless", cfg.Headless).Msg("chrome launched")
	return &RodSession{
		launcher: l,
		browser:  b,
		page:     page,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

func (s *RodSession) Navigate(ctx context.Context, url string) error {
	page, err := s.boundPage(ctx)
	if err != nil {
		return err
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

func (s *RodSession) CurrentURL(ctx context.Context) (string, error) {
	page, err := s.boundPage(ctx)
	if err != nil {
		return "", err
	}
	info, err := page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (s *RodSession) FindOne(ctx context.Context, selector string) (Element, error) {
	page, err := s.boundPage(ctx)
	if err != nil {
		return nil, err
	}
	has, el, err := page.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrElementNotFound
	}
	return &rodElement{el: el}, nil
}

func (s *RodSession) FindAll(ctx context.Context, selector string) ([]Element, error) {
	page, err := s.boundPage(ctx)
	if err != nil {
		return nil, err
	}
	found, err := page.Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapRodElements(found), nil
}

func (s *RodSession) Click(ctx context.Context, el Element) error {
	target, err := s.rodTarget(ctx, el)
	if err != nil {
		return err
	}
	return classifyClick(target.Click(proto.InputMouseButtonLeft, 1))
}

func (s *RodSession) Follow(ctx context.Context, el Element) error {
	target, err := s.rodTarget(ctx, el)
	if err != nil {
		return err
	}

	arm := func(waitCtx context.Context) (func(), error) {
		page, err := s.boundPage(waitCtx)
		if err != nil {
			return nil, err
		}
		return page.WaitNavigation(proto.PageLifecycleEventNameLoad), nil
	}
	click := func() error {
		return classifyClick(target.Click(proto.InputMouseButtonLeft, 1))
	}
	return clickAndWait(ctx, arm, click)
}

// clickAndWait arms a navigation waiter on a child of ctx, clicks, and waits
// only when the click landed. The child is canceled on return, which ends the
// waiter's event subscription when the click fails.
func clickAndWait(ctx context.Context, arm func(context.Context) (func(), error), click func() error) error {
	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wait, err := arm(waitCtx)
	if err != nil {
		return err
	}
	if err := click(); err != nil {
		return err
	}
	wait()
	return nil
}

func (s *RodSession) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.closed = true
	s.mu.Unlock()

	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}

// boundPage returns the tab bound to ctx with the per-page timeout applied.
func (s *RodSession) boundPage(ctx context.Context) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.page.Context(ctx).Timeout(s.timeout), nil
}

func (s *RodSession) rodTarget(ctx context.Context, el Element) (*rod.Element, error) {
	node, ok := el.(*rodElement)
	if !ok {
		return nil, ErrNotInteractable
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}
	return node.el.Context(ctx).Timeout(s.timeout), nil
}

func classifyClick(err error) error {
	if err == nil {
		return nil
	}
	var (
		notInteractable *rod.NotInteractableError
		invisible       *rod.InvisibleShapeError
		covered         *rod.CoveredError
	)
	if errors.As(err, &notInteractable) || errors.As(err, &invisible) || errors.As(err, &covered) {
		return fmt.Errorf("%w: %v", ErrNotInteractable, err)
	}
	return err
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Text() (string, error) {
	return e.el.Text()
}

func (e *rodElement) Attribute(name string) (string, bool, error) {
	value, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if value == nil {
		return "", false, nil
	}
	return *value, true, nil
}

func (e *rodElement) FindOne(selector string) (Element, error) {
	has, el, err := e.el.Has(selector)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrElementNotFound
	}
	return &rodElement{el: el}, nil
}

func (e *rodElement) FindAll(selector string) ([]Element, error) {
	found, err := e.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapRodElements(found), nil
}

func wrapRodElements(found rod.Elements) []Element {
	elements := make([]Element, 0, len(found))
	for _, el := range found {
		elements = append(elements, &rodElement{el: el})
	}
	return elements
}
