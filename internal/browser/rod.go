package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodLauncher launches Chrome through Rod.
type RodLauncher struct {
	cfg Config
}

// NewRodLauncher creates a launcher for the supplied configuration.
func NewRodLauncher(cfg Config) *RodLauncher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &RodLauncher{cfg: cfg}
}

// Launch starts Chrome and opens a blank page.
func (l *RodLauncher) Launch() (Session, error) {
	lc := launcher.New().
		Headless(l.cfg.Headless).
		Set("no-sandbox").
		Set("disable-gpu")
	if l.cfg.Width > 0 && l.cfg.Height > 0 {
		lc = lc.Set("window-size", strconv.Itoa(l.cfg.Width)+","+strconv.Itoa(l.cfg.Height))
	}
	if l.cfg.Bin != "" {
		lc = lc.Bin(l.cfg.Bin)
	}

	url, err := lc.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		lc.Kill()
		lc.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		lc.Cleanup()
		return nil, fmt.Errorf("open page: %w", err)
	}

	return &rodSession{cleanup: lc.Cleanup, browser: b, page: page, timeout: l.cfg.Timeout}, nil
}

type rodSession struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
	// cleanup removes the launcher's user-data dir once Chrome has exited.
	cleanup func()
}

func (s *rodSession) Navigate(url string) error {
	page := s.page.Timeout(s.timeout)
	defer page.CancelTimeout()
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for %s to load: %w", url, err)
	}
	return nil
}

func (s *rodSession) Title() (string, error) {
	info, err := s.page.Info()
	if err != nil {
		return "", fmt.Errorf("read page title: %w", err)
	}
	return info.Title, nil
}

func (s *rodSession) Find(sel Selector) (Element, error) {
	page := s.page.Sleeper(rod.NotFoundSleeper)
	el, err := lookup(page, sel)
	if err != nil {
		var notFound *rod.ElementNotFoundError
		if errors.As(err, &notFound) {
			return nil, &NotFoundError{Selector: sel}
		}
		return nil, fmt.Errorf("find %s: %w", sel, err)
	}
	return &rodElement{el: el}, nil
}

func (s *rodSession) WaitFor(sel Selector, timeout time.Duration) (Element, error) {
	if timeout <= 0 {
		timeout = s.timeout
	}
	page := s.page.Timeout(timeout)
	defer page.CancelTimeout()
	el, err := lookup(page, sel)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &WaitTimeoutError{Selector: sel, Timeout: timeout}
		}
		return nil, fmt.Errorf("wait for %s: %w", sel, err)
	}
	return &rodElement{el: el.CancelTimeout()}, nil
}

func (s *rodSession) Screenshot(path string) error {
	data, err := s.page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot %q: %w", path, err)
	}
	return nil
}

// Close releases the browser and its user-data dir. Always call this (via defer)
// to avoid orphaned Chrome processes.
func (s *rodSession) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
	return err
}

func lookup(page *rod.Page, sel Selector) (*rod.Element, error) {
	if css, ok := sel.CSS(); ok {
		return page.Element(css)
	}
	return page.ElementX(sel.Value)
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Visible() (bool, error) {
	return e.el.Visible()
}

func (e *rodElement) Input(text string) error {
	return e.el.Input(text)
}

func (e *rodElement) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
