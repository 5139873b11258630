// Package browsertest provides an in-memory browser for exercising UI cases
// without Chrome.
package browsertest

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bgricker/uicheck/internal/browser"
)

// pngStub is the smallest valid PNG; fake screenshots are written with it.
var pngStub = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0xfc, 0xcf, 0xc0, 0x50,
	0x0f, 0x00, 0x04, 0x85, 0x01, 0x80, 0x84, 0xa9, 0x8c, 0x21, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// Element is a fake DOM node.
type Element struct {
	Hidden  bool
	Value   string
	Clicks  int
	OnClick func(p *Page)
}

func (e *Element) Visible() (bool, error) { return !e.Hidden, nil }

func (e *Element) Input(text string) error {
	e.Value += text
	return nil
}

func (e *Element) Click() error {
	e.Clicks++
	return nil
}

// Page is a fake document keyed by selector.
type Page struct {
	Title    string
	Elements map[browser.Selector]*Element
}

// NewPage creates an empty page with a title.
func NewPage(title string) *Page {
	return &Page{Title: title, Elements: make(map[browser.Selector]*Element)}
}

// Add places el on the page under sel and returns it.
func (p *Page) Add(sel browser.Selector, el *Element) *Element {
	p.Elements[sel] = el
	return el
}

// Site builds a fresh set of pages for every session so cases never share state.
type Site func() map[string]*Page

// Launcher hands out fake sessions.
type Launcher struct {
	Site      Site
	LaunchErr error

	mu       sync.Mutex
	sessions []*Session
}

// Launch returns a new Session or LaunchErr.
func (l *Launcher) Launch() (browser.Session, error) {
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	pages := map[string]*Page{}
	if l.Site != nil {
		pages = l.Site()
	}
	s := &Session{Pages: pages}
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

// Sessions returns every session launched so far.
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session{}, l.sessions...)
}

// Session is a fake browser session.
type Session struct {
	Pages       map[string]*Page
	URL         string
	Closed      bool
	Screenshots []string
	// Waited records every selector passed to WaitFor.
	Waited []browser.Selector

	current *Page
}

func (s *Session) Navigate(url string) error {
	page, ok := s.Pages[url]
	if !ok {
		return fmt.Errorf("navigate to %s: no such page", url)
	}
	s.URL = url
	s.current = page
	return nil
}

func (s *Session) Title() (string, error) {
	if s.current == nil {
		return "", nil
	}
	return s.current.Title, nil
}

func (s *Session) Find(sel browser.Selector) (browser.Element, error) {
	if s.current == nil {
		return nil, &browser.NotFoundError{Selector: sel}
	}
	el, ok := s.current.Elements[sel]
	if !ok {
		return nil, &browser.NotFoundError{Selector: sel}
	}
	return &clickable{Element: el, page: s.current}, nil
}

// WaitFor resolves immediately: present elements are returned, absent ones time out.
func (s *Session) WaitFor(sel browser.Selector, timeout time.Duration) (browser.Element, error) {
	s.Waited = append(s.Waited, sel)
	el, err := s.Find(sel)
	if err != nil {
		return nil, &browser.WaitTimeoutError{Selector: sel, Timeout: timeout}
	}
	return el, nil
}

func (s *Session) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, pngStub, 0o644); err != nil {
		return err
	}
	s.Screenshots = append(s.Screenshots, path)
	return nil
}

func (s *Session) Close() error {
	s.Closed = true
	return nil
}

// clickable runs the element's OnClick hook against the page it lives on.
type clickable struct {
	*Element
	page *Page
}

func (c *clickable) Click() error {
	if err := c.Element.Click(); err != nil {
		return err
	}
	if c.OnClick != nil {
		c.OnClick(c.page)
	}
	return nil
}
