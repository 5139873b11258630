// Package browser wraps Rod behind small interfaces so the UI suite can run
// against a real Chrome or a fake in unit tests.
package browser

import (
	"fmt"
	"time"
)

// Config configures Chrome launch options.
type Config struct {
	Headless bool          // Run without a visible window
	Timeout  time.Duration // Default wait used by WaitFor callers (10s)
	Bin      string        // Optional browser binary; Rod downloads one when empty
	Width    int
	Height   int
}

// DefaultConfig returns the settings the suite runs with unless configured otherwise.
func DefaultConfig() Config {
	return Config{
		Headless: true,
		Timeout:  10 * time.Second,
		Width:    1920,
		Height:   1080,
	}
}

// Launcher starts a fresh browser session. Each test case owns one session.
type Launcher interface {
	Launch() (Session, error)
}

// Session is a single browser with one active page.
type Session interface {
	Navigate(url string) error
	Title() (string, error)
	// Find looks up an element without waiting.
	Find(sel Selector) (Element, error)
	// WaitFor polls until sel is present or timeout elapses, returning a
	// *WaitTimeoutError on expiry.
	WaitFor(sel Selector, timeout time.Duration) (Element, error)
	Screenshot(path string) error
	Close() error
}

// Element is a located DOM node.
type Element interface {
	Visible() (bool, error)
	Input(text string) error
	Click() error
}

// Kind is the locator strategy of a Selector.
type Kind string

const (
	KindName  Kind = "name"
	KindID    Kind = "id"
	KindClass Kind = "class"
	KindXPath Kind = "xpath"
)

// Selector locates an element by a stable attribute.
type Selector struct {
	Kind  Kind
	Value string
}

// ByName matches elements by their name attribute.
func ByName(name string) Selector { return Selector{Kind: KindName, Value: name} }

// ByID matches the element with the given id.
func ByID(id string) Selector { return Selector{Kind: KindID, Value: id} }

// ByClass matches elements carrying the CSS class.
func ByClass(class string) Selector { return Selector{Kind: KindClass, Value: class} }

// ByXPath matches elements with an XPath expression.
func ByXPath(expr string) Selector { return Selector{Kind: KindXPath, Value: expr} }

// ByText matches a tag whose text contains text.
func ByText(tag, text string) Selector {
	return ByXPath(fmt.Sprintf("//%s[contains(text(), '%s')]", tag, text))
}

// CSS returns the CSS form of the selector, or false for XPath selectors.
func (s Selector) CSS() (string, bool) {
	switch s.Kind {
	case KindName:
		return fmt.Sprintf("[name=%q]", s.Value), true
	case KindID:
		return "#" + s.Value, true
	case KindClass:
		return "." + s.Value, true
	default:
		return "", false
	}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s=%s", s.Kind, s.Value)
}

// WaitTimeoutError reports that an expected element never appeared.
type WaitTimeoutError struct {
	Selector Selector
	Timeout  time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("element %s not present after %s", e.Selector, e.Timeout)
}

// NotFoundError reports that an element was absent on an immediate lookup.
type NotFoundError struct {
	Selector Selector
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element %s not found", e.Selector)
}
