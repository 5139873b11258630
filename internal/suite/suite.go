package suite

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bitrise-io/go-utils/v2/log"
)

// TestPrefix marks the methods that are discovered as test cases.
const TestPrefix = "test_"

// Case is one named UI test.
type Case struct {
	Name string
	Doc  string
	Run  func(t *T) error
}

// Suite is a named collection of cases.
type Suite struct {
	Name  string
	cases map[string]Case
}

// New builds a suite from cases. Later cases replace earlier ones with the same name.
func New(name string, cases ...Case) *Suite {
	s := &Suite{Name: name, cases: make(map[string]Case, len(cases))}
	for _, c := range cases {
		s.cases[c.Name] = c
	}
	return s
}

// Names returns the discovered test names (those carrying TestPrefix) in sorted order.
func (s *Suite) Names() []string {
	names := make([]string, 0, len(s.cases))
	for name := range s.cases {
		if strings.HasPrefix(name, TestPrefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Cases returns the discovered cases in Names order.
func (s *Suite) Cases() []Case {
	names := s.Names()
	out := make([]Case, 0, len(names))
	for _, name := range names {
		out = append(out, s.cases[name])
	}
	return out
}

// Lookup returns the discovered case called name.
func (s *Suite) Lookup(name string) (Case, bool) {
	if !strings.HasPrefix(name, TestPrefix) {
		return Case{}, false
	}
	c, ok := s.cases[name]
	return c, ok
}

// AssertionError records an unmet expectation inside a case.
type AssertionError struct {
	Message string
	Cause   error
}

func (e *AssertionError) Error() string {
	return e.Message
}

func (e *AssertionError) Unwrap() error {
	return e.Cause
}

// Screenshots configures checkpoint capture.
type Screenshots struct {
	Enabled bool
	Dir     string
	Now     func() time.Time
}

// T is handed to each case. It owns nothing but borrows the session created for the case.
type T struct {
	Session browser.Session
	BaseURL string
	Timeout time.Duration

	shots    Screenshots
	logger   log.Logger
	captured []string
}

// NewT prepares the per-case context. The screenshot directory is created when capture is enabled.
func NewT(session browser.Session, baseURL string, timeout time.Duration, shots Screenshots, logger log.Logger) *T {
	if shots.Now == nil {
		shots.Now = time.Now
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if shots.Enabled && shots.Dir != "" {
		if err := os.MkdirAll(shots.Dir, 0o755); err != nil {
			logger.Warnf("Could not create screenshots dir %s: %s", shots.Dir, err)
		}
	}
	return &T{
		Session: session,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: timeout,
		shots:   shots,
		logger:  logger,
	}
}

// Captured returns the screenshot paths written so far.
func (t *T) Captured() []string {
	return append([]string{}, t.captured...)
}

// Open navigates to path relative to the base URL.
func (t *T) Open(path string) error {
	return t.Session.Navigate(t.BaseURL + path)
}

// Screenshot saves {label}_{timestamp}.png when capture is enabled and returns its path.
// Capture problems are logged and never fail the case.
func (t *T) Screenshot(label string) string {
	if !t.shots.Enabled {
		return ""
	}
	name := fmt.Sprintf("%s_%s.png", label, t.shots.Now().Format("20060102-150405"))
	path := filepath.Join(t.shots.Dir, name)
	if err := t.Session.Screenshot(path); err != nil {
		t.logger.Warnf("Screenshot %s failed: %s", label, err)
		return ""
	}
	t.logger.Printf("Screenshot saved: %s", path)
	t.captured = append(t.captured, path)
	return path
}

// Failf returns an AssertionError with a formatted message.
func (t *T) Failf(format string, args ...interface{}) error {
	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// AssertTitleContains fails unless the page title contains want.
func (t *T) AssertTitleContains(want string) error {
	title, err := t.Session.Title()
	if err != nil {
		return err
	}
	if !strings.Contains(title, want) {
		return t.Failf("%q not found in %q", want, title)
	}
	return nil
}

// AssertDisplayed finds sel immediately and fails unless it is visible.
// A missing element is an error, not a failed expectation.
func (t *T) AssertDisplayed(sel browser.Selector) (browser.Element, error) {
	el, err := t.Session.Find(sel)
	if err != nil {
		return nil, err
	}
	visible, err := el.Visible()
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, t.Failf("element %s is not displayed", sel)
	}
	return el, nil
}

// Type finds sel and sends text to it.
func (t *T) Type(sel browser.Selector, text string) error {
	el, err := t.Session.Find(sel)
	if err != nil {
		return err
	}
	return el.Input(text)
}

// Click finds sel and clicks it.
func (t *T) Click(sel browser.Selector) error {
	el, err := t.Session.Find(sel)
	if err != nil {
		return err
	}
	return el.Click()
}

// WaitDisplayed waits up to the case timeout for sel. On timeout it captures
// timeoutLabel and fails with message instead of surfacing the raw timeout.
func (t *T) WaitDisplayed(sel browser.Selector, timeoutLabel, message string) (browser.Element, error) {
	el, err := t.Session.WaitFor(sel, t.Timeout)
	if err != nil {
		var timeout *browser.WaitTimeoutError
		if errors.As(err, &timeout) {
			t.Screenshot(timeoutLabel)
			return nil, &AssertionError{Message: message, Cause: err}
		}
		return nil, err
	}
	visible, err := el.Visible()
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, t.Failf("element %s is not displayed", sel)
	}
	return el, nil
}
