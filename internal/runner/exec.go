package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bgricker/uicheck/internal/browser"
	"github.com/bgricker/uicheck/internal/filter"
	"github.com/bgricker/uicheck/internal/junit"
	"github.com/bgricker/uicheck/internal/report"
	"github.com/bgricker/uicheck/internal/suite"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/google/uuid"
)

// AllPrefix names the report directory of a full run.
const AllPrefix = "selenium_test_report"

// Options configure how the runner executes cases.
type Options struct {
	Suite       *suite.Suite
	Launcher    browser.Launcher
	BaseURL     string
	Timeout     time.Duration
	Screenshots suite.Screenshots
	ReportsDir  string
	Only        []filter.Pattern
	Skip        []filter.Pattern
	Logger      log.Logger
	Now         func() time.Time
	NewRunID    func() string
}

// Runner executes suite cases sequentially.
type Runner struct {
	opts Options
}

// TestNotFoundError is returned by RunOne for a name the suite does not define.
type TestNotFoundError struct {
	Name      string
	Available []string
}

func (e *TestNotFoundError) Error() string {
	return fmt.Sprintf("test %q not found", e.Name)
}

// CaseOutcome is the result of one executed case.
type CaseOutcome struct {
	Name        string
	Status      report.Status
	Duration    time.Duration
	Reason      string
	Screenshots []string
}

// Result describes one run.
type Result struct {
	Suite     string
	Cases     []CaseOutcome
	ReportDir string
	XMLPath   string
	Success   bool
}

// Summary counts the outcomes by status.
func (r Result) Summary() report.Summary {
	return r.SuiteResult().Summary()
}

// SuiteResult converts the run into the report model.
func (r Result) SuiteResult() report.SuiteResult {
	cases := make([]report.TestCaseResult, 0, len(r.Cases))
	for _, c := range r.Cases {
		cases = append(cases, report.NewTestCaseResult(r.Suite+"."+c.Name, c.Status, c.Duration.Seconds(), c.Reason, c.Screenshots))
	}
	status, code := report.StatusPassed, 0
	if !r.Success {
		status, code = report.StatusFailed, 1
	}
	return report.SuiteResult{Name: r.Suite, Status: status, ExitCode: code, Cases: cases}
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Suite == nil {
		opts.Suite = suite.New("")
	}
	if opts.Logger == nil {
		opts.Logger = log.NewLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewRunID == nil {
		opts.NewRunID = uuid.NewString
	}
	if opts.ReportsDir == "" {
		opts.ReportsDir = "test_reports"
	}
	if opts.Screenshots.Now == nil {
		opts.Screenshots.Now = opts.Now
	}
	return &Runner{opts: opts}
}

// ListTests returns the discovered test names.
func (r *Runner) ListTests() []string {
	return r.opts.Suite.Names()
}

// RunAll executes every discovered case that passes the only/skip filters.
func (r *Runner) RunAll(ctx context.Context, emitXML bool) (Result, error) {
	names := filter.Names(r.ListTests(), r.opts.Only, r.opts.Skip)
	if len(names) == 0 {
		r.opts.Logger.Warnf("No tests selected")
	}
	cases := make([]suite.Case, 0, len(names))
	for _, name := range names {
		c, _ := r.opts.Suite.Lookup(name)
		cases = append(cases, c)
	}
	return r.run(ctx, cases, AllPrefix, emitXML)
}

// RunOne executes a single named case.
func (r *Runner) RunOne(ctx context.Context, name string, emitXML bool) (Result, error) {
	c, ok := r.opts.Suite.Lookup(name)
	if !ok {
		return Result{}, &TestNotFoundError{Name: name, Available: r.ListTests()}
	}
	return r.run(ctx, []suite.Case{c}, name, emitXML)
}

func (r *Runner) run(ctx context.Context, cases []suite.Case, prefix string, emitXML bool) (Result, error) {
	started := r.opts.Now()
	result := Result{Suite: r.opts.Suite.Name, Success: true}

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("run interrupted before %s: %w", c.Name, err)
		}
		outcome := r.runCase(c)
		r.opts.Logger.Printf("%s (%s) ... %s", c.Name, result.Suite, statusWord(outcome.Status))
		if outcome.Status != report.StatusPassed {
			result.Success = false
		}
		result.Cases = append(result.Cases, outcome)
	}

	if emitXML {
		dir := filepath.Join(r.opts.ReportsDir, fmt.Sprintf("%s_%s", prefix, started.Format("20060102_150405")))
		path := filepath.Join(dir, fmt.Sprintf("TEST-%s.xml", result.Suite))
		if err := junit.WriteFile(path, r.junitSuite(result, started)); err != nil {
			return result, fmt.Errorf("write xml report: %w", err)
		}
		result.ReportDir = dir
		result.XMLPath = path
	}
	return result, nil
}

// runCase owns the browser session for exactly one case. The session is closed
// on every exit path and a panicking case is recorded as an error.
func (r *Runner) runCase(c suite.Case) (outcome CaseOutcome) {
	outcome.Name = c.Name
	start := r.opts.Now()
	var t *suite.T
	defer func() {
		if rec := recover(); rec != nil {
			outcome.Status = report.StatusError
			outcome.Reason = fmt.Sprintf("panic: %v", rec)
		}
		if t != nil {
			outcome.Screenshots = t.Captured()
		}
		outcome.Duration = r.opts.Now().Sub(start)
	}()

	if r.opts.Launcher == nil {
		outcome.Status = report.StatusError
		outcome.Reason = "no browser launcher configured"
		return outcome
	}
	session, err := r.opts.Launcher.Launch()
	if err != nil {
		outcome.Status = report.StatusError
		outcome.Reason = fmt.Sprintf("launch browser: %s", err)
		return outcome
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.opts.Logger.Warnf("Close browser for %s: %s", c.Name, err)
		}
	}()

	t = suite.NewT(session, r.opts.BaseURL, r.opts.Timeout, r.opts.Screenshots, r.opts.Logger)
	outcome.Status, outcome.Reason = classify(c.Run(t))
	return outcome
}

// classify maps a case error to its status: unmet expectations and wait
// timeouts fail the case, anything else is an error.
func classify(err error) (report.Status, string) {
	if err == nil {
		return report.StatusPassed, ""
	}
	var assertion *suite.AssertionError
	if errors.As(err, &assertion) {
		return report.StatusFailed, assertion.Message
	}
	var timeout *browser.WaitTimeoutError
	if errors.As(err, &timeout) {
		return report.StatusFailed, timeout.Error()
	}
	return report.StatusError, err.Error()
}

func (r *Runner) junitSuite(result Result, started time.Time) junit.TestSuite {
	ts := junit.TestSuite{
		Name:       result.Suite,
		Tests:      len(result.Cases),
		Timestamp:  started.Format("2006-01-02T15:04:05"),
		Properties: []junit.Property{{Name: junit.RunIDProperty, Value: r.opts.NewRunID()}},
	}
	var total time.Duration
	for _, c := range result.Cases {
		total += c.Duration
		tc := junit.TestCase{
			Name:      c.Name,
			ClassName: result.Suite,
			Time:      strconv.FormatFloat(c.Duration.Seconds(), 'f', 3, 64),
		}
		switch c.Status {
		case report.StatusFailed:
			ts.Failures++
			tc.Failure = &junit.Failure{Message: c.Reason, Type: "AssertionError", Value: c.Reason}
		case report.StatusError:
			ts.Errors++
			tc.Error = &junit.Error{Message: c.Reason, Type: "Error", Value: c.Reason}
		}
		ts.TestCases = append(ts.TestCases, tc)
	}
	ts.Time = total.Seconds()
	return ts
}

func statusWord(s report.Status) string {
	switch s {
	case report.StatusPassed:
		return "ok"
	case report.StatusFailed:
		return "FAIL"
	default:
		return strings.ToUpper(string(report.StatusError))
	}
}
