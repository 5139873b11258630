// Package aggregate turns JUnit XML reports into the report model.
package aggregate

import (
	"strconv"
	"strings"

	"github.com/bgricker/uicheck/internal/discovery"
	"github.com/bgricker/uicheck/internal/junit"
	"github.com/bgricker/uicheck/internal/report"
	"github.com/bgricker/uicheck/internal/suite"
	"github.com/bitrise-io/go-utils/v2/log"
)

// SuiteName is the test type shown on the summary sheet.
const SuiteName = "Selenium UI Tests"

// Aggregator reads reports and attaches screenshots. Parse problems are logged
// and degrade to an empty case list.
type Aggregator struct {
	logger log.Logger
}

// New returns an Aggregator that logs to logger, or to a default logger when
// logger is nil.
func New(logger log.Logger) *Aggregator {
	if logger == nil {
		logger = log.NewLogger()
	}
	return &Aggregator{logger: logger}
}

// ParseDir parses the most recently modified XML report in reportDir.
func (a *Aggregator) ParseDir(reportDir, screenshotsDir string) []report.TestCaseResult {
	path, err := discovery.LatestReport(reportDir)
	if err != nil {
		a.logger.Warnf("Warning: could not find XML report: %s", err)
		return []report.TestCaseResult{}
	}
	a.logger.Debugf("Parsing %s", path)
	return a.ParseFile(path, screenshotsDir)
}

// ParseFile parses one XML report.
func (a *Aggregator) ParseFile(path, screenshotsDir string) []report.TestCaseResult {
	suites, err := junit.ParseFile(path)
	if err != nil {
		a.logger.Warnf("Warning: could not parse XML report: %s", err)
		return []report.TestCaseResult{}
	}
	return a.Convert(suites, screenshotsDir)
}

// Convert maps every test case of suites, in document order.
func (a *Aggregator) Convert(suites []junit.TestSuite, screenshotsDir string) []report.TestCaseResult {
	cases := []report.TestCaseResult{}
	for _, ts := range suites {
		for _, tc := range ts.TestCases {
			status, reason := classify(tc)
			shots, err := discovery.Screenshots(screenshotsDir, ScreenshotKey(tc.Name))
			if err != nil {
				a.logger.Warnf("Warning: could not list screenshots for %s: %s", tc.Name, err)
			}
			cases = append(cases, report.NewTestCaseResult(QualifiedName(tc), status, parseTime(tc.Time), reason, shots))
		}
	}
	return cases
}

// QualifiedName joins classname and name; a missing classname leaves the bare name.
func QualifiedName(tc junit.TestCase) string {
	if tc.ClassName == "" {
		return tc.Name
	}
	return tc.ClassName + "." + tc.Name
}

// ScreenshotKey is the file name fragment screenshots of a case are matched on.
func ScreenshotKey(name string) string {
	return strings.TrimPrefix(name, suite.TestPrefix)
}

func classify(tc junit.TestCase) (report.Status, string) {
	switch {
	case tc.Failure != nil:
		return report.StatusFailed, tc.Failure.Message
	case tc.Error != nil:
		return report.StatusError, tc.Error.Message
	default:
		return report.StatusPassed, ""
	}
}

func parseTime(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// BuildSuiteResult assembles the suite-level result of a completed run.
func BuildSuiteResult(name string, success bool, cases []report.TestCaseResult, screenshotsDir string) report.SuiteResult {
	res := report.SuiteResult{
		Name:           name,
		Status:         report.StatusPassed,
		Cases:          append([]report.TestCaseResult{}, cases...),
		ScreenshotsDir: screenshotsDir,
	}
	if !success {
		res.Status, res.ExitCode = report.StatusFailed, 1
	}
	return res
}

// RunFailed is the result of a run that could not execute at all.
func RunFailed(name string) report.SuiteResult {
	return report.SuiteResult{Name: name, Status: report.StatusError, ExitCode: 1, Cases: []report.TestCaseResult{}}
}
