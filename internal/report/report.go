package report

// Status is the outcome of a single test case or of a whole suite run.
type Status string

const (
	StatusPassed Status = "PASSED"
	StatusFailed Status = "FAILED"
	StatusError  Status = "ERROR"
)

// TestCaseResult captures the outcome of a single test case.
type TestCaseResult struct {
	QualifiedName   string   `json:"name"`
	Status          Status   `json:"status"`
	DurationSeconds float64  `json:"time"`
	Reason          string   `json:"reason"`
	Screenshots     []string `json:"screenshots"`
}

// NewTestCaseResult builds a TestCaseResult owning its own copy of screenshots.
func NewTestCaseResult(name string, status Status, seconds float64, reason string, screenshots []string) TestCaseResult {
	if seconds < 0 {
		seconds = 0
	}
	var shots []string
	if len(screenshots) > 0 {
		shots = append([]string{}, screenshots...)
	}
	return TestCaseResult{
		QualifiedName:   name,
		Status:          status,
		DurationSeconds: seconds,
		Reason:          reason,
		Screenshots:     shots,
	}
}

// SuiteResult aggregates every case from one suite run.
type SuiteResult struct {
	Name           string           `json:"name"`
	Status         Status           `json:"status"`
	ExitCode       int              `json:"exit_code"`
	Cases          []TestCaseResult `json:"detailed_results"`
	ScreenshotsDir string           `json:"screenshots_dir,omitempty"`
}

// Summary aggregates case counts for a suite run.
type Summary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
	Error  int `json:"error"`
}

// Summary counts cases per status. Cases with an unknown status count as errors so
// that Passed+Failed+Error always equals Total.
func (s SuiteResult) Summary() Summary {
	sum := Summary{Total: len(s.Cases)}
	for _, c := range s.Cases {
		switch c.Status {
		case StatusPassed:
			sum.Passed++
		case StatusFailed:
			sum.Failed++
		default:
			sum.Error++
		}
	}
	return sum
}
