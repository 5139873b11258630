package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/uicheck/internal/report"
)

// JSONRenderer emits structured test data.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Report captures JSON output schema.
type Report struct {
	Suite     string              `json:"suite"`
	Tests     []string            `json:"tests,omitempty"`
	Docs      map[string]string   `json:"docs,omitempty"`
	Result    *report.SuiteResult `json:"result,omitempty"`
	Summary   *report.Summary     `json:"summary,omitempty"`
	ReportDir string              `json:"report_dir,omitempty"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(report Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
