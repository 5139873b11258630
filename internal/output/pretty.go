package output

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bgricker/uicheck/internal/report"
)

// PrettyRenderer renders tests and results in a human-friendly format.
type PrettyRenderer struct {
	out io.Writer
}

// NewPretty creates a PrettyRenderer writing to the provided writer.
func NewPretty(out io.Writer) *PrettyRenderer {
	return &PrettyRenderer{out: out}
}

// RenderList renders the available test names.
func (p *PrettyRenderer) RenderList(names []string) error {
	if _, err := fmt.Fprintln(p.out, "Available tests:"); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := fmt.Fprintf(p.out, "  - %s\n", name); err != nil {
			return err
		}
	}
	return nil
}

// RenderResults shows the outcome of every case followed by a summary line.
func (p *PrettyRenderer) RenderResults(res report.SuiteResult) error {
	var buffer bytes.Buffer
	var total time.Duration

	fmt.Fprintf(&buffer, "Suite %s\n", res.Name)
	for _, c := range res.Cases {
		d := time.Duration(c.DurationSeconds * float64(time.Second))
		total += d
		fmt.Fprintf(&buffer, "  %s %s (%s)\n", statusGlyph(c.Status), c.QualifiedName, formatDuration(d))
		if c.Reason != "" {
			fmt.Fprintf(&buffer, "    reason: %s\n", indentTail(c.Reason, "    "))
		}
		if len(c.Screenshots) > 0 {
			fmt.Fprintf(&buffer, "    screenshots: %s\n", baseNames(c.Screenshots))
		}
	}

	sum := res.Summary()
	fmt.Fprintf(&buffer, "SUMMARY: %d passed, %d failed, %d errors (%s)\n", sum.Passed, sum.Failed, sum.Error, formatDuration(total))
	_, err := buffer.WriteTo(p.out)
	return err
}

func statusGlyph(status report.Status) string {
	switch status {
	case report.StatusPassed:
		return "✓"
	case report.StatusFailed:
		return "✗"
	case report.StatusError:
		return "!"
	default:
		return "?"
	}
}

// indentTail keeps the first line in place and pads the following ones.
func indentTail(s, pad string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}

func baseNames(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Truncate(time.Millisecond).String()
}
