// Package workbook projects a suite result onto a two sheet xlsx report.
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bgricker/uicheck/internal/report"
	"github.com/xuri/excelize/v2"
)

// Sheet names.
const (
	SummarySheet = "Test Summary"
	DetailsSheet = "Test Details"
)

// FilePrefix starts every report file name.
const FilePrefix = "selenium_test_report"

// NoScreenshots fills the screenshots cell of a case without captures.
const NoScreenshots = "No screenshots"

// DetailsMaxWidth caps the column widths of the details sheet.
const DetailsMaxWidth = 50

// Fill colours.
const (
	HeaderFill = "4F81BD"
	PassedFill = "C6EFCE"
	FailedFill = "FFC7CE"
	ErrorFill  = "FFEB9C"
)

var (
	summaryHeader = []string{"Test Type", "Status", "Total Tests", "Passed", "Failed", "Error"}
	detailsHeader = []string{"Test Name", "Status", "Time (s)", "Reason/Error", "Screenshots"}
)

// Cell is one value with an optional background fill.
type Cell struct {
	Value interface{}
	Fill  string
}

// Text renders the value the way it is measured for column sizing.
func (c Cell) Text() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Sheet is a header row followed by data rows.
type Sheet struct {
	Name     string
	Header   []string
	Rows     [][]Cell
	MaxWidth int // zero means uncapped
}

// Widths returns one width per column: the longest rendered value in
// characters plus two, capped at MaxWidth when set.
func (s Sheet) Widths() []float64 {
	longest := make([]int, len(s.Header))
	for i, h := range s.Header {
		longest[i] = utf8.RuneCountInString(h)
	}
	for _, row := range s.Rows {
		for i, c := range row {
			if i >= len(longest) {
				continue
			}
			if n := utf8.RuneCountInString(c.Text()); n > longest[i] {
				longest[i] = n
			}
		}
	}
	widths := make([]float64, len(longest))
	for i, n := range longest {
		w := n + 2
		if s.MaxWidth > 0 && w > s.MaxWidth {
			w = s.MaxWidth
		}
		widths[i] = float64(w)
	}
	return widths
}

// Workbook holds the Summary and Details sheets.
type Workbook struct {
	Summary Sheet
	Details Sheet
}

// Build derives the workbook from res. It keeps no reference to res.
func Build(res report.SuiteResult) *Workbook {
	sum := res.Summary()
	summary := Sheet{
		Name:   SummarySheet,
		Header: append([]string{}, summaryHeader...),
		Rows: [][]Cell{{
			{Value: res.Name},
			{Value: string(res.Status), Fill: StatusFill(res.Status)},
			{Value: sum.Total},
			{Value: sum.Passed},
			{Value: sum.Failed},
			{Value: sum.Error},
		}},
	}

	details := Sheet{
		Name:     DetailsSheet,
		Header:   append([]string{}, detailsHeader...),
		Rows:     make([][]Cell, 0, len(res.Cases)),
		MaxWidth: DetailsMaxWidth,
	}
	for _, c := range res.Cases {
		details.Rows = append(details.Rows, []Cell{
			{Value: c.QualifiedName},
			{Value: string(c.Status), Fill: StatusFill(c.Status)},
			{Value: c.DurationSeconds},
			{Value: c.Reason},
			{Value: screenshotsCell(c.Screenshots)},
		})
	}
	return &Workbook{Summary: summary, Details: details}
}

// StatusFill returns the fill for a status cell; unknown statuses use the error fill.
func StatusFill(s report.Status) string {
	switch s {
	case report.StatusPassed:
		return PassedFill
	case report.StatusFailed:
		return FailedFill
	default:
		return ErrorFill
	}
}

func screenshotsCell(paths []string) string {
	if len(paths) == 0 {
		return NoScreenshots
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return strings.Join(names, ", ")
}

// FileName is the report file name for a run at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", FilePrefix, now.Format("20060102_150405"))
}

// Save writes the workbook into dir and returns the file path.
func (w *Workbook) Save(dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir %q: %w", dir, err)
	}
	path := filepath.Join(dir, FileName(now))

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", w.Summary.Name); err != nil {
		return "", fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(w.Details.Name); err != nil {
		return "", fmt.Errorf("create details sheet: %w", err)
	}

	st := newStyles(f)
	for _, sheet := range []Sheet{w.Summary, w.Details} {
		if err := writeSheet(f, st, sheet); err != nil {
			return "", fmt.Errorf("write sheet %q: %w", sheet.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %q: %w", path, err)
	}
	return path, nil
}

type styles struct {
	f     *excelize.File
	cache map[string]int
}

func newStyles(f *excelize.File) *styles {
	return &styles{f: f, cache: make(map[string]int)}
}

func (s *styles) header() (int, error) {
	const key = "header"
	if id, ok := s.cache[key]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return 0, err
	}
	s.cache[key] = id
	return id, nil
}

func (s *styles) fill(color string) (int, error) {
	if id, ok := s.cache[color]; ok {
		return id, nil
	}
	id, err := s.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
	if err != nil {
		return 0, err
	}
	s.cache[color] = id
	return id, nil
}

func writeSheet(f *excelize.File, st *styles, sheet Sheet) error {
	headerStyle, err := st.header()
	if err != nil {
		return err
	}
	for col, h := range sheet.Header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet.Name, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range sheet.Rows {
		for col, c := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, c.Value); err != nil {
				return err
			}
			if c.Fill == "" {
				continue
			}
			id, err := st.fill(c.Fill)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, id); err != nil {
				return err
			}
		}
	}

	for col, width := range sheet.Widths() {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet.Name, name, name, width); err != nil {
			return err
		}
	}
	return nil
}
