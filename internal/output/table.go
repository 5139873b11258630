package output

import (
	"io"
	"strconv"

	"github.com/bgricker/uicheck/internal/report"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxReasonWidth keeps long failure messages from stretching the table.
const maxReasonWidth = 60

// RenderTable writes a results table with a summary footer.
func RenderTable(out io.Writer, res report.SuiteResult) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle(res.Name)
	t.AppendHeader(table.Row{"Test Name", "Status", "Time (s)", "Reason/Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, WidthMax: maxReasonWidth},
	})

	for _, c := range res.Cases {
		t.AppendRow(table.Row{
			c.QualifiedName,
			string(c.Status),
			strconv.FormatFloat(c.DurationSeconds, 'f', 2, 64),
			c.Reason,
		})
	}

	sum := res.Summary()
	t.AppendFooter(table.Row{
		"Total " + strconv.Itoa(sum.Total),
		string(res.Status),
		"",
		"passed " + strconv.Itoa(sum.Passed) + ", failed " + strconv.Itoa(sum.Failed) + ", error " + strconv.Itoa(sum.Error),
	})
	t.Render()
}
