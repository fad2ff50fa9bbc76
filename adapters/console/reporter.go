package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gocontab/domain/stats"
	"gocontab/ports"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Banner describes the procedure before results are printed
const Banner = `~~~~~~~~ Independence test of a categorical variable at multiple levels ~~~~~~~~
 A one-vs-rest contingency table is built for every level.
 Each table gets a chi-square test, or a Fisher exact test when an expected count is below 5.
 Yates' continuity correction is applied to 2x2 chi-square tests.
 Bonferroni correction is applied across all tested levels.
~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~`

// Reporter prints analysis results as a text table
type Reporter struct {
	out        io.Writer
	showBanner bool
}

// NewReporter creates a console reporter writing to out
func NewReporter(out io.Writer, showBanner bool) *Reporter {
	return &Reporter{out: out, showBanner: showBanner}
}

// Report prints the banner, the results table, skipped levels and the legend
func (r *Reporter) Report(report ports.AnalysisReport) error {
	var buf strings.Builder

	if r.showBanner {
		buf.WriteString(Banner)
		buf.WriteString("\n\n")
	}
	fmt.Fprintf(&buf, "Source: %s  (run %s, %dms)\n", report.Source, report.RunID, report.Duration)
	buf.WriteString(RenderResults(report))
	buf.WriteString("\n")

	for _, s := range report.Skipped {
		fmt.Fprintf(&buf, "Skipped level %q: %s\n", s.Level, s.Reason)
	}
	fmt.Fprintf(&buf, "\nSignif. codes: %s\n", report.Legend)

	_, err := io.WriteString(r.out, buf.String())
	return err
}

// RenderResults renders the results table in the default go-pretty style
func RenderResults(report ports.AnalysisReport) string {
	t := table.NewWriter()

	header := table.Row{}
	for _, h := range report.Results.Header() {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, values := range report.Results.Values() {
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = formatCell(v)
		}
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if text, ok := stats.NonFiniteText(x); ok {
			return text
		}
		return strconv.FormatFloat(x, 'g', 6, 64)
	default:
		return fmt.Sprint(x)
	}
}
