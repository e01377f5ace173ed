package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agileplanner/internal/planning"
)

// FormatBurnup renders the cumulative burnup as a table.
func FormatBurnup(b *planning.Burnup) string {
	var out strings.Builder

	title := "Release burnup"
	if b.Release != nil {
		title = fmt.Sprintf("Release burnup: %s", b.Release.Name)
	}
	out.WriteString(Header(title))
	out.WriteString("\n")
	if b.Release != nil {
		out.WriteString(fmt.Sprintf("%s %s\n", Dim("Release date"), Bold(b.Release.ReleaseDate.Format(DateLayout))))
	}
	out.WriteString(fmt.Sprintf("%s %s   %s %s\n\n",
		Dim("Velocity"), FormatRange(b.Velocity.Min, b.Velocity.Average, b.Velocity.Max),
		Dim("Planned scope"), Bold(FormatPoints(b.PlannedTotal))))

	headers := []string{"SPRINT", "COMPLETED", "MINIMUM", "AVERAGE", "MAXIMUM", "SCOPE"}
	rows := make([][]string, 0, len(b.Sprints))
	for _, s := range b.Sprints {
		scope := FormatPoints(b.PlannedTotal)
		if s.Maximum >= b.PlannedTotal && b.PlannedTotal > 0 {
			scope = StyleGreen.Render(scope)
		}
		rows = append(rows, []string{
			s.Sprint,
			s.CompletedAt.Format(DateLayout),
			StyleMinimum.Render(FormatPoints(s.Minimum)),
			StyleAverage.Render(FormatPoints(s.Average)),
			StyleMaximum.Render(FormatPoints(s.Maximum)),
			scope,
		})
	}
	out.WriteString(RenderAlignedTable(headers, rows,
		[]Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}))
	return out.String()
}
