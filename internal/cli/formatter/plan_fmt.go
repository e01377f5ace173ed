package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/agileplanner/internal/app"
	"github.com/alexanderramin/agileplanner/internal/domain"
)

const sprintProgressWidth = 20

var pointColumns = []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft}

// FormatSprints renders the sprint list. The sprint named endSprint, if any,
// is marked as the release end.
func FormatSprints(sprints []domain.Sprint, now time.Time, endSprint string) string {
	if len(sprints) == 0 {
		return Dim("No sprints.") + "\n"
	}

	headers := []string{"SPRINT", "START", "END", "POINTS", "STATE"}
	rows := make([][]string, 0, len(sprints))
	for _, s := range sprints {
		name := Bold(s.Name)
		if s.Name == endSprint {
			name = StyleHeader.Render("▶ " + s.Name)
		}
		state := s.StateAt(now)
		rows = append(rows, []string{
			name,
			s.StartedAt.Format(DateLayout),
			SprintStateColor(state).Render(s.CompletedAt.Format(DateLayout)),
			FormatPoints(s.StoryPoints()),
			SprintStateIndicator(state),
		})
	}
	return RenderAlignedTable(headers, rows, pointColumns)
}

// FormatVelocity renders the velocity bounds and the realized points of
// each historical sprint.
func FormatVelocity(report *app.VelocityReport) string {
	var b strings.Builder

	v := report.Velocity
	summary := fmt.Sprintf("%s  %s\n%s  %s\n%s  %s\n\n%s",
		Dim("Minimum"), StyleMinimum.Render(FormatPoints(v.Min)),
		Dim("Average"), StyleAverage.Render(FormatPoints(v.Average)),
		Dim("Maximum"), StyleMaximum.Render(FormatPoints(v.Max)),
		Dim("over "+plural(len(report.Sprints), "sprint", "sprints")),
	)
	b.WriteString(RenderBox("Velocity", summary))
	b.WriteString("\n\n")

	headers := []string{"SPRINT", "COMPLETED", "POINTS"}
	rows := make([][]string, 0, len(report.Sprints))
	for i, s := range report.Sprints {
		pts := report.PerSprint[i]
		cell := FormatPoints(pts)
		switch pts {
		case v.Min:
			cell = StyleMinimum.Render(cell)
		case v.Max:
			cell = StyleMaximum.Render(cell)
		}
		rows = append(rows, []string{s.Name, s.CompletedAt.Format(DateLayout), cell})
	}
	b.WriteString(RenderAlignedTable(headers, rows, []Align{AlignLeft, AlignLeft, AlignRight}))
	return b.String()
}

// FormatProjection renders the projection summary followed by the sprint
// table.
func FormatProjection(state *app.PlanState, now time.Time) string {
	var b strings.Builder

	endSprint := state.Settings.EndSprintName
	if state.Projection == nil {
		b.WriteString(RenderBox("Projection", Dim("Using the backlog's sprint list; no projection from history.")))
		b.WriteString("\n\n")
		b.WriteString(FormatSprints(state.Available, now, endSprint))
		return b.String()
	}

	p := state.Projection
	total := p.CompletedSprintCount + p.RemainingSprintCount
	lines := []string{
		fmt.Sprintf("%s  %s", Dim("Start date         "), state.Settings.StartDate.Format(DateLayout)),
		fmt.Sprintf("%s  %s", Dim("Sprint length      "), plural(state.Settings.SprintLengthWeeks, "week", "weeks")),
		fmt.Sprintf("%s  %s", Dim("Remaining points   "), Bold(FormatPoints(p.RemainingStoryPoints))),
		fmt.Sprintf("%s  %s", Dim("Minimum velocity   "), StyleMinimum.Render(FormatPoints(state.Velocity.Min))),
		fmt.Sprintf("%s  %d", Dim("Completed sprints  "), p.CompletedSprintCount),
		fmt.Sprintf("%s  %d", Dim("Remaining sprints  "), p.RemainingSprintCount),
		"",
		RenderSprintProgress(p.CompletedSprintCount, total, sprintProgressWidth),
	}
	if len(p.Sprints) > 0 {
		last := p.Sprints[len(p.Sprints)-1]
		lines = append(lines, Dim(fmt.Sprintf("Backlog done by %s (%s)",
			last.CompletedAt.Format(DateLayout), RelativeDateFrom(last.CompletedAt, now))))
	}
	b.WriteString(RenderBox("Projection", strings.Join(lines, "\n")))
	b.WriteString("\n\n")
	b.WriteString(FormatSprints(p.Sprints, now, endSprint))
	return b.String()
}

// FormatScope renders a published release scope and its projected range.
func FormatScope(result *app.ScopeResult) string {
	scope := result.Scope
	inScope := scope.EndIndex() + 1

	lines := []string{
		fmt.Sprintf("%s  %s %s", Dim("Start sprint   "), Bold(scope.StartSprint.Name),
			Dim(scope.StartSprint.StartedAt.Format(DateLayout))),
		fmt.Sprintf("%s  %s %s", Dim("End sprint     "), StyleHeader.Render(scope.EndSprint.Name),
			Dim(scope.EndSprint.CompletedAt.Format(DateLayout))),
		fmt.Sprintf("%s  %d of %d", Dim("Sprints        "), inScope, len(scope.Sprints)),
		fmt.Sprintf("%s  %d", Dim("Pending        "), result.PendingSprints),
		"",
		fmt.Sprintf("%s  %s", Dim("Velocity       "),
			FormatRange(scope.Velocity.Min, scope.Velocity.Average, scope.Velocity.Max)),
		fmt.Sprintf("%s  %s", Dim("Deliverable    "),
			FormatRange(result.Range.MinStoryPoints, result.Range.MeanStoryPoints, result.Range.MaxStoryPoints)),
		Dim("                 min / average / max story points"),
	}
	return RenderBox("Release scope", strings.Join(lines, "\n"))
}

// FormatSprintChoices lists sprint names for an error hint.
func FormatSprintChoices(sprints []domain.Sprint) string {
	names := make([]string, len(sprints))
	for i, s := range sprints {
		names[i] = s.Name
	}
	return Dim("Available: ") + strings.Join(names, ", ")
}
