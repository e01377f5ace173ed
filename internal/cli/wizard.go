package cli

import (
	"fmt"

	"github.com/alexanderramin/agileplanner/internal/cli/formatter"
	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// plannerHuhTheme returns a huh theme matching the formatter palette.
func plannerHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// endSprintOptions labels each sprint with its completion date. Option
// values are sprint names.
func endSprintOptions(sprints []domain.Sprint) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(sprints))
	for _, s := range sprints {
		label := fmt.Sprintf("%s  (ends %s)", s.Name, s.CompletedAt.Format(formatter.DateLayout))
		options = append(options, huh.NewOption(label, s.Name))
	}
	return options
}

// selectEndSprintForm asks for the release end sprint. result holds the
// preselected name on entry and the choice on exit.
func selectEndSprintForm(sprints []domain.Sprint, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Release end sprint?").
				Description("Velocity is projected over the sprints up to and including this one.").
				Options(endSprintOptions(sprints)...).
				Value(result),
		),
	).WithTheme(plannerHuhTheme()).WithShowHelp(false)
}
