package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/agileplanner/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Series styles used for min/average/max figures everywhere.
var (
	StyleMinimum = StyleRed
	StyleAverage = StyleBlue
	StyleMaximum = StyleGreen
)

// SprintStateColor returns the style for a sprint's state relative to now.
func SprintStateColor(state domain.SprintState) lipgloss.Style {
	switch state {
	case domain.SprintCompleted:
		return StyleDim
	case domain.SprintActive:
		return StyleYellow
	case domain.SprintPlanned:
		return StyleBlue
	default:
		return StyleDim
	}
}

// SprintStateIndicator returns a colored marker such as "● ACTIVE".
func SprintStateIndicator(state domain.SprintState) string {
	switch state {
	case domain.SprintCompleted:
		return StyleDim.Render("✔ DONE")
	case domain.SprintActive:
		return StyleYellow.Render("● ACTIVE")
	case domain.SprintPlanned:
		return StyleBlue.Render("○ PLANNED")
	default:
		return StyleDim.Render("● UNKNOWN")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
