package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderSprintProgress renders how far a release has come, e.g.
// [████░░░░] 3/8 sprints. The bar turns yellow past half way and red once
// fewer than a fifth of the sprints remain.
func RenderSprintProgress(done, total, width int) string {
	if width < 2 {
		width = 2
	}
	if total <= 0 {
		return fmt.Sprintf("[%s] %s", StyleDim.Render(strings.Repeat(emptyBlock, width)), Dim("no sprints"))
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}

	ratio := float64(done) / float64(total)
	filled := int(ratio * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case ratio >= 0.8:
		style = StyleRed
	case ratio >= 0.5:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %d/%d sprints", style.Render(bar), done, total)
}
