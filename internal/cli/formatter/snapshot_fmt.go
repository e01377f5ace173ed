package formatter

import (
	"fmt"
	"time"

	"github.com/alexanderramin/agileplanner/internal/domain"
)

// FormatSnapshotList renders stored snapshots, newest first.
func FormatSnapshotList(infos []domain.SnapshotInfo, now time.Time) string {
	if len(infos) == 0 {
		return Dim("No snapshots. Run 'agileplanner sync' to store one.") + "\n"
	}

	headers := []string{"ID", "TAKEN", "SOURCE", "SPRINTS", "STORIES"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			TruncID(info.ID),
			fmt.Sprintf("%s %s", info.TakenAt.Format("2006-01-02 15:04"), Dim("("+RelativeDateFrom(info.TakenAt, now)+")")),
			info.Source,
			fmt.Sprintf("%d", info.SprintCount),
			fmt.Sprintf("%d", info.StoryCount),
		})
	}
	return RenderAlignedTable(headers, rows, []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight})
}

// FormatSnapshotStored confirms a sync.
func FormatSnapshotStored(s *domain.Snapshot) string {
	return fmt.Sprintf("%s Stored snapshot %s from %s: %s, %s remaining, %s planned.\n",
		StyleGreen.Render("✔"),
		Bold(s.ID[:min(8, len(s.ID))]),
		s.Source,
		plural(len(s.Sprints), "sprint", "sprints"),
		plural(len(s.Remaining), "story", "stories"),
		plural(len(s.PlannedStories), "story", "stories"),
	)
}

func FormatSnapshotDeleted(info *domain.SnapshotInfo) string {
	return fmt.Sprintf("%s Deleted snapshot %s taken %s.\n",
		StyleGreen.Render("✔"),
		Bold(info.ID[:min(8, len(info.ID))]),
		info.TakenAt.Format("2006-01-02 15:04"),
	)
}
