// Package chart renders burnup series as PNG or SVG images.
package chart

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/agileplanner/internal/planning"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewPoints is returned for burnups with fewer than two sprints; a
// time axis needs two distinct dates.
var ErrTooFewPoints = errors.New("burnup chart needs at least two sprints")

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPNG, FormatSVG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported chart format %q (use png or svg)", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to PNG.
func FormatFromPath(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".svg") {
		return FormatSVG
	}
	return FormatPNG
}

type Size struct {
	Width  int
	Height int
}

var DefaultSize = Size{Width: 1024, Height: 512}

var seriesColors = map[string]drawing.Color{
	planning.SeriesMinimum: gochart.ColorRed,
	planning.SeriesAverage: gochart.ColorBlue,
	planning.SeriesMaximum: gochart.ColorGreen,
	planning.SeriesScope:   gochart.ColorAlternateGray,
}

// RenderBurnup draws the cumulative velocity lines, the planned scope and,
// when the burnup has a release, a dashed marker at the release date.
func RenderBurnup(w io.Writer, b *planning.Burnup, format Format, size Size) error {
	if b == nil || len(b.Sprints) < 2 {
		return ErrTooFewPoints
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultSize
	}

	var series []gochart.Series
	top := b.PlannedTotal
	for _, s := range b.Series() {
		ts := toTimeSeries(s)
		series = append(series, ts)
		for _, y := range ts.YValues {
			if y > top {
				top = y
			}
		}
	}
	if b.Release != nil {
		series = append(series, releaseMarker(b.Release.Name, b.Release.ReleaseDate, top))
	}

	ch := gochart.Chart{
		Title:      burnupTitle(b),
		Width:      size.Width,
		Height:     size.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:           "Sprint completed",
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name:  "Story points",
			Range: &gochart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}
	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("rendering burnup chart: %w", err)
	}
	return nil
}

func toTimeSeries(s planning.BurnupSeries) gochart.TimeSeries {
	ts := gochart.TimeSeries{
		Name:    s.Name,
		XValues: make([]time.Time, len(s.Points)),
		YValues: make([]float64, len(s.Points)),
		Style: gochart.Style{
			StrokeColor: seriesColors[s.Name],
			StrokeWidth: 2,
		},
	}
	if s.Name == planning.SeriesScope {
		ts.Style.StrokeDashArray = []float64{4, 4}
	}
	for i, p := range s.Points {
		ts.XValues[i] = p.At
		ts.YValues[i] = p.StoryPoints
	}
	return ts
}

// releaseMarker is a vertical line from zero to top at the release date.
func releaseMarker(name string, at time.Time, top float64) gochart.TimeSeries {
	return gochart.TimeSeries{
		Name:    "Release " + name,
		XValues: []time.Time{at, at},
		YValues: []float64{0, top},
		Style: gochart.Style{
			StrokeColor:     gochart.ColorBlack,
			StrokeWidth:     1,
			StrokeDashArray: []float64{2, 2},
		},
	}
}

func burnupTitle(b *planning.Burnup) string {
	if b.Release == nil {
		return "Release burnup"
	}
	return fmt.Sprintf("Release burnup: %s (%s)", b.Release.Name, b.Release.ReleaseDate.Format("2006-01-02"))
}
