package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/agileplanner/internal/chart"
	"github.com/alexanderramin/agileplanner/internal/cli/formatter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newBurnupCmd(a *App) *cobra.Command {
	var (
		out    string
		format formatFlag
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "burnup",
		Short: "Show the release burnup or render it as a chart",
		Long: `Show the cumulative minimum, average and maximum velocity per sprint.

With --out the burnup is rendered as a PNG or SVG chart instead. Use
"--out -" to write the image to stdout; this is refused when stdout is a
terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.backend(cmd.Context())
			if err != nil {
				return err
			}
			burnup, err := b.Burnup.Build(cmd.Context())
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBurnup(burnup))
				return nil
			}

			f := chart.FormatFromPath(out)
			if format.f != "" {
				f = format.f
			}
			size := chart.Size{Width: width, Height: height}

			if out == "-" {
				w := cmd.OutOrStdout()
				if a.terminal(w) {
					return errors.New("refusing to write a binary chart to the terminal; redirect stdout or use --out FILE")
				}
				return chart.RenderBurnup(w, burnup, f, size)
			}
			if err := writeChartFile(out, func(w io.Writer) error {
				return chart.RenderBurnup(w, burnup, f, size)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s chart to %s\n", formatter.StyleGreen.Render("✔"), f, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the chart to FILE (\"-\" for stdout)")
	cmd.Flags().Var(&format, "format", "chart format: png or svg (default from the file extension)")
	cmd.Flags().IntVar(&width, "width", chart.DefaultSize.Width, "chart width in pixels")
	cmd.Flags().IntVar(&height, "height", chart.DefaultSize.Height, "chart height in pixels")
	return cmd
}

// formatFlag validates --format while flags are parsed.
type formatFlag struct {
	f chart.Format
}

var _ pflag.Value = (*formatFlag)(nil)

func (v *formatFlag) String() string { return string(v.f) }

func (v *formatFlag) Set(s string) error {
	f, err := chart.ParseFormat(s)
	if err != nil {
		return err
	}
	v.f = f
	return nil
}

func (v *formatFlag) Type() string { return "png|svg" }

// writeChartFile renders into path, removing the file again if rendering
// fails.
func writeChartFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing chart file: %w", err)
	}
	return nil
}
