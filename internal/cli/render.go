package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cartolab/riverlabel/pkg/label"
	"github.com/cartolab/riverlabel/pkg/pipeline"
	"github.com/cartolab/riverlabel/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	labelText string
	fontSize  int
	margin    float64
	output    string
	noCache   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		labelText: pipeline.DefaultLabelText,
		fontSize:  pipeline.DefaultFontSize,
	}

	cmd := &cobra.Command{
		Use:   "render <polygon>",
		Short: "Render the strategy comparison to a PNG image",
		Long: `Render the strategy comparison to a PNG image.

Runs the full comparison and draws the three candidate placements side by
side, with the winning panel highlighted.

  riverlabel render river.json -o comparison.png
  riverlabel render sample:basin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.labelText, "label", "l", opts.labelText, "label text")
	cmd.Flags().IntVar(&opts.fontSize, "font-size", opts.fontSize, "font size in points (12-48)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "grid margin in coordinate units")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <polygon>.png)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender compares the strategies and writes the comparison image.
func (c *CLI) runRender(ctx context.Context, polygonArg string, opts renderOpts) error {
	coords, err := readPolygon(polygonArg)
	if err != nil {
		return err
	}
	prog := newProgress(loggerFromContext(ctx))

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipelineOpts := pipeline.Options{
		Coordinates: coords,
		LabelText:   opts.labelText,
		FontSize:    opts.fontSize,
		Margin:      opts.margin,
		Logger:      loggerFromContext(ctx),
	}

	spinner := newSpinnerWithContext(ctx, "Rendering comparison...")
	spinner.Start()
	result, err := runner.Compare(ctx, pipelineOpts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	output := opts.output
	if output == "" {
		output = outputPath(polygonArg)
	}
	if err := writeComparisonImage(pipelineOpts, result.Comparison, output); err != nil {
		return err
	}

	prog.done("Rendered comparison")
	printFile(output)
	return nil
}

// writeComparisonImage renders the comparison PNG and writes it to path.
func writeComparisonImage(opts pipeline.Options, c label.Comparison, path string) error {
	poly, err := opts.Polygon()
	if err != nil {
		return err
	}
	img, err := render.Comparison(poly, c, opts.Box())
	if err != nil {
		return fmt.Errorf("render comparison: %w", err)
	}
	if err := os.WriteFile(path, img, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// outputPath derives a PNG output path from the polygon argument. Inline
// JSON and sample names map to fixed file names.
func outputPath(polygonArg string) string {
	if strings.HasPrefix(strings.TrimSpace(polygonArg), "[") {
		return "comparison.png"
	}
	if name, ok := strings.CutPrefix(polygonArg, "sample:"); ok {
		return name + ".png"
	}
	base := strings.TrimSuffix(polygonArg, ".json")
	return base + ".png"
}
