package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartolab/riverlabel/pkg/label"
	"github.com/cartolab/riverlabel/pkg/pipeline"
)

// compareOpts holds the command-line flags for the compare command.
type compareOpts struct {
	labelText string
	fontSize  int
	margin    float64
	refresh   bool
	noCache   bool
	asJSON    bool
	imagePath string // write the comparison PNG here when set
}

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	opts := compareOpts{
		labelText: pipeline.DefaultLabelText,
		fontSize:  pipeline.DefaultFontSize,
	}

	cmd := &cobra.Command{
		Use:   "compare <polygon>",
		Short: "Score all three placement strategies side by side",
		Long: `Score all three placement strategies side by side.

Runs the centroid, weighted-centroid, and distance-transform strategies on
the same polygon and reports each candidate's distance to the nearest edge.

  riverlabel compare river.json
  riverlabel compare sample:elbow --image comparison.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.labelText, "label", "l", opts.labelText, "label text")
	cmd.Flags().IntVar(&opts.fontSize, "font-size", opts.fontSize, "font size in points (12-48)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "grid margin in coordinate units")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.imagePath, "image", "", "write the comparison image to this PNG file")

	return cmd
}

// runCompare executes the comparison pipeline and prints the scores.
func (c *CLI) runCompare(ctx context.Context, polygonArg string, opts compareOpts) error {
	coords, err := readPolygon(polygonArg)
	if err != nil {
		return err
	}
	return c.runCompareCoords(ctx, coords, opts)
}

// runCompareCoords runs the comparison on already-parsed coordinates. The
// demo command calls this directly with a sample shape.
func (c *CLI) runCompareCoords(ctx context.Context, coords [][]float64, opts compareOpts) error {
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
		Refresh:     opts.refresh,
		Logger:      loggerFromContext(ctx),
	}

	spinner := newSpinnerWithContext(ctx, "Comparing strategies...")
	spinner.Start()
	result, err := runner.Compare(ctx, pipelineOpts)
	if err != nil {
		spinner.StopWithError("Comparison failed")
		return err
	}
	spinner.Stop()

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	comparison := result.Comparison
	printSuccess("Compared strategies for %q", opts.labelText)
	printNewline()
	for _, p := range comparison.Placements() {
		printPlacementRow(label.DisplayName(p.Strategy), p.Point.X, p.Point.Y,
			p.DistanceToEdge, p.FitsInside, p.Strategy == comparison.Winner)
	}
	printNewline()
	printKeyValue("winner", label.DisplayName(comparison.Winner))
	printKeyValue("improvement", fmt.Sprintf("%+.1f", comparison.Improvement))
	printGridStats(result.Stats.GridWidth, result.Stats.GridHeight, result.Stats.InteriorCells, result.CacheInfo.ResultHit)

	if opts.imagePath != "" {
		if err := writeComparisonImage(pipelineOpts, comparison, opts.imagePath); err != nil {
			return err
		}
		printFile(opts.imagePath)
	}
	return nil
}
