package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	riverio "github.com/cartolab/riverlabel/pkg/io"
	"github.com/cartolab/riverlabel/pkg/pipeline"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	labelText string  // label text to place
	fontSize  int     // font size in points
	margin    float64 // grid margin in coordinate units
	refresh   bool    // bypass cache read
	noCache   bool    // disable caching entirely
	asJSON    bool    // print the raw result as JSON
	geoJSON   string  // export the optimal point as a GeoJSON feature
}

// placeCommand creates the place command.
func (c *CLI) placeCommand() *cobra.Command {
	opts := placeOpts{
		labelText: pipeline.DefaultLabelText,
		fontSize:  pipeline.DefaultFontSize,
	}

	cmd := &cobra.Command{
		Use:   "place <polygon>",
		Short: "Compute the optimal label position for a polygon",
		Long: `Compute the optimal label position for a polygon outline.

The polygon argument is a JSON file, inline JSON, or a sample name:

  riverlabel place river.json
  riverlabel place '[[0,0],[100,0],[100,50],[0,50]]'
  riverlabel place sample:meander --label "DANUBE"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.labelText, "label", "l", opts.labelText, "label text")
	cmd.Flags().IntVar(&opts.fontSize, "font-size", opts.fontSize, "font size in points (12-48)")
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "grid margin in coordinate units")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.geoJSON, "geojson", "", "export the optimal point to this GeoJSON file")

	return cmd
}

// runPlace executes the placement pipeline and prints the result.
func (c *CLI) runPlace(ctx context.Context, polygonArg string, opts placeOpts) error {
	coords, err := readPolygon(polygonArg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Placing label...")
	spinner.Start()

	result, err := runner.Place(ctx, pipeline.Options{
		Coordinates: coords,
		LabelText:   opts.labelText,
		FontSize:    opts.fontSize,
		Margin:      opts.margin,
		Refresh:     opts.refresh,
		Logger:      loggerFromContext(ctx),
	})
	if err != nil {
		spinner.StopWithError("Placement failed")
		return err
	}
	spinner.Stop()

	if opts.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printSuccess("Placed %q", opts.labelText)
	printKeyValue("position", fmt.Sprintf("(%.1f, %.1f)", result.OptimalPoint.X, result.OptimalPoint.Y))
	printKeyValue("distance", fmt.Sprintf("%.1f", result.DistanceToEdge))
	printKeyValue("max width", fmt.Sprintf("%.1f", result.MaxWidth))
	if result.FitsInside {
		printKeyValue("fits", StyleSuccess.Render("yes"))
	} else {
		printKeyValue("fits", StyleWarning.Render("no"))
		printWarning("Label does not fit inside the outline")
		printDetail("Try a smaller font size or shorter label")
	}
	if result.Improvement > 0 {
		printKeyValue("improvement", fmt.Sprintf("+%.1f over centroid", result.Improvement))
	}
	printGridStats(result.Stats.GridWidth, result.Stats.GridHeight, result.Stats.InteriorCells, result.CacheInfo.ResultHit)

	if opts.geoJSON != "" {
		err := riverio.ExportPoint(opts.geoJSON, result.OptimalPoint, map[string]any{
			"label":    opts.labelText,
			"distance": result.DistanceToEdge,
			"fits":     result.FitsInside,
		})
		if err != nil {
			return err
		}
		printFile(opts.geoJSON)
	}

	printNewline()
	printNextStep("Compare all strategies", fmt.Sprintf("%s compare %s", appName, polygonArg))
	return nil
}
