package main

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/ironsheep/xai-saliency-mcp/internal/imaging"
)

// NewLocateCmd creates the locate command.
func NewLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate <image>",
		Short: "Locate the tumour region in an MRI slice",
		Long: `Locate runs the circle detector on one MRI slice and prints the brightest
circle together with the pixel ranges of its bounding square.

Examples:
  # Locate on the raw slice
  xai-saliency locate Y1-t1ce-090.jpg

  # Prepare the slice like the batch evaluation and save a highlighted copy
  xai-saliency locate --prepare --highlight located.png Y1-t1ce-090.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: runLocateCmd,
	}

	cmd.Flags().BoolP("prepare", "p", false, "Skull-strip and resize the slice before locating")
	cmd.Flags().String("highlight", "", "Write a copy of the slice with the region outlined to this .png path")
	cmd.Flags().BoolP("json", "j", false, "Print the location as JSON")

	return cmd
}

func runLocateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	prepare, _ := cmd.Flags().GetBool("prepare")
	highlight, _ := cmd.Flags().GetString("highlight")
	asJSON, _ := cmd.Flags().GetBool("json")

	img, err := readScan(args[0], prepare, cfg.ImageSize)
	if err != nil {
		return err
	}
	loc, err := cfg.Locator().Locate(img)
	if err != nil {
		return err
	}

	if highlight != "" && loc.Found {
		r := loc.Region
		out, err := imaging.HighlightRegion(img, r.CenterX, r.CenterY, r.Radius, cfg.HighlightColor, imaging.DefaultHighlightThickness)
		if err != nil {
			return err
		}
		if err := imaging.SavePNG(out, highlight); err != nil {
			return err
		}
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(loc)
	}
	fmt.Fprintln(w, loc)
	if loc.Found {
		xr, yr := loc.PixelRanges()
		fmt.Fprintf(w, "x range: %s\ny range: %s\n", xr, yr)
	}
	return nil
}

// readScan decodes path and optionally prepares it to size x size.
func readScan(path string, prepare bool, size int) (image.Image, error) {
	img, err := imaging.Decode(path)
	if err != nil {
		return nil, err
	}
	if !prepare {
		return img, nil
	}
	return imaging.PrepareScan(img, size)
}
