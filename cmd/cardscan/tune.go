package main

import (
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/cardscan/internal/imaging"
	"github.com/ironsheep/cardscan/internal/pipeline"
)

var (
	overlayLayout    string
	overlayOut       string
	overlayThickness int

	probeThreshold int
	probeRegion    string

	suggestMinConfidence float64
)

var overlayCmd = &cobra.Command{
	Use:   "overlay <image>",
	Short: "Draw the configured regions on a screenshot",
	Long: `Outline every region of a layout on a copy of the screenshot and write it
as PNG. The region list, including any that do not fit the image, is printed.

Examples:
  cardscan overlay card.png --out card-regions.png
  cardscan overlay stats.png --layout stats --out stats-regions.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.newPipeline()
		if err != nil {
			return err
		}
		regions, err := p.Layout(overlayLayout)
		if err != nil {
			return err
		}
		img, err := loadImage(args[0])
		if err != nil {
			return err
		}

		result, err := imaging.RegionOverlay(img, regions, overlayThickness)
		if err != nil {
			return err
		}
		png, err := base64.StdEncoding.DecodeString(result.ImageBase64)
		if err != nil {
			return err
		}
		if err := os.WriteFile(overlayOut, png, 0o644); err != nil {
			return err
		}
		current.logger.Info("overlay written", "file", overlayOut, "regions", len(result.Regions))
		return current.output(cmd, result.Regions)
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe <image> [x y]",
	Short: "Report luminance at a pixel or inside a configured region",
	Long: `Report the luminance of one pixel, or summary statistics for a configured
region, and whether it counts as text at the threshold. Use it to pick
binarization thresholds for a layout.

Examples:
  cardscan probe card.png 120 48 --threshold 150
  cardscan probe stats.png --region stats`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadImage(args[0])
		if err != nil {
			return err
		}

		if probeRegion != "" {
			if len(args) != 1 {
				return fmt.Errorf("give either --region or x y, not both")
			}
			p, err := current.newPipeline()
			if err != nil {
				return err
			}
			region, err := p.FindRegion(probeRegion)
			if err != nil {
				return err
			}
			threshold := region.Threshold
			if cmd.Flags().Changed("threshold") {
				threshold = probeThreshold
			}
			result, err := imaging.ProbeRegion(img, region, threshold)
			if err != nil {
				return err
			}
			return current.output(cmd, result)
		}

		if len(args) != 3 {
			return fmt.Errorf("x and y are required without --region")
		}
		x, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid x: %w", err)
		}
		y, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid y: %w", err)
		}
		result, err := imaging.ProbePoint(img, x, y, probeThreshold)
		if err != nil {
			return err
		}
		return current.output(cmd, result)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <image>",
	Short: "List text-like areas of a screenshot as regions",
	Long: `Scan a screenshot for areas that look like lines of text and print them as
fractional regions, top to bottom. Use the output as a starting point when
laying out regions for a new screen.

Examples:
  cardscan suggest card.png
  cardscan suggest card.png --min-confidence 0.7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := loadImage(args[0])
		if err != nil {
			return err
		}
		return current.output(cmd, imaging.FindTextBlocks(img, suggestMinConfidence))
	},
}

func loadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return pipeline.Decode(data)
}

func init() {
	overlayCmd.Flags().StringVar(&overlayLayout, "layout", pipeline.LayoutCard, "layout to draw: card or stats")
	overlayCmd.Flags().StringVar(&overlayOut, "out", "overlay.png", "PNG file to write")
	overlayCmd.Flags().IntVar(&overlayThickness, "thickness", 2, "outline thickness in pixels")

	probeCmd.Flags().IntVar(&probeThreshold, "threshold", 128, "luminance threshold 0-255")
	probeCmd.Flags().StringVar(&probeRegion, "region", "", "configured region to probe instead of a pixel")

	suggestCmd.Flags().Float64Var(&suggestMinConfidence, "min-confidence", 0.5, "minimum confidence 0-1")
}
