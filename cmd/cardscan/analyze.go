package main

import (
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <image>",
	Short: "Extract name, team, nationality and edition from a card screenshot",
	Long: `Read a full card screenshot and print the recognized fields.

Fields that could not be found are null.

Examples:
  cardscan analyze card.png
  cardscan analyze card.png -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		p, err := current.newPipeline()
		if err != nil {
			return err
		}
		result, err := p.AnalyzeCard(cmd.Context(), data)
		if err != nil {
			return err
		}
		return current.output(cmd, result)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats <image>...",
	Short: "Extract ability scores from stat-page screenshots",
	Long: `Read one or more stat-page screenshots and print the merged ability
scores. Images are read in order and a stat found in an earlier image is
never replaced by a later one.

Examples:
  cardscan stats page1.png page2.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		images := make([][]byte, len(args))
		for i, path := range args {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			images[i] = data
		}
		p, err := current.newPipeline()
		if err != nil {
			return err
		}
		stats, err := p.ExtractStats(cmd.Context(), images)
		if err != nil {
			return err
		}

		if missing := p.MissingStats(stats); len(missing) > 0 {
			current.logger.Info("some stats not found", "missing", len(missing), "found", len(stats))
		}
		return current.output(cmd, stats)
	},
}
