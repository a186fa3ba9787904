package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/cardscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging the built-in defaults, the config
file and CARDSCAN_* environment variables. The YAML output can be saved as
cardscan.yaml and edited.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.configs.Get()
		if current.format == OutputFormatJSON {
			return current.output(cmd, cfg)
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}
