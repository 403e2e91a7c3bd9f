package cmd

import (
	"fmt"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configDefaultCmd = &cobra.Command{
	Use:     "default",
	Short:   "Print the default configuration as YAML",
	Example: `ridewise config default > config.yml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(config.Default()); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	configCmd.AddCommand(configDefaultCmd)
	rootCmd.AddCommand(configCmd)
}
