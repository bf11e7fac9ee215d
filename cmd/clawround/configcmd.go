package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/clawround/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration that play and sim would use, as YAML.
Save the output to ~/.clawround/clawround.yaml and edit it to tune the
machine or author new rounds.

Examples:
  clawround config > ~/.clawround/clawround.yaml
  clawround config --config ./my-rounds.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, _ []string) error {
	file, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := config.Marshal(*file)
	if err != nil {
		return err
	}
	fmt.Printf("# source: %s\n%s", file.Source, data)
	return nil
}
