package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starblaster/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective gameplay configuration",
	Long: `Print the configuration StarBlaster would play with, after applying
--config or the first config file found in:
  ~/.starblaster/configs/starblaster.yaml
  ./configs/starblaster.yaml

Save the output as one of those files to customize the game.`,
	Args: cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		data, err := config.Marshal(mustLoadConfig())
		if err != nil {
			fail("%v", err)
		}
		fmt.Print(string(data))
	},
}
