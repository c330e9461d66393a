package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and print the resolved values",
	Long: `Validate the configuration file given with --config (or the built-in
defaults) and print the fully resolved configuration as YAML.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Loading and validation already happened in the persistent
		// pre-run; reaching this point means the config is valid.
		out, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError("failed to render config", err)
		}
		fmt.Print(string(out))
	},
}
