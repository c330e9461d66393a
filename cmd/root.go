// Package cmd implements CLI commands using the cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"firestige.xyz/snooper/internal/config"
	"firestige.xyz/snooper/internal/log"
)

var (
	configFile string
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "snooper",
	Short: "Snooper - live network traffic analyzer",
	Long: `Snooper captures frames from a local network interface, decodes them
through the TCP/IP protocol stack and periodically writes a report
summarizing the traffic observed during the previous window.

The analysis is driven interactively: select an interface, a report
period, an output file, a report format and a packet filter, then
start, pause, resume or end the capture at will.`,
	Version: "0.1.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return log.Init(cfg.Log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (optional)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(validateCmd)
}

// exitWithError prints an error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
