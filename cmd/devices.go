package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"firestige.xyz/snooper/internal/capture"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List capturable network interfaces",
	Run: func(cmd *cobra.Command, args []string) {
		devices, err := capture.ListDevices()
		if err != nil {
			exitWithError("failed to enumerate interfaces", err)
		}
		printDevices(devices)
	},
}

func printDevices(devices []capture.Device) {
	fmt.Println("List of available interfaces: ")
	for _, dev := range devices {
		line := fmt.Sprintf("[%s]", dev.Name)
		if dev.Description != "" {
			line += " " + dev.Description
		}
		if len(dev.Addresses) > 0 {
			line += " : " + strings.Join(dev.Addresses, ", ")
		}
		fmt.Println(line)
	}
}
