package main

import (
	"os"

	"firestige.xyz/snooper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
