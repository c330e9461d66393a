package cmd

// Execute runs the root command. Called once from main.main().
func Execute() error {
	return rootCmd.Execute()
}
