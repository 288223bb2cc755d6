package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/codementor-api/config"
)

// rootCmd serves the API when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "codementor",
	Short: "Code Mentor API server",
	Long: `Code Mentor explains uploaded codebases to beginners. It stores projects
uploaded as ZIP archives or cloned from git, and answers questions, explanations,
quizzes, diagrams and speech requests about them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	config.InitFlags(rootCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for cmd from the working directory.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.LoadConfigs(cmd, cwd)
}
