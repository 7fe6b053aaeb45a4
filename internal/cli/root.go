package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	worldID    string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envWorld := os.Getenv("STARQUEST_WORLD")
	if envWorld == "" {
		envWorld = "default"
	}
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "starquest",
		Short: "Gamified quest board: solve quizzes for points, spend them, author your own",
	}

	cmd.PersistentFlags().StringVar(&worldID, "world", envWorld, "world to join")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewPlayCmd(&configPath, &worldID))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
