package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SatyaPujith/Spotlight/internal/config"
	"github.com/SatyaPujith/Spotlight/internal/logger"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Sync()
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:           "spotlightctl",
		Short:         "Run the Spotlight chat pipeline from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// stdout carries JSON results; logs only with -v
			if !verbose {
				logger.Log = zap.NewNop()
				logger.Sugar = logger.Log.Sugar()
				return nil
			}
			return logger.Init("development")
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline decisions to stdout")

	rootCmd.AddCommand(
		newResolveCmd(),
		newClassifyCmd(),
		newSearchCmd(cfg),
		newChatCmd(cfg),
	)
	return rootCmd
}
