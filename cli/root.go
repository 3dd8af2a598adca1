package cli

import (
	"context"

	"github.com/meghashyamc/sitesearch/config"
	"github.com/spf13/cobra"
)

var envFlag string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sitesearch",
		Short:         "Build a client-side search index for a static HTML site",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFlag, "env", "", "config environment to load (config/config.<env>.yaml)")

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// ExecuteContext runs the command named on the command line.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFlag)
}
