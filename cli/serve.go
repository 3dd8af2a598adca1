package cli

import (
	"fmt"

	"github.com/meghashyamc/sitesearch/api"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API for triggering rebuilds and fetching the artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			return api.Run(cmd.Context(), cfg)
		},
	}
}
