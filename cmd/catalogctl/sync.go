package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/di"
	"storefront/internal/infra/api"
)

// 外部APIのカタログをpostgresのミラーに写す
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the remote catalog and replace the postgres mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		products, err := api.NewProductClient(cfg.CatalogAPIURL, cfg.CatalogTimeout).ListAll(cmd.Context())
		if err != nil {
			return err
		}

		mirror, err := di.NewMirrorRepository(cfg)
		if err != nil {
			return err
		}
		if err := mirror.ReplaceAll(cmd.Context(), products); err != nil {
			return fmt.Errorf("replace mirror: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "synced %d products\n", len(products))
		return nil
	},
}
