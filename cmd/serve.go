package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/meghashyamc/catalogsearch/api"
	"github.com/meghashyamc/catalogsearch/config"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the catalog search HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			godotenv.Load()

			cfg, err := config.Load(env)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			return api.Run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "Config environment, selects config/config.<env>.yaml (defaults to $ENV, then local)")

	return cmd
}
