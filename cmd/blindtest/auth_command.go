package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize YouTube uploads and cache the OAuth token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			source, err := tokenSource(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			// Force a token fetch so an expired credential surfaces now
			// rather than mid-upload.
			if _, err := source.Token(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Authorized; token cached at %s\n", cfg.YouTube.TokenFile)
			return nil
		},
	}
}
