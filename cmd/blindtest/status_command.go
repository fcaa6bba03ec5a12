package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blindtest/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := deps.CheckBinaries(deps.Requirements(cfg))
			rows := make([][]string, 0, len(results))
			missing := false
			for _, status := range results {
				state := "ok"
				if !status.Available {
					state = status.Detail
					missing = true
				}
				rows = append(rows, []string{status.Name, status.Command, state})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if missing {
				return errors.New("required tools are missing")
			}
			return nil
		},
	}
}
