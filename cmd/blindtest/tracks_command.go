package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Preview a random track selection without generating anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.catalogClient()
			if err != nil {
				return err
			}
			if count <= 0 {
				count = cfg.Test.TrackCount
			}

			tracks, err := client.RandomTracks(cmd.Context(), count)
			if err != nil {
				return err
			}
			if len(tracks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No playable tracks found")
				return nil
			}

			titleCase := cases.Title(language.English)
			rows := make([][]string, 0, len(tracks))
			for i, track := range tracks {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					track.Artist,
					track.Name,
					titleCase.String(track.Genre),
					fmt.Sprintf("%ds", track.DurationSeconds),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Artist", "Track", "Genre", "Length"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of tracks to pick (default from config)")
	return cmd
}
