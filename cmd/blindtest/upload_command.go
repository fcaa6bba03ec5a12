package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"blindtest/internal/services/youtube"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var (
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "upload <video-file>",
		Short: "Upload an already generated video to YouTube",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			videoPath := strings.TrimSpace(args[0])
			if title == "" {
				title = strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
			}

			uploader, err := newPublisher(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			videoID, err := uploader.Upload(cmd.Context(), videoPath, youtube.Metadata{
				Title:         title,
				Description:   description,
				Tags:          cfg.YouTube.Tags,
				CategoryID:    cfg.YouTube.CategoryID,
				PrivacyStatus: cfg.YouTube.PrivacyStatus,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded: https://youtu.be/%s\n", videoID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Video title (default: file name)")
	cmd.Flags().StringVar(&description, "description", "", "Video description")
	return cmd
}
