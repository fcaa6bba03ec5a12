package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"blindtest/internal/audio"
	"blindtest/internal/history"
	"blindtest/internal/media/ffmpeg"
	"blindtest/internal/media/ffprobe"
	"blindtest/internal/pipeline"
	"blindtest/internal/video"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		trackCount  int
		snippet     float64
		pause       float64
		intro       float64
		outro       float64
		answer      float64
		outputDir   string
		upload      bool
		title       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a blind-test video from random previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if snippet > 0 {
				cfg.Test.SnippetSeconds = snippet
			}
			if pause > 0 {
				cfg.Test.PauseSeconds = pause
			}
			if intro > 0 {
				cfg.Test.IntroSeconds = intro
			}
			if outro > 0 {
				cfg.Test.OutroSeconds = outro
			}
			if answer > 0 {
				cfg.Test.AnswerSeconds = answer
			}
			if dir := strings.TrimSpace(outputDir); dir != "" {
				cfg.Paths.OutputDir = dir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			source, err := ctx.catalogClient()
			if err != nil {
				return err
			}
			downloader, err := ctx.downloader()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg.HistoryDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			runner := ffmpeg.NewExecRunner(cfg.FFmpegBinary())
			prober := ffprobe.NewProber(cfg.FFprobeBinary())

			newAssembler := func(workDir string) (pipeline.AudioAssembler, error) {
				return audio.NewAssembler(workDir, downloader, runner, prober,
					audio.WithAssemblerLogger(logger))
			}
			newRenderer := func(workDir string) (pipeline.VideoRenderer, error) {
				return video.NewRenderer(workDir, runner, downloader,
					video.WithRendererLogger(logger),
					video.WithDimensions(cfg.Video.Width, cfg.Video.Height),
					video.WithFPS(cfg.Video.FPS),
					video.WithFontFile(cfg.Video.FontFile))
			}

			opts := []pipeline.GeneratorOption{pipeline.WithGeneratorLogger(logger)}
			if upload {
				publisher, err := newPublisher(cmd.Context(), cfg, logger)
				if err != nil {
					return err
				}
				opts = append(opts, pipeline.WithPublisher(publisher))
			}

			generator, err := pipeline.NewGenerator(cfg, source, newAssembler, newRenderer,
				store, newTerminalConfirmer(cmd), opts...)
			if err != nil {
				return err
			}

			result, err := generator.Generate(cmd.Context(), pipeline.GenerateOptions{
				TrackCount:  trackCount,
				Upload:      upload,
				Title:       title,
				Description: description,
			})
			if errors.Is(err, pipeline.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), "Generation cancelled")
				return nil
			}
			if err != nil {
				if result != nil {
					printRunResult(cmd, result)
				}
				return err
			}

			printRunResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&trackCount, "tracks", "n", 0, "Number of tracks (default from config)")
	cmd.Flags().Float64Var(&snippet, "snippet", 0, "Snippet duration in seconds")
	cmd.Flags().Float64Var(&pause, "pause", 0, "Pause between snippets in seconds")
	cmd.Flags().Float64Var(&intro, "intro", 0, "Intro duration in seconds")
	cmd.Flags().Float64Var(&outro, "outro", 0, "Outro duration in seconds")
	cmd.Flags().Float64Var(&answer, "answer", 0, "Answer reveal duration in seconds")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the generated files")
	cmd.Flags().BoolVar(&upload, "upload", false, "Upload the video to YouTube when done")
	cmd.Flags().StringVar(&title, "title", "", "Video title for the upload")
	cmd.Flags().StringVar(&description, "description", "", "Video description for the upload")
	return cmd
}

func printRunResult(cmd *cobra.Command, result *pipeline.RunResult) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(result.Tracks))
	for i, track := range result.Tracks {
		status := "ok"
		if !track.Succeeded() {
			status = "skipped"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			track.Track.Artist,
			track.Track.Name,
			status,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Artist", "Track", "Status"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))

	fmt.Fprintf(out, "Audio: %s\n", result.AudioPath)
	fmt.Fprintf(out, "Video: %s (%.0fs)\n", result.VideoPath, result.Duration)
	if result.VideoID != "" {
		fmt.Fprintf(out, "Uploaded: https://youtu.be/%s\n", result.VideoID)
	}
}
