package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"blindtest/internal/config"
	"blindtest/internal/services/youtube"
)

// terminalConfirmer prompts on the command's output and reads the answer
// from stdin. Non-interactive invocations refuse instead of hanging.
type terminalConfirmer struct {
	cmd *cobra.Command
}

func newTerminalConfirmer(cmd *cobra.Command) *terminalConfirmer {
	return &terminalConfirmer{cmd: cmd}
}

func (c *terminalConfirmer) Confirm(prompt string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("%s (refusing: stdin is not a terminal, rerun interactively or adjust the configuration)", prompt)
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s [y/N]: ", prompt)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// newPublisher builds the authenticated upload client, running the OAuth
// consent flow if no cached token exists.
func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*youtube.Uploader, error) {
	source, err := tokenSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	inserter, err := youtube.NewAPIInserter(ctx, source, cfg.YouTube.ChunkSizeMiB)
	if err != nil {
		return nil, err
	}
	return youtube.NewUploader(inserter,
		youtube.WithUploaderLogger(logger),
		youtube.WithMaxRetries(cfg.YouTube.MaxRetries),
	)
}

func tokenSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (oauth2.TokenSource, error) {
	store := youtube.NewFileTokenStore(cfg.YouTube.TokenFile)
	auth, err := youtube.NewAuthenticator(cfg.YouTube.ClientSecretsFile, store,
		youtube.StdinAuthorizer{}, logger)
	if err != nil {
		return nil, err
	}
	return auth.TokenSource(ctx)
}
