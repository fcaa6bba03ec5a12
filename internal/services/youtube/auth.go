package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	yt "google.golang.org/api/youtube/v3"

	"blindtest/internal/logging"
	"blindtest/internal/services"
)

// Authorizer obtains an authorization code from the account owner. The
// default implementation prints the consent URL and reads the code from
// stdin; tests substitute a canned exchange.
type Authorizer interface {
	AuthorizeCode(ctx context.Context, authURL string) (string, error)
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(ctx context.Context, authURL string) (string, error)

func (f AuthorizerFunc) AuthorizeCode(ctx context.Context, authURL string) (string, error) {
	return f(ctx, authURL)
}

// Authenticator resolves a usable OAuth token source, running the
// interactive consent flow only when no stored credential can be refreshed.
type Authenticator struct {
	config     *oauth2.Config
	store      TokenStore
	authorizer Authorizer
	logger     *slog.Logger
}

// NewAuthenticator reads the OAuth client secrets file and wires it to the
// token store. secretsPath must point at the JSON downloaded from the
// Google Cloud console for an installed application.
func NewAuthenticator(secretsPath string, store TokenStore, authorizer Authorizer, logger *slog.Logger) (*Authenticator, error) {
	if secretsPath == "" {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "auth",
			"client secrets file not configured", nil)
	}
	data, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "auth",
			"read client secrets", err)
	}
	config, err := google.ConfigFromJSON(data, yt.YoutubeUploadScope)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "auth",
			"parse client secrets", err)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Authenticator{
		config:     config,
		store:      store,
		authorizer: authorizer,
		logger:     logging.NewComponentLogger(logger, "youtube"),
	}, nil
}

// TokenSource returns a self-refreshing token source, authorizing
// interactively if no stored token exists. Refreshed tokens are persisted
// back to the store.
func (a *Authenticator) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	token, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if token == nil {
		token, err = a.authorize(ctx)
		if err != nil {
			return nil, err
		}
	}
	return &persistingTokenSource{
		source: a.config.TokenSource(ctx, token),
		store:  a.store,
		last:   token,
	}, nil
}

// authorize runs the interactive consent flow and saves the result.
func (a *Authenticator) authorize(ctx context.Context) (*oauth2.Token, error) {
	authURL := a.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	a.logger.Info("authorization required", logging.String("url", authURL))

	code, err := a.authorizer.AuthorizeCode(ctx, authURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "auth",
			"obtain authorization code", err)
	}
	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "youtube", "auth",
			"exchange authorization code", err)
	}
	if err := a.store.Save(token); err != nil {
		return nil, err
	}
	a.logger.Info("authorization complete")
	return token, nil
}

// persistingTokenSource writes refreshed tokens back to the store so the
// next run skips the consent flow.
type persistingTokenSource struct {
	source oauth2.TokenSource
	store  TokenStore
	last   *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh youtube token: %w", err)
	}
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		if err := s.store.Save(token); err != nil {
			return nil, err
		}
		s.last = token
	}
	return token, nil
}

// StdinAuthorizer prompts on stderr and reads the pasted code from stdin.
type StdinAuthorizer struct{}

func (StdinAuthorizer) AuthorizeCode(ctx context.Context, authURL string) (string, error) {
	fmt.Fprintf(os.Stderr, "Open the following URL in your browser and paste the authorization code:\n\n%s\n\ncode: ", authURL)

	type result struct {
		code string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var code string
		_, err := fmt.Fscan(os.Stdin, &code)
		ch <- result{code: code, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return "", fmt.Errorf("read authorization code: %w", r.err)
		}
		return r.code, nil
	}
}
