package youtube

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"blindtest/internal/services"
)

// APIInserter is the production Inserter, wrapping the generated YouTube
// Data API client. Each Insert performs one full resumable upload attempt;
// chunking within the attempt is handled by the media uploader.
type APIInserter struct {
	service   *yt.Service
	chunkSize int
}

// NewAPIInserter builds the API-backed inserter. chunkSizeMiB controls the
// resumable upload chunk size.
func NewAPIInserter(ctx context.Context, source oauth2.TokenSource, chunkSizeMiB int) (*APIInserter, error) {
	service, err := yt.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "youtube", "client",
			"create youtube service", err)
	}
	if chunkSizeMiB <= 0 {
		chunkSizeMiB = 8
	}
	return &APIInserter{
		service:   service,
		chunkSize: chunkSizeMiB << 20,
	}, nil
}

// Insert uploads the media with the given metadata and returns the new
// video's ID.
func (c *APIInserter) Insert(ctx context.Context, meta Metadata, media *os.File) (string, error) {
	video := &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  meta.CategoryID,
		},
		Status: &yt.VideoStatus{
			PrivacyStatus: meta.PrivacyStatus,
		},
	}

	call := c.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(media, googleapi.ChunkSize(c.chunkSize)).
		Context(ctx)
	result, err := call.Do()
	if err != nil {
		return "", err
	}
	return result.Id, nil
}
