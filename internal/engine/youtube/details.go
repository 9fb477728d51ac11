package youtube

import (
	"context"
	"errors"
	"fmt"

	"github.com/anatolykoptev/go_tube/internal/engine"
	yt "google.golang.org/api/youtube/v3"
)

// ErrVideoNotFound is returned when the Data API has no video with the given ID.
var ErrVideoNotFound = errors.New("video not found")

var detailParts = []string{"snippet", "contentDetails", "statistics"}

// VideoDetails fetches snippet, duration and statistics of one video.
func (c *Client) VideoDetails(ctx context.Context, id string) (*engine.VideoDetails, error) {
	if id == "" {
		return nil, errors.New("youtube video details: empty video id")
	}
	key := engine.CacheKey("details", id)
	if d, ok := engine.CacheLoadJSON[engine.VideoDetails](ctx, key); ok {
		return &d, nil
	}

	engine.IncrYouTubeDetails()
	resp, err := call(ctx, c, func(svc *yt.Service) (*yt.VideoListResponse, error) {
		return svc.Videos.List(detailParts).Id(id).Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("youtube video details: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("youtube video details %s: %w", id, ErrVideoNotFound)
	}

	v := resp.Items[0]
	d := engine.VideoDetails{
		VideoResult: engine.VideoResult{
			VideoID:      v.Id,
			Title:        engine.CleanText(v.Snippet.Title),
			Description:  engine.CleanText(v.Snippet.Description),
			ChannelTitle: engine.CleanText(v.Snippet.ChannelTitle),
			ChannelID:    v.Snippet.ChannelId,
			PublishedAt:  v.Snippet.PublishedAt,
			ThumbnailURL: bestThumbnail(v.Snippet.Thumbnails),
			VideoURL:     watchURL + v.Id,
		},
		Tags: v.Snippet.Tags,
	}
	if v.ContentDetails != nil {
		d.Duration = v.ContentDetails.Duration
	}
	if v.Statistics != nil {
		d.ViewCount = v.Statistics.ViewCount
		d.LikeCount = v.Statistics.LikeCount
		d.CommentCount = v.Statistics.CommentCount
	}

	engine.CacheStoreJSON(ctx, key, d)
	return &d, nil
}
