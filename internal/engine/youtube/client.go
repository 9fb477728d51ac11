// Package youtube talks to the YouTube Data API v3 and maps its resources
// onto the engine's search result types.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const (
	watchURL    = "https://www.youtube.com/watch?v="
	channelURL  = "https://www.youtube.com/channel/"
	playlistURL = "https://www.youtube.com/playlist?list="

	defaultMaxResults = 25
	maxMaxResults     = 50 // Data API hard limit per page
)

// Client wraps one Data API service per configured key.
// The first key is primary; later keys are used when the previous one hits its quota.
type Client struct {
	services []*yt.Service
	limiter  *rate.Limiter // nil = unlimited
	retry    engine.RetryConfig
}

// NewClient creates a Data API client for each key in keys (empty keys are skipped).
// Extra opts are applied to every service, e.g. option.WithEndpoint in tests.
func NewClient(ctx context.Context, keys []string, qps float64, opts ...option.ClientOption) (*Client, error) {
	c := &Client{retry: engine.DefaultRetryConfig}
	for _, key := range keys {
		if key == "" {
			continue
		}
		svcOpts := append([]option.ClientOption{option.WithAPIKey(key)}, opts...)
		svc, err := yt.NewService(ctx, svcOpts...)
		if err != nil {
			return nil, fmt.Errorf("youtube: create service: %w", err)
		}
		c.services = append(c.services, svc)
	}
	if len(c.services) == 0 {
		return nil, errors.New("youtube: missing API key: set YOUTUBE_API_KEY")
	}
	if qps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(qps), max(1, int(qps)))
	}
	return c, nil
}

// NewClientFromConfig builds a client from engine.Cfg.
// option.WithHTTPClient is not passed here: it bypasses the API key transport.
func NewClientFromConfig(ctx context.Context, opts ...option.ClientOption) (*Client, error) {
	return NewClient(ctx,
		[]string{engine.Cfg.YouTubeAPIKey, engine.Cfg.YouTubeAPIKeyFallback},
		engine.Cfg.YouTubeQPS,
		opts...,
	)
}

// call runs fn against each service in turn, moving to the next key only on quota errors.
// Transient failures are retried with backoff on the same key.
func call[T any](ctx context.Context, c *Client, fn func(svc *yt.Service) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for i, svc := range c.services {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return zero, err
			}
		}
		out, err := engine.RetryDo(ctx, c.retry, func() (T, error) {
			return fn(svc)
		})
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !engine.IsQuotaError(err) {
			break
		}
		slog.Debug("youtube data API key failed, trying fallback", slog.Int("key", i), slog.Any("error", err))
	}
	engine.IncrYouTubeErrors()
	return zero, lastErr
}

// clampMaxResults maps 0 to the default and caps at the API limit.
func clampMaxResults(n int) int64 {
	if n <= 0 {
		return defaultMaxResults
	}
	if n > maxMaxResults {
		return maxMaxResults
	}
	return int64(n)
}

// bestThumbnail returns the URL of the best available thumbnail.
func bestThumbnail(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
