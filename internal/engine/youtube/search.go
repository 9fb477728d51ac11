package youtube

import (
	"context"
	"fmt"
	"strconv"

	"github.com/anatolykoptev/go_tube/internal/engine"
	yt "google.golang.org/api/youtube/v3"
)

var searchParts = []string{"id", "snippet"}

// SearchVideos runs a video search with the full advanced filter set.
// Results are cached by every request field, page token included.
func (c *Client) SearchVideos(ctx context.Context, req engine.AdvancedSearchRequest) (engine.Page[engine.VideoResult], error) {
	maxResults := clampMaxResults(req.MaxResults)
	key := engine.CacheKey("videos", req.Query, strconv.FormatInt(maxResults, 10), req.Order,
		req.PublishedAfter, req.PublishedBefore, req.RegionCode, req.RelevanceLanguage,
		req.VideoDuration, req.PageToken)
	if page, ok := engine.CacheLoadJSON[engine.Page[engine.VideoResult]](ctx, key); ok {
		return page, nil
	}

	engine.IncrYouTubeSearch()
	resp, err := call(ctx, c, func(svc *yt.Service) (*yt.SearchListResponse, error) {
		list := svc.Search.List(searchParts).
			Q(req.Query).
			Type("video").
			MaxResults(maxResults)
		if req.PageToken != "" {
			list = list.PageToken(req.PageToken)
		}
		if req.Order != "" {
			list = list.Order(req.Order)
		}
		if req.PublishedAfter != "" {
			list = list.PublishedAfter(req.PublishedAfter)
		}
		if req.PublishedBefore != "" {
			list = list.PublishedBefore(req.PublishedBefore)
		}
		if req.RegionCode != "" {
			list = list.RegionCode(req.RegionCode)
		}
		if req.RelevanceLanguage != "" {
			list = list.RelevanceLanguage(req.RelevanceLanguage)
		}
		if req.VideoDuration != "" && req.VideoDuration != "any" {
			list = list.VideoDuration(req.VideoDuration)
		}
		return list.Context(ctx).Do()
	})
	if err != nil {
		return engine.Page[engine.VideoResult]{}, fmt.Errorf("youtube video search: %w", err)
	}

	page := engine.Page[engine.VideoResult]{
		Items:         make([]engine.VideoResult, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	if resp.PageInfo != nil {
		page.TotalResults = resp.PageInfo.TotalResults
	}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		page.Items = append(page.Items, engine.VideoResult{
			VideoID:      item.Id.VideoId,
			Title:        engine.CleanText(item.Snippet.Title),
			Description:  engine.CleanText(item.Snippet.Description),
			ChannelTitle: engine.CleanText(item.Snippet.ChannelTitle),
			ChannelID:    item.Snippet.ChannelId,
			PublishedAt:  item.Snippet.PublishedAt,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			VideoURL:     watchURL + item.Id.VideoId,
		})
	}

	engine.CacheStoreJSON(ctx, key, page)
	return page, nil
}

// SearchChannels searches channels by free-text query.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int, pageToken string) (engine.Page[engine.ChannelResult], error) {
	resp, err := c.searchType(ctx, "channel", query, maxResults, pageToken)
	if err != nil {
		return engine.Page[engine.ChannelResult]{}, fmt.Errorf("youtube channel search: %w", err)
	}

	page := engine.Page[engine.ChannelResult]{
		Items:         make([]engine.ChannelResult, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.ChannelId == "" || item.Snippet == nil {
			continue
		}
		page.Items = append(page.Items, engine.ChannelResult{
			ChannelID:    item.Id.ChannelId,
			Title:        engine.CleanText(item.Snippet.Title),
			Description:  engine.CleanText(item.Snippet.Description),
			PublishedAt:  item.Snippet.PublishedAt,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			ChannelURL:   channelURL + item.Id.ChannelId,
		})
	}
	return page, nil
}

// SearchPlaylists searches playlists by free-text query.
func (c *Client) SearchPlaylists(ctx context.Context, query string, maxResults int, pageToken string) (engine.Page[engine.PlaylistResult], error) {
	resp, err := c.searchType(ctx, "playlist", query, maxResults, pageToken)
	if err != nil {
		return engine.Page[engine.PlaylistResult]{}, fmt.Errorf("youtube playlist search: %w", err)
	}

	page := engine.Page[engine.PlaylistResult]{
		Items:         make([]engine.PlaylistResult, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.PlaylistId == "" || item.Snippet == nil {
			continue
		}
		page.Items = append(page.Items, engine.PlaylistResult{
			PlaylistID:   item.Id.PlaylistId,
			Title:        engine.CleanText(item.Snippet.Title),
			Description:  engine.CleanText(item.Snippet.Description),
			ChannelTitle: engine.CleanText(item.Snippet.ChannelTitle),
			ChannelID:    item.Snippet.ChannelId,
			PublishedAt:  item.Snippet.PublishedAt,
			ThumbnailURL: bestThumbnail(item.Snippet.Thumbnails),
			PlaylistURL:  playlistURL + item.Id.PlaylistId,
		})
	}
	return page, nil
}

// searchType runs a cached query-only search for a single resource type.
func (c *Client) searchType(ctx context.Context, kind, query string, maxResults int, pageToken string) (*yt.SearchListResponse, error) {
	n := clampMaxResults(maxResults)
	key := engine.CacheKey(kind, query, strconv.FormatInt(n, 10), pageToken)
	if resp, ok := engine.CacheLoadJSON[*yt.SearchListResponse](ctx, key); ok && resp != nil {
		return resp, nil
	}

	engine.IncrYouTubeSearch()
	resp, err := call(ctx, c, func(svc *yt.Service) (*yt.SearchListResponse, error) {
		list := svc.Search.List(searchParts).Q(query).Type(kind).MaxResults(n)
		if pageToken != "" {
			list = list.PageToken(pageToken)
		}
		return list.Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}
	engine.CacheStoreJSON(ctx, key, resp)
	return resp, nil
}
