package search

import "github.com/anatolykoptev/go_tube/internal/engine"

func videoItem(v engine.VideoResult) Item {
	return Item{
		Kind:         Videos,
		ID:           v.VideoID,
		Title:        v.Title,
		Description:  v.Description,
		ChannelTitle: v.ChannelTitle,
		ChannelID:    v.ChannelID,
		PublishedAt:  v.PublishedAt,
		ThumbnailURL: v.ThumbnailURL,
		URL:          v.VideoURL,
	}
}

func channelItem(c engine.ChannelResult) Item {
	return Item{
		Kind:         Channels,
		ID:           c.ChannelID,
		Title:        c.Title,
		Description:  c.Description,
		ChannelTitle: c.Title,
		ChannelID:    c.ChannelID,
		PublishedAt:  c.PublishedAt,
		ThumbnailURL: c.ThumbnailURL,
		URL:          c.ChannelURL,
	}
}

func playlistItem(p engine.PlaylistResult) Item {
	return Item{
		Kind:         Playlists,
		ID:           p.PlaylistID,
		Title:        p.Title,
		Description:  p.Description,
		ChannelTitle: p.ChannelTitle,
		ChannelID:    p.ChannelID,
		PublishedAt:  p.PublishedAt,
		ThumbnailURL: p.ThumbnailURL,
		URL:          p.PlaylistURL,
	}
}

// page is one fetched page ready to be recorded.
type page struct {
	items      []Item
	next, prev string
}

// fromEnvelope unwraps a backend envelope. A nil payload is a KindNoData error,
// or KindAPI when the envelope itself reports an error.
func fromEnvelope[T any](env engine.Envelope[[]T], err error, conv func(T) Item) (page, error) {
	if err != nil {
		return page{}, err
	}
	if env.Data == nil {
		if env.Status == engine.StatusError {
			msg := env.Message
			if msg == "" {
				msg = "API Error"
			}
			return page{}, &Error{Kind: KindAPI, Message: msg}
		}
		msg := env.Message
		if msg == "" {
			msg = "No data returned"
		}
		return page{}, &Error{Kind: KindNoData, Message: msg}
	}
	items := make([]Item, 0, len(*env.Data))
	for _, v := range *env.Data {
		items = append(items, conv(v))
	}
	return page{items: items, next: env.NextPageToken, prev: env.PrevPageToken}, nil
}
