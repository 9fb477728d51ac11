package engine

import "time"

// --- Envelope ---

// Envelope statuses.
const (
	StatusSuccess = "Success"
	StatusError   = "Error"
)

// Envelope is the uniform response wrapper of the search backend.
// Data is nil when the backend had nothing usable to return.
type Envelope[T any] struct {
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
	Data          *T     `json:"data"`
	Timestamp     string `json:"timestamp"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	PrevPageToken string `json:"prevPageToken,omitempty"`
}

// NewEnvelope wraps data in a success envelope stamped with the current time.
func NewEnvelope[T any](data T, next, prev string) Envelope[T] {
	return Envelope[T]{
		Status:        StatusSuccess,
		Data:          &data,
		Timestamp:     Timestamp(),
		NextPageToken: next,
		PrevPageToken: prev,
	}
}

// ErrorEnvelope builds an error envelope with no data.
func ErrorEnvelope[T any](message string) Envelope[T] {
	return Envelope[T]{
		Status:    StatusError,
		Message:   message,
		Timestamp: Timestamp(),
	}
}

// Timestamp returns the current time in RFC 3339 (UTC, millisecond precision).
func Timestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// --- Search results ---

type VideoResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	ChannelID    string `json:"channelId"`
	PublishedAt  string `json:"publishedAt"`
	ThumbnailURL string `json:"thumbnailUrl"`
	VideoURL     string `json:"videoUrl"`
}

type ChannelResult struct {
	ChannelID    string `json:"channelId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PublishedAt  string `json:"publishedAt"`
	ThumbnailURL string `json:"thumbnailUrl"`
	ChannelURL   string `json:"channelUrl"`
}

type PlaylistResult struct {
	PlaylistID   string `json:"playlistId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	ChannelID    string `json:"channelId"`
	PublishedAt  string `json:"publishedAt"`
	ThumbnailURL string `json:"thumbnailUrl"`
	PlaylistURL  string `json:"playlistUrl"`
}

// VideoDetails is the full record of a single video.
type VideoDetails struct {
	VideoResult
	ViewCount    uint64   `json:"viewCount"`
	LikeCount    uint64   `json:"likeCount"`
	CommentCount uint64   `json:"commentCount"`
	Duration     string   `json:"duration"`
	Tags         []string `json:"tags"`
}

// Page is one page of upstream results plus its pagination tokens.
type Page[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	PrevPageToken string `json:"prevPageToken,omitempty"`
	TotalResults  int64  `json:"totalResults,omitempty"`
}

// --- Requests ---

// AdvancedSearchRequest is the body of the advanced video search.
type AdvancedSearchRequest struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"maxResults,omitempty"`
	Order             string `json:"order,omitempty"`
	PublishedAfter    string `json:"publishedAfter,omitempty"`
	PublishedBefore   string `json:"publishedBefore,omitempty"`
	RegionCode        string `json:"regionCode,omitempty"`
	RelevanceLanguage string `json:"relevanceLanguage,omitempty"`
	VideoDuration     string `json:"videoDuration,omitempty"`
	PageToken         string `json:"pageToken,omitempty"`
}

// --- AI suggestions ---

type SuggestRelatedInput struct {
	Query string `json:"query" jsonschema:"Video title or search query to find related videos for"`
}

type SuggestRelatedOutput struct {
	RelatedVideos []string `json:"relatedVideos"`
}
