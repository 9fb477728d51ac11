// Package fetcher is the HTTP client of the envelope search backend.
// Transport and HTTP failures are returned as classified *search.Error values.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/search"
)

// User-facing failure messages.
const (
	MsgConnectivity = "Cannot connect to the backend service. It might be unavailable."
	MsgNoData       = "No data returned"
)

const (
	apiPrefix    = "/api/YouTubeSearch"
	maxErrorBody = 64 << 10
)

var _ search.Backend = (*Client)(nil)

// Client calls the search backend at baseURL.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
}

// New creates a client. A nil hc uses engine.Cfg.HTTPClient.
func New(baseURL, apiKey string, hc *http.Client) *Client {
	if hc == nil {
		hc = engine.Cfg.HTTPClient
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, hc: hc}
}

// SearchVideos runs a plain video search.
func (c *Client) SearchVideos(ctx context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.VideoResult], error) {
	return get[[]engine.VideoResult](ctx, c, apiPrefix+"/videos", pageQuery(query, maxResults, pageToken))
}

// AdvancedSearchVideos runs a filtered video search.
func (c *Client) AdvancedSearchVideos(ctx context.Context, req engine.AdvancedSearchRequest) (engine.Envelope[[]engine.VideoResult], error) {
	return do[[]engine.VideoResult](ctx, c, http.MethodPost, apiPrefix+"/videos/advanced", nil, req)
}

// SearchChannels searches channels.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.ChannelResult], error) {
	return get[[]engine.ChannelResult](ctx, c, apiPrefix+"/channels", pageQuery(query, maxResults, pageToken))
}

// SearchPlaylists searches playlists.
func (c *Client) SearchPlaylists(ctx context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.PlaylistResult], error) {
	return get[[]engine.PlaylistResult](ctx, c, apiPrefix+"/playlists", pageQuery(query, maxResults, pageToken))
}

// GetVideoDetails fetches one video. Not paginated.
func (c *Client) GetVideoDetails(ctx context.Context, videoID string) (engine.Envelope[engine.VideoDetails], error) {
	return get[engine.VideoDetails](ctx, c, apiPrefix+"/videos/"+url.PathEscape(videoID)+"/details", nil)
}

func pageQuery(query string, maxResults int, pageToken string) url.Values {
	v := url.Values{"query": {query}}
	if maxResults > 0 {
		v.Set("maxResults", strconv.Itoa(maxResults))
	}
	if pageToken != "" {
		v.Set("pageToken", pageToken)
	}
	return v
}

func get[T any](ctx context.Context, c *Client, path string, q url.Values) (engine.Envelope[T], error) {
	return do[T](ctx, c, http.MethodGet, path, q, nil)
}

// do sends one request and decodes the envelope. A 2xx envelope with null data
// is returned as is; the caller decides whether that is a failure.
func do[T any](ctx context.Context, c *Client, method, path string, q url.Values, body any) (engine.Envelope[T], error) {
	var env engine.Envelope[T]

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("encode %s body: %w", path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return env, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", engine.UserAgentBot)
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	engine.IncrBackendRequests()
	resp, err := c.hc.Do(req)
	if err != nil {
		engine.IncrBackendErrors()
		slog.Debug("fetcher: request failed", slog.String("path", path), slog.Any("error", err))
		return env, &search.Error{Kind: search.KindConnectivity, Message: MsgConnectivity, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		engine.IncrBackendErrors()
		return env, apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		engine.IncrBackendErrors()
		return env, &search.Error{Kind: search.KindNoData, Message: MsgNoData, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return env, nil
}

// apiError builds a KindAPI error from the body's "message" field,
// falling back to the status text.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(data, &body) == nil {
		msg = strings.TrimSpace(body.Message)
	}
	if msg == "" {
		text := http.StatusText(resp.StatusCode)
		if text == "" {
			text = resp.Status
		}
		msg = "API Error: " + text
	}
	return &search.Error{
		Kind:    search.KindAPI,
		Message: msg,
		Status:  resp.StatusCode,
		Err:     fmt.Errorf("backend returned %d", resp.StatusCode),
	}
}
