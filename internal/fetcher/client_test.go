package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", "secret", srv.Client())
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSearchVideosRequest(t *testing.T) {
	var got *http.Request
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeJSON(t, w, http.StatusOK, engine.NewEnvelope([]engine.VideoResult{{VideoID: "abc"}}, "T1", ""))
	})

	env, err := c.SearchVideos(context.Background(), "golang tutorial", 12, "")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/api/YouTubeSearch/videos", got.URL.Path)
	assert.Equal(t, "golang tutorial", got.URL.Query().Get("query"))
	assert.Equal(t, "12", got.URL.Query().Get("maxResults"))
	assert.False(t, got.URL.Query().Has("pageToken"))
	assert.Equal(t, "secret", got.Header.Get("X-API-KEY"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))

	assert.Equal(t, engine.StatusSuccess, env.Status)
	assert.Equal(t, "T1", env.NextPageToken)
	require.NotNil(t, env.Data)
	assert.Equal(t, "abc", (*env.Data)[0].VideoID)
}

func TestAdvancedSearchVideosBody(t *testing.T) {
	var body engine.AdvancedSearchRequest
	var method, path string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, engine.NewEnvelope([]engine.VideoResult{}, "", "T0"))
	})

	req := engine.AdvancedSearchRequest{
		Query:           "golang",
		MaxResults:      12,
		PublishedAfter:  "2024-01-01T00:00:00Z",
		PublishedBefore: "2024-06-01T00:00:00Z",
		PageToken:       "T1",
	}
	env, err := c.AdvancedSearchVideos(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/api/YouTubeSearch/videos/advanced", path)
	assert.Equal(t, req, body)
	assert.Equal(t, "T0", env.PrevPageToken)
}

func TestChannelsPlaylistsAndDetailsPaths(t *testing.T) {
	var paths []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		switch r.URL.Path {
		case "/api/YouTubeSearch/channels":
			writeJSON(t, w, http.StatusOK, engine.NewEnvelope([]engine.ChannelResult{{ChannelID: "UC1"}}, "", ""))
		case "/api/YouTubeSearch/playlists":
			writeJSON(t, w, http.StatusOK, engine.NewEnvelope([]engine.PlaylistResult{{PlaylistID: "PL1"}}, "", ""))
		default:
			writeJSON(t, w, http.StatusOK, engine.NewEnvelope(engine.VideoDetails{
				VideoResult: engine.VideoResult{VideoID: "abc"},
				ViewCount:   10,
			}, "", ""))
		}
	})
	ctx := context.Background()

	ch, err := c.SearchChannels(ctx, "go", 5, "C2")
	require.NoError(t, err)
	assert.Equal(t, "UC1", (*ch.Data)[0].ChannelID)

	pl, err := c.SearchPlaylists(ctx, "go", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "PL1", (*pl.Data)[0].PlaylistID)

	d, err := c.GetVideoDetails(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), d.Data.ViewCount)

	assert.Equal(t, []string{
		"/api/YouTubeSearch/channels?maxResults=5&pageToken=C2&query=go",
		"/api/YouTubeSearch/playlists?query=go",
		"/api/YouTubeSearch/videos/abc/details?",
	}, paths)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantMsg    string
		wantStatus int
	}{
		{"message from body", http.StatusBadRequest, `{"status":"Error","message":"Query is required"}`, "Query is required", 400},
		{"status text fallback", http.StatusServiceUnavailable, `upstream down`, "API Error: Service Unavailable", 503},
		{"empty message", http.StatusForbidden, `{"message":""}`, "API Error: Forbidden", 403},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.SearchChannels(context.Background(), "go", 0, "")

			var se *search.Error
			require.True(t, errors.As(err, &se))
			assert.Equal(t, search.KindAPI, se.Kind)
			assert.Equal(t, tt.wantMsg, se.Message)
			assert.Equal(t, tt.wantStatus, se.Status)
		})
	}
}

func TestConnectivityError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base, "", &http.Client{})
	_, err := c.SearchPlaylists(context.Background(), "go", 0, "")

	var se *search.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, search.KindConnectivity, se.Kind)
	assert.Equal(t, MsgConnectivity, se.Message)
	assert.Error(t, se.Unwrap())
}

func TestNullDataPassedThrough(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "Success", "data": nil, "timestamp": "now"})
	})
	env, err := c.SearchVideos(context.Background(), "go", 0, "")
	require.NoError(t, err)
	assert.Nil(t, env.Data)
}

func TestUndecodableBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	})
	_, err := c.SearchVideos(context.Background(), "go", 0, "")
	assert.Equal(t, search.KindNoData, search.KindOf(err))
}

func TestDispatcherThroughFetcher(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"Error","message":"YouTube quota exceeded"}`))
	})
	store := search.NewStore(search.NewState())
	d := search.NewDispatcher(store, c, 0)

	err := d.Dispatch(context.Background(), search.Params{Query: "x"}, search.Channels, "")
	require.Error(t, err)

	e, ok := store.Lookup(search.Channels, search.CacheKey(search.Params{Query: "x"}))
	require.True(t, ok)
	assert.Equal(t, "Could not fetch channels: YouTube quota exceeded", e.Error)
}
