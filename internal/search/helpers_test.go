package search

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// backendCall records one request seen by fakeBackend.
type backendCall struct {
	Category   Category
	Query      string
	MaxResults int
	PageToken  string
	Request    engine.AdvancedSearchRequest
}

// fakeBackend serves canned pages. Handlers left nil return a one-item page.
type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall

	videos    func(req engine.AdvancedSearchRequest) (engine.Envelope[[]engine.VideoResult], error)
	channels  func(query string, maxResults int, pageToken string) (engine.Envelope[[]engine.ChannelResult], error)
	playlists func(query string, maxResults int, pageToken string) (engine.Envelope[[]engine.PlaylistResult], error)
}

func (f *fakeBackend) record(c backendCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeBackend) Calls() []backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backendCall(nil), f.calls...)
}

func (f *fakeBackend) AdvancedSearchVideos(_ context.Context, req engine.AdvancedSearchRequest) (engine.Envelope[[]engine.VideoResult], error) {
	f.record(backendCall{Category: Videos, Query: req.Query, MaxResults: req.MaxResults, PageToken: req.PageToken, Request: req})
	if f.videos != nil {
		return f.videos(req)
	}
	return engine.NewEnvelope(videoPage("v", 1), "", ""), nil
}

func (f *fakeBackend) SearchChannels(_ context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.ChannelResult], error) {
	f.record(backendCall{Category: Channels, Query: query, MaxResults: maxResults, PageToken: pageToken})
	if f.channels != nil {
		return f.channels(query, maxResults, pageToken)
	}
	return engine.NewEnvelope([]engine.ChannelResult{{ChannelID: "UC1", Title: "Gophers"}}, "", ""), nil
}

func (f *fakeBackend) SearchPlaylists(_ context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.PlaylistResult], error) {
	f.record(backendCall{Category: Playlists, Query: query, MaxResults: maxResults, PageToken: pageToken})
	if f.playlists != nil {
		return f.playlists(query, maxResults, pageToken)
	}
	return engine.NewEnvelope([]engine.PlaylistResult{{PlaylistID: "PL1", Title: "Go course"}}, "", ""), nil
}

// videoPage returns n videos whose IDs start with prefix.
func videoPage(prefix string, n int) []engine.VideoResult {
	out := make([]engine.VideoResult, n)
	for i := range out {
		id := fmt.Sprintf("%s%d", prefix, i)
		out[i] = engine.VideoResult{
			VideoID:  id,
			Title:    "Video " + id,
			VideoURL: "https://www.youtube.com/watch?v=" + id,
		}
	}
	return out
}

// memStorage is an in-memory Storage with injectable failures.
type memStorage struct {
	mu      sync.Mutex
	records map[string][]byte
	saves   int
	loadErr error
	saveErr error
}

func newMemStorage() *memStorage {
	return &memStorage{records: map[string][]byte{}}
}

func (m *memStorage) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	data, ok := m.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	return data, nil
}

func (m *memStorage) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[name] = append([]byte(nil), data...)
	return nil
}

func (m *memStorage) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var errUnreachable = &Error{
	Kind:    KindConnectivity,
	Message: "Cannot connect to the backend service. It might be unavailable.",
	Err:     errors.New("dial tcp 127.0.0.1:1: connect: connection refused"),
}
