package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Backend is the envelope search API the dispatcher reads from.
// Implementations return *Error for classified failures.
type Backend interface {
	AdvancedSearchVideos(ctx context.Context, req engine.AdvancedSearchRequest) (engine.Envelope[[]engine.VideoResult], error)
	SearchChannels(ctx context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.ChannelResult], error)
	SearchPlaylists(ctx context.Context, query string, maxResults int, pageToken string) (engine.Envelope[[]engine.PlaylistResult], error)
}

// Dispatcher runs one backend request per call and records its outcome in the store.
type Dispatcher struct {
	store    *Store
	backend  Backend
	pageSize int
	pending  atomic.Int32
}

// NewDispatcher creates a dispatcher. pageSize <= 0 means engine.DefaultPageSize.
func NewDispatcher(store *Store, backend Backend, pageSize int) *Dispatcher {
	if pageSize <= 0 {
		pageSize = engine.DefaultPageSize
	}
	return &Dispatcher{store: store, backend: backend, pageSize: pageSize}
}

// Pending reports whether any request is in flight.
func (d *Dispatcher) Pending() bool {
	return d.pending.Load() > 0
}

// Dispatch fetches one page of p in cat and records the result under CacheKey(p).
// A blank query returns ErrEmptyQuery without touching the backend or the store.
// Failures are recorded in the store and also returned; none are retried.
func (d *Dispatcher) Dispatch(ctx context.Context, p Params, cat Category, pageToken string) error {
	if !p.HasQuery() {
		return ErrEmptyQuery
	}
	key := CacheKey(p)
	d.store.Dispatch(ClearError{Category: cat, Key: key})

	d.pending.Add(1)
	defer d.pending.Add(-1)
	engine.IncrSessionDispatches()

	var pg page
	err := engine.TrackOperation(ctx, "dispatch_"+string(cat), func(ctx context.Context) error {
		var ferr error
		pg, ferr = d.fetch(ctx, p, cat, pageToken)
		return ferr
	})
	if err != nil {
		msg := fmt.Sprintf("Could not fetch %s: %s", cat, err.Error())
		d.store.Dispatch(RecordError{Category: cat, Key: key, Message: msg})
		engine.IncrSessionErrors()
		slog.Warn("search: dispatch failed",
			slog.String("category", string(cat)),
			slog.String("key", key),
			slog.String("kind", string(KindOf(err))),
			slog.Any("error", err))
		return err
	}

	d.store.Dispatch(RecordSuccess{
		Category:      cat,
		Key:           key,
		Results:       pg.items,
		NextPageToken: pg.next,
		PrevPageToken: pg.prev,
	})
	slog.Debug("search: page recorded",
		slog.String("category", string(cat)),
		slog.String("key", key),
		slog.Int("results", len(pg.items)))
	return nil
}

func (d *Dispatcher) fetch(ctx context.Context, p Params, cat Category, pageToken string) (page, error) {
	size := p.pageSize(d.pageSize)
	switch cat {
	case Videos:
		env, err := d.backend.AdvancedSearchVideos(ctx, p.Request(pageToken, d.pageSize))
		return fromEnvelope(env, err, videoItem)
	case Channels:
		env, err := d.backend.SearchChannels(ctx, p.Query, size, pageToken)
		return fromEnvelope(env, err, channelItem)
	case Playlists:
		env, err := d.backend.SearchPlaylists(ctx, p.Query, size, pageToken)
		return fromEnvelope(env, err, playlistItem)
	}
	return page{}, fmt.Errorf("dispatch: %w", &Error{Kind: KindAPI, Message: "unknown category " + string(cat)})
}
