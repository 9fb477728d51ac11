package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// RecordName is the name of the persisted session record.
const RecordName = "tubeSleuthSearchCache"

// saveTimeout bounds a single persistence write.
const saveTimeout = 5 * time.Second

// ErrNotFound is returned by Storage.Load for an absent record.
var ErrNotFound = errors.New("record not found")

// Storage is durable key/value storage for the session record.
type Storage interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// snapshot is the persisted projection of State.
type snapshot struct {
	ActiveParameters Params                        `json:"activeParameters"`
	ActiveCategory   Category                      `json:"activeCategory"`
	Cache            map[Category]map[string]Entry `json:"cache"`
}

// Encode serializes the persisted projection of s.
func Encode(s State) ([]byte, error) {
	return json.Marshal(snapshot{
		ActiveParameters: s.ActiveParams,
		ActiveCategory:   s.ActiveCategory,
		Cache:            s.Cache,
	})
}

// Decode parses a persisted record. Unknown categories are a schema mismatch.
func Decode(data []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	cat, err := ParseCategory(string(snap.ActiveCategory))
	if err != nil {
		return State{}, fmt.Errorf("decode session: %w", err)
	}
	for c := range snap.Cache {
		if _, err := ParseCategory(string(c)); err != nil {
			return State{}, fmt.Errorf("decode session cache: %w", err)
		}
	}
	return State{
		ActiveParams:   snap.ActiveParameters,
		ActiveCategory: cat,
		Cache:          snap.Cache,
	}, nil
}

// Hydrate loads the persisted record into store. Any read or decode failure
// falls back to the empty state. The store is marked hydrated either way.
func Hydrate(ctx context.Context, store *Store, storage Storage) State {
	loaded := NewState()
	if storage != nil {
		data, err := storage.Load(ctx, RecordName)
		switch {
		case errors.Is(err, ErrNotFound):
			slog.Debug("search: no persisted session")
		case err != nil:
			slog.Warn("search: load session failed, starting empty", slog.Any("error", err))
		default:
			if st, err := Decode(data); err != nil {
				slog.Warn("search: discarding persisted session", slog.Any("error", err))
			} else {
				loaded = st
			}
		}
	}
	return store.Dispatch(Hydrate{State: loaded})
}

// PersistHook returns an OnSettled hook that saves every hydrated state.
// Save failures are logged and swallowed.
func PersistHook(storage Storage) func(State) {
	return func(s State) {
		if !s.Hydrated {
			return
		}
		data, err := Encode(s)
		if err != nil {
			engine.IncrStateSaveFailures()
			slog.Warn("search: encode session failed", slog.Any("error", err))
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := storage.Save(ctx, RecordName, data); err != nil {
			engine.IncrStateSaveFailures()
			slog.Warn("search: save session failed", slog.Any("error", err))
		}
	}
}

// Reconcile lets a navigable address override the active parameters.
// When the address carries a query whose key differs from the active one,
// the address wins and a search is dispatched in the active category.
// It reports whether a search was dispatched.
func Reconcile(ctx context.Context, store *Store, d *Dispatcher, address url.Values) (bool, error) {
	p := ParamsFromValues(address)
	if !p.HasQuery() {
		return false, nil
	}
	cur := store.Snapshot()
	if CacheKey(p) == CacheKey(cur.ActiveParams) {
		return false, nil
	}
	store.Dispatch(SetParams{Params: p})
	return true, d.Dispatch(ctx, p, cur.ActiveCategory, "")
}
