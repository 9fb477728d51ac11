package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCategory("shorts")
	assert.Error(t, err)
}

func TestReduceRecordSuccess(t *testing.T) {
	key := CacheKey(Params{Query: "go"})
	results := []Item{{Kind: Videos, ID: "a"}, {Kind: Videos, ID: "b"}}

	s := Reduce(NewState(), RecordSuccess{
		Category:      Videos,
		Key:           key,
		Results:       results,
		NextPageToken: "T2",
		PrevPageToken: "T0",
	})

	got, ok := s.Lookup(Videos, key)
	require.True(t, ok)
	assert.Equal(t, Entry{Results: results, NextPageToken: "T2", PrevPageToken: "T0"}, got)

	// The stored slice is a copy.
	results[0].ID = "mutated"
	got, _ = s.Lookup(Videos, key)
	assert.Equal(t, "a", got.Results[0].ID)
}

func TestReduceRecordSuccessClearsError(t *testing.T) {
	key := CacheKey(Params{Query: "go"})
	s := Reduce(NewState(), RecordError{Category: Channels, Key: key, Message: "boom"})
	s = Reduce(s, RecordSuccess{Category: Channels, Key: key, Results: []Item{{ID: "c"}}})

	got, _ := s.Lookup(Channels, key)
	assert.Empty(t, got.Error)
	assert.Len(t, got.Results, 1)
}

func TestReduceRecordErrorKeepsTokens(t *testing.T) {
	key := CacheKey(Params{Query: "go"})
	s := Reduce(NewState(), RecordSuccess{
		Category:      Videos,
		Key:           key,
		Results:       []Item{{ID: "a"}},
		NextPageToken: "T1",
		PrevPageToken: "T0",
	})
	s = Reduce(s, RecordError{Category: Videos, Key: key, Message: "Could not fetch videos: down"})

	got, ok := s.Lookup(Videos, key)
	require.True(t, ok)
	assert.Empty(t, got.Results)
	assert.NotNil(t, got.Results)
	assert.Equal(t, "Could not fetch videos: down", got.Error)
	assert.Equal(t, "T1", got.NextPageToken)
	assert.Equal(t, "T0", got.PrevPageToken)
}

func TestReduceRecordErrorOnEmptySlot(t *testing.T) {
	s := Reduce(NewState(), RecordError{Category: Playlists, Key: "query=x", Message: "nope"})
	got, ok := s.Lookup(Playlists, "query=x")
	require.True(t, ok)
	assert.Equal(t, Entry{Results: []Item{}, Error: "nope"}, got)
}

func TestReduceClearError(t *testing.T) {
	t.Run("absent slot is a no-op", func(t *testing.T) {
		before := NewState()
		after := Reduce(before, ClearError{Category: Videos, Key: "query=go"})
		_, ok := after.Lookup(Videos, "query=go")
		assert.False(t, ok)
		assert.Equal(t, before, after)
	})

	t.Run("clears only the error", func(t *testing.T) {
		s := Reduce(NewState(), RecordSuccess{Category: Videos, Key: "k", NextPageToken: "T1"})
		s = Reduce(s, RecordError{Category: Videos, Key: "k", Message: "x"})
		s = Reduce(s, ClearError{Category: Videos, Key: "k"})
		got, _ := s.Lookup(Videos, "k")
		assert.Empty(t, got.Error)
		assert.Equal(t, "T1", got.NextPageToken)
	})
}

func TestReduceDoesNotMutatePriorState(t *testing.T) {
	s0 := Reduce(NewState(), RecordSuccess{Category: Videos, Key: "k", Results: []Item{{ID: "first"}}})
	s1 := Reduce(s0, RecordSuccess{Category: Videos, Key: "k", Results: []Item{{ID: "second"}}})
	s2 := Reduce(s1, RecordSuccess{Category: Channels, Key: "k", Results: []Item{{ID: "chan"}}})

	e0, _ := s0.Lookup(Videos, "k")
	e1, _ := s1.Lookup(Videos, "k")
	assert.Equal(t, "first", e0.Results[0].ID)
	assert.Equal(t, "second", e1.Results[0].ID)

	_, ok := s1.Lookup(Channels, "k")
	assert.False(t, ok, "earlier state must not see later writes")
	_, ok = s2.Lookup(Channels, "k")
	assert.True(t, ok)
}

func TestReduceHydrate(t *testing.T) {
	loaded := State{
		ActiveParams: Params{Query: "go"},
		Cache:        map[Category]map[string]Entry{Videos: {"query=go": {Results: []Item{{ID: "a"}}}}},
	}
	s := Reduce(NewState(), Hydrate{State: loaded})

	assert.True(t, s.Hydrated)
	assert.Equal(t, Videos, s.ActiveCategory)
	assert.NotNil(t, s.Cache[Channels])
	assert.NotNil(t, s.Cache[Playlists])
	_, ok := s.Lookup(Videos, "query=go")
	assert.True(t, ok)
}

func TestStoreOnSettled(t *testing.T) {
	store := NewStore(NewState())
	var seen []Category
	store.OnSettled(func(s State) { seen = append(seen, s.ActiveCategory) })

	store.Dispatch(SetCategory{Category: Channels})
	store.Dispatch(SetCategory{Category: Playlists})

	assert.Equal(t, []Category{Channels, Playlists}, seen)
	assert.Equal(t, Playlists, store.Snapshot().ActiveCategory)
}

func TestStoreSnapshotStableUnderWrites(t *testing.T) {
	store := NewStore(NewState())
	store.Dispatch(RecordSuccess{Category: Videos, Key: "k", Results: []Item{{ID: "a"}}})
	snap := store.Snapshot()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(RecordSuccess{Category: Videos, Key: "k", Results: []Item{{ID: "b"}}})
		}()
	}
	wg.Wait()

	e, _ := snap.Lookup(Videos, "k")
	assert.Equal(t, "a", e.Results[0].ID)
	e, _ = store.Lookup(Videos, "k")
	assert.Equal(t, "b", e.Results[0].ID)
}
