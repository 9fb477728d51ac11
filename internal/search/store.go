package search

import (
	"fmt"
	"maps"
	"sync"
)

// Category partitions the result cache.
type Category string

const (
	Videos    Category = "videos"
	Channels  Category = "channels"
	Playlists Category = "playlists"
)

// Categories lists every category in display order.
var Categories = []Category{Videos, Channels, Playlists}

// ParseCategory validates s as a Category.
func ParseCategory(s string) (Category, error) {
	switch c := Category(s); c {
	case Videos, Channels, Playlists:
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q (want videos, channels or playlists)", s)
}

// Item is one normalized search result of any category.
type Item struct {
	Kind         Category `json:"kind"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	ChannelTitle string   `json:"channelTitle,omitempty"`
	ChannelID    string   `json:"channelId,omitempty"`
	PublishedAt  string   `json:"publishedAt,omitempty"`
	ThumbnailURL string   `json:"thumbnailUrl,omitempty"`
	URL          string   `json:"url"`
}

// Entry is the cached page for one (category, key) slot.
// Empty strings stand for absent tokens and no error.
type Entry struct {
	Results       []Item `json:"results"`
	NextPageToken string `json:"nextPageToken,omitempty"`
	PrevPageToken string `json:"prevPageToken,omitempty"`
	Error         string `json:"error,omitempty"`
}

// State is the whole search session. Values are never mutated in place:
// every transition returns a State with fresh maps along the changed path,
// so a State obtained from Snapshot stays valid after later transitions.
type State struct {
	ActiveParams   Params                        `json:"activeParameters"`
	ActiveCategory Category                      `json:"activeCategory"`
	Cache          map[Category]map[string]Entry `json:"cache"`
	Hydrated       bool                          `json:"-"`
}

// NewState returns the empty initial state.
func NewState() State {
	cache := make(map[Category]map[string]Entry, len(Categories))
	for _, c := range Categories {
		cache[c] = map[string]Entry{}
	}
	return State{ActiveCategory: Videos, Cache: cache}
}

// Lookup returns the entry at (cat, key).
func (s State) Lookup(cat Category, key string) (Entry, bool) {
	e, ok := s.Cache[cat][key]
	return e, ok
}

// withEntry returns a copy of s with e stored at (cat, key).
func (s State) withEntry(cat Category, key string, e Entry) State {
	cache := maps.Clone(s.Cache)
	if cache == nil {
		cache = map[Category]map[string]Entry{}
	}
	slot := maps.Clone(cache[cat])
	if slot == nil {
		slot = map[string]Entry{}
	}
	slot[key] = e
	cache[cat] = slot
	s.Cache = cache
	return s
}

// --- Actions ---

// Action is a state transition understood by Reduce.
type Action interface{ isAction() }

// SetParams replaces the active search parameters.
type SetParams struct{ Params Params }

// SetCategory switches the active category.
type SetCategory struct{ Category Category }

// RecordSuccess stores a fetched page and clears any error at the slot.
type RecordSuccess struct {
	Category      Category
	Key           string
	Results       []Item
	NextPageToken string
	PrevPageToken string
}

// RecordError empties the results at the slot and sets the error.
// Pagination tokens already cached at the slot are kept.
type RecordError struct {
	Category Category
	Key      string
	Message  string
}

// ClearError clears the error at the slot. No-op when the slot is empty.
type ClearError struct {
	Category Category
	Key      string
}

// Hydrate replaces the state with a loaded one and marks it hydrated.
type Hydrate struct{ State State }

func (SetParams) isAction()     {}
func (SetCategory) isAction()   {}
func (RecordSuccess) isAction() {}
func (RecordError) isAction()   {}
func (ClearError) isAction()    {}
func (Hydrate) isAction()       {}

// Reduce applies a to s and returns the next state. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetParams:
		s.ActiveParams = a.Params
	case SetCategory:
		s.ActiveCategory = a.Category
	case RecordSuccess:
		s = s.withEntry(a.Category, a.Key, Entry{
			Results:       cloneItems(a.Results),
			NextPageToken: a.NextPageToken,
			PrevPageToken: a.PrevPageToken,
		})
	case RecordError:
		prev, _ := s.Lookup(a.Category, a.Key)
		s = s.withEntry(a.Category, a.Key, Entry{
			Results:       []Item{},
			NextPageToken: prev.NextPageToken,
			PrevPageToken: prev.PrevPageToken,
			Error:         a.Message,
		})
	case ClearError:
		if e, ok := s.Lookup(a.Category, a.Key); ok && e.Error != "" {
			e.Error = ""
			s = s.withEntry(a.Category, a.Key, e)
		}
	case Hydrate:
		s = a.State
		cache := make(map[Category]map[string]Entry, len(Categories))
		for _, c := range Categories {
			cache[c] = s.Cache[c]
			if cache[c] == nil {
				cache[c] = map[string]Entry{}
			}
		}
		s.Cache = cache
		if s.ActiveCategory == "" {
			s.ActiveCategory = Videos
		}
		s.Hydrated = true
	}
	return s
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// --- Store ---

// Store is the state container of one search session.
// Safe for concurrent use; OnSettled hooks run after every transition
// in transition order and must not call Dispatch.
type Store struct {
	mu    sync.RWMutex
	state State
	hooks []func(State)

	settleMu sync.Mutex // serializes hooks so they observe transitions in order
}

// NewStore creates a store holding initial.
func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch applies a and runs the settled hooks with the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.settleMu.Lock()
	defer s.settleMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, a)
	next := s.state
	hooks := s.hooks
	s.mu.Unlock()

	for _, h := range hooks {
		h(next)
	}
	return next
}

// Snapshot returns the current state. Callers must treat its maps as read-only.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Lookup returns the cached entry at (cat, key).
func (s *Store) Lookup(cat Category, key string) (Entry, bool) {
	return s.Snapshot().Lookup(cat, key)
}

// OnSettled registers fn to run after every transition.
func (s *Store) OnSettled(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}
