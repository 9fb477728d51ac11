package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// SuggestFunc produces related video titles for a query.
type SuggestFunc func(ctx context.Context, in engine.SuggestRelatedInput) (engine.SuggestRelatedOutput, error)

// Session is one user's search session: a store, its dispatcher and the
// handlers the UI calls. Sessions are independent of each other.
type Session struct {
	store      *Store
	dispatcher *Dispatcher
	suggest    SuggestFunc
	limit      int
}

// Option configures a Session.
type Option func(*Session)

// WithPageSize sets the page size used when Params.MaxResults is unset.
func WithPageSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.dispatcher.pageSize = n
		}
	}
}

// WithSuggester replaces the related-video suggester.
func WithSuggester(fn SuggestFunc) Option {
	return func(s *Session) { s.suggest = fn }
}

// WithSuggestionLimit caps the suggestions returned by Related.
func WithSuggestionLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewSession creates a session with an empty, not yet hydrated store.
func NewSession(backend Backend, opts ...Option) *Session {
	store := NewStore(NewState())
	s := &Session{
		store:      store,
		dispatcher: NewDispatcher(store, backend, engine.DefaultPageSize),
		suggest:    engine.SuggestRelatedVideos,
		limit:      engine.DefaultSuggestionLimit,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Store exposes the session's state container.
func (s *Session) Store() *Store { return s.store }

// Dispatcher exposes the session's dispatcher.
func (s *Session) Dispatcher() *Dispatcher { return s.dispatcher }

// Hydrate loads the persisted session and, when storage is non-nil,
// persists every later transition to it.
func (s *Session) Hydrate(ctx context.Context, storage Storage) State {
	st := Hydrate(ctx, s.store, storage)
	if storage != nil {
		s.store.OnSettled(PersistHook(storage))
	}
	return st
}

// Reconcile applies a navigable address; see Reconcile.
func (s *Session) Reconcile(ctx context.Context, address url.Values) (bool, error) {
	return Reconcile(ctx, s.store, s.dispatcher, address)
}

// Submit runs a plain query in the active category. Filters are reset.
func (s *Session) Submit(ctx context.Context, query string) error {
	p := Params{Query: strings.TrimSpace(query)}
	if !p.HasQuery() {
		return ErrEmptyQuery
	}
	s.store.Dispatch(SetParams{Params: p})
	return s.dispatcher.Dispatch(ctx, p, s.store.Snapshot().ActiveCategory, "")
}

// Advanced runs a filtered video search and switches to the videos category.
func (s *Session) Advanced(ctx context.Context, p Params) error {
	p.Query = strings.TrimSpace(p.Query)
	if err := p.Validate(); err != nil {
		return err
	}
	s.store.Dispatch(SetParams{Params: p})
	s.store.Dispatch(SetCategory{Category: Videos})
	return s.dispatcher.Dispatch(ctx, p, Videos, "")
}

// SwitchCategory makes cat active and fetches it only when nothing,
// not even an error, is cached for the active parameters.
func (s *Session) SwitchCategory(ctx context.Context, cat Category) error {
	st := s.store.Dispatch(SetCategory{Category: cat})
	if !st.ActiveParams.HasQuery() {
		return nil
	}
	if _, ok := st.Lookup(cat, CacheKey(st.ActiveParams)); ok {
		return nil
	}
	return s.dispatcher.Dispatch(ctx, st.ActiveParams, cat, "")
}

// NextPage fetches the page after the cached one. No-op without a next token.
func (s *Session) NextPage(ctx context.Context) error {
	return s.turnPage(ctx, func(e Entry) string { return e.NextPageToken })
}

// PrevPage fetches the page before the cached one. No-op without a previous token.
func (s *Session) PrevPage(ctx context.Context) error {
	return s.turnPage(ctx, func(e Entry) string { return e.PrevPageToken })
}

func (s *Session) turnPage(ctx context.Context, token func(Entry) string) error {
	st := s.store.Snapshot()
	entry, ok := st.Lookup(st.ActiveCategory, CacheKey(st.ActiveParams))
	if !ok || token(entry) == "" {
		return nil
	}
	return s.dispatcher.Dispatch(ctx, st.ActiveParams, st.ActiveCategory, token(entry))
}

// View projects the active category.
func (s *Session) View() View {
	st := s.store.Snapshot()
	return Project(st, st.ActiveCategory, s.dispatcher.Pending())
}

// ViewOf projects cat without making it active.
func (s *Session) ViewOf(cat Category) View {
	return Project(s.store.Snapshot(), cat, s.dispatcher.Pending())
}

// Address returns the shareable query string of the active parameters.
func (s *Session) Address() string {
	return s.store.Snapshot().ActiveParams.Values().Encode()
}

// Suggestion is a related video title and the address that searches for it.
type Suggestion struct {
	Title   string `json:"title"`
	Address string `json:"address"`
}

// Related asks the suggester for videos related to query, capped at the
// suggestion limit. It does not touch the store.
func (s *Session) Related(ctx context.Context, query string) ([]Suggestion, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	out, err := s.suggest(ctx, engine.SuggestRelatedInput{Query: query})
	if err != nil {
		return nil, fmt.Errorf("related videos: %w", err)
	}
	titles := out.RelatedVideos
	if len(titles) > s.limit {
		titles = titles[:s.limit]
	}
	res := make([]Suggestion, 0, len(titles))
	for _, t := range titles {
		res = append(res, Suggestion{
			Title:   t,
			Address: "?" + url.Values{paramQueryAlias: {t}}.Encode(),
		})
	}
	return res, nil
}
