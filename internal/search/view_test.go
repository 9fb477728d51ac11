package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject(t *testing.T) {
	p := Params{Query: "go"}
	key := CacheKey(p)
	withEntry := func(e Entry) State {
		s := Reduce(NewState(), SetParams{Params: p})
		return s.withEntry(Videos, key, e)
	}

	tests := []struct {
		name     string
		state    State
		pending  bool
		want     Status
		wantNext bool
		wantPrev bool
	}{
		{name: "no query", state: NewState(), want: StatusIdle},
		{name: "query not fetched", state: Reduce(NewState(), SetParams{Params: p}), want: StatusIdle},
		{name: "pending", state: Reduce(NewState(), SetParams{Params: p}), pending: true, want: StatusLoading},
		{
			name:  "error",
			state: withEntry(Entry{Results: []Item{}, NextPageToken: "T1", Error: "Could not fetch videos: x"}),
			want:  StatusError,
		},
		{name: "empty", state: withEntry(Entry{Results: []Item{}}), want: StatusEmpty},
		{
			name:     "results with both tokens",
			state:    withEntry(Entry{Results: []Item{{ID: "a"}}, NextPageToken: "T2", PrevPageToken: "T0"}),
			want:     StatusResults,
			wantNext: true,
			wantPrev: true,
		},
		{
			name:    "pending hides pagination",
			state:   withEntry(Entry{Results: []Item{{ID: "a"}}, NextPageToken: "T2"}),
			pending: true,
			want:    StatusLoading,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Project(tt.state, Videos, tt.pending)
			assert.Equal(t, tt.want, v.Status)
			assert.Equal(t, tt.wantNext, v.HasNext)
			assert.Equal(t, tt.wantPrev, v.HasPrev)
			assert.NotNil(t, v.Items)
		})
	}
}

func TestProjectOtherCategory(t *testing.T) {
	s := Reduce(NewState(), SetParams{Params: Params{Query: "go"}})
	s = Reduce(s, RecordSuccess{Category: Channels, Key: "query=go", Results: []Item{{ID: "UC1"}}})

	assert.Equal(t, StatusIdle, Project(s, Videos, false).Status)
	v := Project(s, Channels, false)
	assert.Equal(t, StatusResults, v.Status)
	assert.Equal(t, Channels, v.Category)
	assert.Equal(t, "UC1", v.Items[0].ID)
}
