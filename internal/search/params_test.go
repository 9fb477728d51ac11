package search

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want string
	}{
		{"query only", Params{Query: "golang tutorial"}, "query=golang+tutorial"},
		{"empty fields dropped", Params{Query: "go", Order: "", RegionCode: ""}, "query=go"},
		{
			"sorted by field name",
			Params{Query: "go", VideoDuration: "short", MaxResults: 12, Order: "date"},
			"maxResults=12&order=date&query=go&videoDuration=short",
		},
		{"escaped", Params{Query: "rock & roll"}, "query=rock+%26+roll"},
		{"empty params", Params{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CacheKey(tt.p))
		})
	}
}

func TestCacheKeyIgnoresFieldOrder(t *testing.T) {
	// The same fields arriving in different address orders.
	a, err := url.ParseQuery("query=go&order=date&regionCode=US")
	require.NoError(t, err)
	b, err := url.ParseQuery("regionCode=US&query=go&order=date&publishedAfter=")
	require.NoError(t, err)

	assert.Equal(t, CacheKey(ParamsFromValues(a)), CacheKey(ParamsFromValues(b)))
	assert.Equal(t,
		CacheKey(Params{Query: "go", Order: "date", RegionCode: "US"}),
		CacheKey(Params{RegionCode: "US", Order: "date", Query: "go"}),
	)
}

func TestCacheKeyDateRangeDistinct(t *testing.T) {
	plain := Params{Query: "golang"}
	ranged := Params{
		Query:           "golang",
		PublishedAfter:  "2024-01-01T00:00:00Z",
		PublishedBefore: "2024-06-30T00:00:00Z",
	}
	assert.NotEqual(t, CacheKey(plain), CacheKey(ranged))

	s := NewState()
	s = Reduce(s, RecordSuccess{Category: Videos, Key: CacheKey(plain), Results: []Item{{ID: "a"}}})
	s = Reduce(s, RecordSuccess{Category: Videos, Key: CacheKey(ranged), Results: []Item{{ID: "b"}}})

	e1, ok := s.Lookup(Videos, CacheKey(plain))
	require.True(t, ok)
	e2, ok := s.Lookup(Videos, CacheKey(ranged))
	require.True(t, ok)
	assert.Equal(t, "a", e1.Results[0].ID)
	assert.Equal(t, "b", e2.Results[0].ID)
}

func TestParamsFromValues(t *testing.T) {
	t.Run("q alias", func(t *testing.T) {
		p := ParamsFromValues(url.Values{"q": {"go generics"}})
		assert.Equal(t, "go generics", p.Query)
	})
	t.Run("query wins over alias", func(t *testing.T) {
		p := ParamsFromValues(url.Values{"q": {"alias"}, "query": {"real"}})
		assert.Equal(t, "real", p.Query)
	})
	t.Run("bad maxResults ignored", func(t *testing.T) {
		p := ParamsFromValues(url.Values{"query": {"go"}, "maxResults": {"many"}})
		assert.Zero(t, p.MaxResults)
	})
	t.Run("round trip", func(t *testing.T) {
		in := Params{
			Query:             "go",
			MaxResults:        25,
			Order:             "viewCount",
			PublishedAfter:    "2024-01-01T00:00:00Z",
			PublishedBefore:   "2024-02-01T00:00:00Z",
			RegionCode:        "DE",
			RelevanceLanguage: "de",
			VideoDuration:     "long",
		}
		assert.Equal(t, in, ParamsFromValues(in.Values()))
	})
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Params
		wantErr bool
	}{
		{"query only", Params{Query: "go"}, false},
		{"blank query", Params{Query: "   "}, true},
		{"max results bounds", Params{Query: "go", MaxResults: 50}, false},
		{"max results too large", Params{Query: "go", MaxResults: 51}, true},
		{"max results negative", Params{Query: "go", MaxResults: -1}, true},
		{"bad order", Params{Query: "go", Order: "popular"}, true},
		{"bad duration", Params{Query: "go", VideoDuration: "epic"}, true},
		{"bad date", Params{Query: "go", PublishedAfter: "yesterday"}, true},
		{
			"inverted range",
			Params{Query: "go", PublishedAfter: "2024-06-01T00:00:00Z", PublishedBefore: "2024-01-01T00:00:00Z"},
			true,
		},
		{
			"valid range",
			Params{Query: "go", PublishedAfter: "2024-01-01T00:00:00Z", PublishedBefore: "2024-06-01T00:00:00Z", Order: "date", VideoDuration: "any"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.ErrorIs(t, Params{}.Validate(), ErrEmptyQuery)
}

func TestParamsRequest(t *testing.T) {
	p := Params{Query: "go", Order: "date"}
	req := p.Request("T1", 12)
	assert.Equal(t, 12, req.MaxResults)
	assert.Equal(t, "T1", req.PageToken)
	assert.Equal(t, "date", req.Order)

	p.MaxResults = 30
	assert.Equal(t, 30, p.Request("", 12).MaxResults)
}
