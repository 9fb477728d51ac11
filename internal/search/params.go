// Package search holds the search session: normalized cache keys, the per-category
// result cache with pagination tokens, the dispatcher that fills it from the backend,
// persistence of the whole state and the view derived from it.
package search

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_tube/internal/engine"
)

// Params is one immutable set of search parameters.
type Params struct {
	Query             string `json:"query"`
	MaxResults        int    `json:"maxResults,omitempty"`
	Order             string `json:"order,omitempty"`
	PublishedAfter    string `json:"publishedAfter,omitempty"`
	PublishedBefore   string `json:"publishedBefore,omitempty"`
	RegionCode        string `json:"regionCode,omitempty"`
	RelevanceLanguage string `json:"relevanceLanguage,omitempty"`
	VideoDuration     string `json:"videoDuration,omitempty"`
}

// Parameter names as they appear in cache keys and addresses.
const (
	paramQuery             = "query"
	paramQueryAlias        = "q"
	paramMaxResults        = "maxResults"
	paramOrder             = "order"
	paramPublishedAfter    = "publishedAfter"
	paramPublishedBefore   = "publishedBefore"
	paramRegionCode        = "regionCode"
	paramRelevanceLanguage = "relevanceLanguage"
	paramVideoDuration     = "videoDuration"
)

// Bounds of the advanced search form.
const (
	MinMaxResults = 1
	MaxMaxResults = 50
)

var (
	validOrders    = []string{"date", "rating", "relevance", "title", "videoCount", "viewCount"}
	validDurations = []string{"any", "short", "medium", "long"}
)

// HasQuery reports whether the query is non-blank.
func (p Params) HasQuery() bool {
	return strings.TrimSpace(p.Query) != ""
}

// Values returns the non-empty fields as url.Values.
func (p Params) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set(paramQuery, p.Query)
	if p.MaxResults != 0 {
		v.Set(paramMaxResults, strconv.Itoa(p.MaxResults))
	}
	set(paramOrder, p.Order)
	set(paramPublishedAfter, p.PublishedAfter)
	set(paramPublishedBefore, p.PublishedBefore)
	set(paramRegionCode, p.RegionCode)
	set(paramRelevanceLanguage, p.RelevanceLanguage)
	set(paramVideoDuration, p.VideoDuration)
	return v
}

// CacheKey normalizes p: empty fields are dropped, the rest sorted by name
// and query-string encoded. Equal non-empty fields always give equal keys.
func CacheKey(p Params) string {
	// url.Values.Encode sorts by key.
	return p.Values().Encode()
}

// ParamsFromValues decodes a navigable address. "q" is accepted for "query".
// An unparseable maxResults is ignored.
func ParamsFromValues(v url.Values) Params {
	p := Params{
		Query:             v.Get(paramQuery),
		Order:             v.Get(paramOrder),
		PublishedAfter:    v.Get(paramPublishedAfter),
		PublishedBefore:   v.Get(paramPublishedBefore),
		RegionCode:        v.Get(paramRegionCode),
		RelevanceLanguage: v.Get(paramRelevanceLanguage),
		VideoDuration:     v.Get(paramVideoDuration),
	}
	if p.Query == "" {
		p.Query = v.Get(paramQueryAlias)
	}
	if n, err := strconv.Atoi(v.Get(paramMaxResults)); err == nil {
		p.MaxResults = n
	}
	return p
}

// Validate checks the advanced form constraints.
func (p Params) Validate() error {
	if !p.HasQuery() {
		return ErrEmptyQuery
	}
	var errs []error
	if p.MaxResults != 0 && (p.MaxResults < MinMaxResults || p.MaxResults > MaxMaxResults) {
		errs = append(errs, fmt.Errorf("maxResults must be between %d and %d", MinMaxResults, MaxMaxResults))
	}
	if p.Order != "" && !slices.Contains(validOrders, p.Order) {
		errs = append(errs, fmt.Errorf("order %q is not one of %s", p.Order, strings.Join(validOrders, ", ")))
	}
	if p.VideoDuration != "" && !slices.Contains(validDurations, p.VideoDuration) {
		errs = append(errs, fmt.Errorf("videoDuration %q is not one of %s", p.VideoDuration, strings.Join(validDurations, ", ")))
	}
	after, errAfter := parseTime(paramPublishedAfter, p.PublishedAfter)
	before, errBefore := parseTime(paramPublishedBefore, p.PublishedBefore)
	errs = append(errs, errAfter, errBefore)
	if !after.IsZero() && !before.IsZero() && !after.Before(before) {
		errs = append(errs, errors.New("publishedAfter must be earlier than publishedBefore"))
	}
	return errors.Join(errs...)
}

func parseTime(name, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp: %w", name, err)
	}
	return t, nil
}

// pageSize returns MaxResults, or def when unset.
func (p Params) pageSize(def int) int {
	if p.MaxResults > 0 {
		return p.MaxResults
	}
	return def
}

// Request builds the advanced video search request for one page.
func (p Params) Request(pageToken string, defaultPageSize int) engine.AdvancedSearchRequest {
	return engine.AdvancedSearchRequest{
		Query:             p.Query,
		MaxResults:        p.pageSize(defaultPageSize),
		Order:             p.Order,
		PublishedAfter:    p.PublishedAfter,
		PublishedBefore:   p.PublishedBefore,
		RegionCode:        p.RegionCode,
		RelevanceLanguage: p.RelevanceLanguage,
		VideoDuration:     p.VideoDuration,
		PageToken:         pageToken,
	}
}
