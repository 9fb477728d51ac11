package search

// Status is what the result area should show.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusEmpty   Status = "empty"
	StatusResults Status = "results"
)

// View is the render-ready projection of one category of a State.
type View struct {
	Status        Status   `json:"status"`
	Category      Category `json:"category"`
	Params        Params   `json:"parameters"`
	Items         []Item   `json:"items"`
	Error         string   `json:"error,omitempty"`
	HasPrev       bool     `json:"hasPrev"`
	HasNext       bool     `json:"hasNext"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
	PrevPageToken string   `json:"prevPageToken,omitempty"`
}

// Project derives the view of cat under the active parameters of s.
func Project(s State, cat Category, pending bool) View {
	v := View{Status: StatusIdle, Category: cat, Params: s.ActiveParams, Items: []Item{}}
	entry, ok := s.Lookup(cat, CacheKey(s.ActiveParams))
	if ok {
		if entry.Results != nil {
			v.Items = entry.Results
		}
		v.Error = entry.Error
		v.NextPageToken = entry.NextPageToken
		v.PrevPageToken = entry.PrevPageToken
	}

	switch {
	case pending:
		v.Status = StatusLoading
	case !s.ActiveParams.HasQuery() || !ok:
		v.Status = StatusIdle
	case entry.Error != "":
		v.Status = StatusError
	case len(entry.Results) == 0:
		v.Status = StatusEmpty
	default:
		v.Status = StatusResults
	}

	if ok && !pending && entry.Error == "" {
		v.HasNext = entry.NextPageToken != ""
		v.HasPrev = entry.PrevPageToken != ""
	}
	return v
}
