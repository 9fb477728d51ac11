package toolserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input for youtube_search.
type SearchInput struct {
	Query             string `json:"query" jsonschema:"Search query"`
	Category          string `json:"category,omitempty" jsonschema:"videos (default), channels or playlists. Ignored when any video filter is set."`
	MaxResults        int    `json:"maxResults,omitempty" jsonschema:"Results per page, 1-50 (default 12)"`
	Order             string `json:"order,omitempty" jsonschema:"date, rating, relevance, title, videoCount or viewCount"`
	PublishedAfter    string `json:"publishedAfter,omitempty" jsonschema:"RFC 3339 lower bound on publish time"`
	PublishedBefore   string `json:"publishedBefore,omitempty" jsonschema:"RFC 3339 upper bound on publish time"`
	RegionCode        string `json:"regionCode,omitempty" jsonschema:"ISO 3166-1 alpha-2 country code"`
	RelevanceLanguage string `json:"relevanceLanguage,omitempty" jsonschema:"ISO 639-1 language code"`
	VideoDuration     string `json:"videoDuration,omitempty" jsonschema:"any, short, medium or long"`
}

// PageInput is the input for youtube_page.
type PageInput struct {
	Direction string `json:"direction" jsonschema:"next or prev"`
}

// CategoryInput is the input for youtube_category.
type CategoryInput struct {
	Category string `json:"category" jsonschema:"videos, channels or playlists"`
}

// ViewInput is the input for youtube_view.
type ViewInput struct {
	Category string `json:"category,omitempty" jsonschema:"Category to show without switching to it (default: active category)"`
}

// ViewOutput is the session view returned by the search tools.
type ViewOutput struct {
	View    search.View `json:"view"`
	Address string      `json:"address" jsonschema:"Shareable query string of the active search"`
}

func (in SearchInput) params() search.Params {
	return search.Params{
		Query:             in.Query,
		MaxResults:        in.MaxResults,
		Order:             in.Order,
		PublishedAfter:    in.PublishedAfter,
		PublishedBefore:   in.PublishedBefore,
		RegionCode:        in.RegionCode,
		RelevanceLanguage: in.RelevanceLanguage,
		VideoDuration:     in.VideoDuration,
	}
}

func (in SearchInput) advanced() bool {
	return in.MaxResults != 0 || in.Order != "" || in.PublishedAfter != "" || in.PublishedBefore != "" ||
		in.RegionCode != "" || in.RelevanceLanguage != "" || in.VideoDuration != ""
}

func viewOf(s *search.Session) ViewOutput {
	return ViewOutput{View: s.View(), Address: s.Address()}
}

// Inputs are validated before any session call, so an error returned by one
// is a fetch failure. Those are recorded in the session and shown by the view.

func handleSearch(ctx context.Context, s *search.Session, in SearchInput) (ViewOutput, error) {
	if strings.TrimSpace(in.Query) == "" {
		return ViewOutput{}, errors.New("query is required")
	}
	if in.advanced() {
		p := in.params()
		if err := p.Validate(); err != nil {
			return ViewOutput{}, err
		}
		_ = s.Advanced(ctx, p)
		return viewOf(s), nil
	}
	if in.Category != "" {
		cat, err := search.ParseCategory(in.Category)
		if err != nil {
			return ViewOutput{}, err
		}
		s.Store().Dispatch(search.SetCategory{Category: cat})
	}
	_ = s.Submit(ctx, in.Query)
	return viewOf(s), nil
}

func handlePage(ctx context.Context, s *search.Session, in PageInput) (ViewOutput, error) {
	switch strings.ToLower(strings.TrimSpace(in.Direction)) {
	case "next", "":
		_ = s.NextPage(ctx)
	case "prev", "previous":
		_ = s.PrevPage(ctx)
	default:
		return ViewOutput{}, fmt.Errorf("direction must be next or prev, got %q", in.Direction)
	}
	return viewOf(s), nil
}

func handleCategory(ctx context.Context, s *search.Session, in CategoryInput) (ViewOutput, error) {
	cat, err := search.ParseCategory(in.Category)
	if err != nil {
		return ViewOutput{}, err
	}
	_ = s.SwitchCategory(ctx, cat)
	return viewOf(s), nil
}

func handleView(s *search.Session, in ViewInput) (ViewOutput, error) {
	if in.Category == "" {
		return viewOf(s), nil
	}
	cat, err := search.ParseCategory(in.Category)
	if err != nil {
		return ViewOutput{}, err
	}
	return ViewOutput{View: s.ViewOf(cat), Address: s.Address()}, nil
}

func registerSearch(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_search",
		Description: "Search YouTube videos, channels or playlists. Plain queries run in the active category (videos by default); any filter (order, date range, region, language, duration, maxResults) runs an advanced video search. Results are cached per query and category; returns the current page with pagination state and a shareable address.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, ViewOutput, error) {
		out, err := handleSearch(ctx, d.Session, input)
		return nil, out, err
	})
}

func registerPage(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_page",
		Description: "Move to the next or previous page of the current search. Does nothing when there is no such page (check hasNext/hasPrev).",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input PageInput) (*mcp.CallToolResult, ViewOutput, error) {
		out, err := handlePage(ctx, d.Session, input)
		return nil, out, err
	})
}

func registerCategory(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_category",
		Description: "Switch the current search to videos, channels or playlists. Cached results and errors are shown without searching again.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input CategoryInput) (*mcp.CallToolResult, ViewOutput, error) {
		out, err := handleCategory(ctx, d.Session, input)
		return nil, out, err
	})
}

func registerView(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_view",
		Description: "Show the current search state: status (idle, loading, error, empty, results), results, error message and pagination.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input ViewInput) (*mcp.CallToolResult, ViewOutput, error) {
		out, err := handleView(d.Session, input)
		return nil, out, err
	})
}
