// Package toolserver exposes a search session as MCP tools.
package toolserver

import (
	"context"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DetailsFetcher loads one video's details. *fetcher.Client implements it.
type DetailsFetcher interface {
	GetVideoDetails(ctx context.Context, videoID string) (engine.Envelope[engine.VideoDetails], error)
}

// Deps are the collaborators the tools operate on.
type Deps struct {
	Session *search.Session
	Details DetailsFetcher
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 6

// RegisterTools registers the search tools on the given MCP server:
// youtube_search, youtube_page, youtube_category, youtube_view,
// youtube_video_details, youtube_related.
func RegisterTools(server *mcp.Server, d Deps) {
	registerSearch(server, d)
	registerPage(server, d)
	registerCategory(server, d)
	registerView(server, d)
	registerVideoDetails(server, d)
	registerRelated(server, d)
}
