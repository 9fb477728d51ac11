package toolserver

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VideoDetailsInput is the input for youtube_video_details.
type VideoDetailsInput struct {
	VideoID string `json:"videoId" jsonschema:"YouTube video ID"`
}

// RelatedOutput is the output of youtube_related.
type RelatedOutput struct {
	Suggestions []search.Suggestion `json:"suggestions"`
}

const maxDescriptionRunes = 2000

func handleVideoDetails(ctx context.Context, f DetailsFetcher, in VideoDetailsInput) (engine.VideoDetails, error) {
	id := strings.TrimSpace(in.VideoID)
	if id == "" {
		return engine.VideoDetails{}, errors.New("videoId is required")
	}
	if f == nil {
		return engine.VideoDetails{}, errors.New("video details backend is not configured")
	}
	env, err := f.GetVideoDetails(ctx, id)
	if err != nil {
		return engine.VideoDetails{}, err
	}
	if env.Data == nil {
		msg := env.Message
		if msg == "" {
			msg = "No data returned"
		}
		return engine.VideoDetails{}, errors.New(msg)
	}
	d := *env.Data
	d.Description = engine.TruncateRunes(d.Description, maxDescriptionRunes, "...")
	return d, nil
}

func handleRelated(ctx context.Context, s *search.Session, in engine.SuggestRelatedInput) (RelatedOutput, error) {
	sugg, err := s.Related(ctx, in.Query)
	if err != nil {
		return RelatedOutput{}, err
	}
	return RelatedOutput{Suggestions: sugg}, nil
}

func registerVideoDetails(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_video_details",
		Description: "Get full details of one YouTube video: title, channel, description, duration, view/like/comment counts and tags.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoDetailsInput) (*mcp.CallToolResult, engine.VideoDetails, error) {
		out, err := handleVideoDetails(ctx, d.Details, input)
		return nil, out, err
	})
}

func registerRelated(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_related",
		Description: "Suggest up to 10 related video titles for a video title or query using an LLM. Each suggestion comes with a search address (?q=...) usable with youtube_search.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SuggestRelatedInput) (*mcp.CallToolResult, RelatedOutput, error) {
		out, err := handleRelated(ctx, d.Session, input)
		return nil, out, err
	})
}
