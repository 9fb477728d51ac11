package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// ErrLLMDisabled is returned when no LLM client is configured.
var ErrLLMDisabled = errors.New("llm: no client configured")

// completeFn sends a prompt to the configured LLM. Replaced in tests.
var completeFn = func(ctx context.Context, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", ErrLLMDisabled
	}
	return cfg.LLMClient.Complete(ctx, "", prompt,
		llm.WithChatTemperature(0.7),
		llm.WithChatMaxTokens(400),
	)
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt and returns the response with code fences removed.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	resp, err := completeFn(ctx, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// SuggestRelatedVideos asks the LLM for video titles related to query.
// The result holds at most Cfg.SuggestionLimit non-empty, de-duplicated titles.
func SuggestRelatedVideos(ctx context.Context, in SuggestRelatedInput) (SuggestRelatedOutput, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return SuggestRelatedOutput{}, errors.New("suggest: query is required")
	}

	raw, err := CallLLM(ctx, fmt.Sprintf(suggestRelatedPrompt, query))
	if err != nil {
		return SuggestRelatedOutput{}, fmt.Errorf("suggest: %w", err)
	}

	titles, err := parseSuggestions(raw)
	if err != nil {
		return SuggestRelatedOutput{}, fmt.Errorf("suggest: parse failed on %q: %w", Truncate(raw, 200), err)
	}
	return SuggestRelatedOutput{RelatedVideos: capSuggestions(titles, cfg.SuggestionLimit)}, nil
}

// parseSuggestions accepts either {"relatedVideos": [...]} or a bare JSON array.
func parseSuggestions(raw string) ([]string, error) {
	var out SuggestRelatedOutput
	if err := json.Unmarshal([]byte(raw), &out); err == nil && out.RelatedVideos != nil {
		return out.RelatedVideos, nil
	}
	var titles []string
	if err := json.Unmarshal([]byte(raw), &titles); err != nil {
		return nil, err
	}
	return titles, nil
}

func capSuggestions(titles []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, min(len(titles), limit))
	for _, t := range titles {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out
}
