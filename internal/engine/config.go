package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/llm"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	YouTubeQPS            float64 // upstream request budget, 0 = unlimited
	LLMAPIKey             string
	LLMAPIKeyFallbacks    []string
	LLMAPIBase            string
	LLMModel              string
	LLMTemperature        float64
	LLMMaxTokens          int
	LLMClient             *llm.Client // nil = suggestions disabled
	CacheMaxEntries       int
	FetchTimeout          time.Duration
	PageSize              int // results per page when a search does not set maxResults
	SuggestionLimit       int // related-video suggestions kept per request
	HTTPClient            *http.Client
}

// Defaults applied by Init when a field is left zero.
const (
	DefaultPageSize        = 12
	DefaultSuggestionLimit = 10
)

var cfg Config

// Cfg exposes the engine configuration for sub-packages (youtube).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.SuggestionLimit <= 0 {
		c.SuggestionLimit = DefaultSuggestionLimit
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	cfg = c
	Cfg = &cfg
}
