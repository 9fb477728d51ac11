// go_tube is a YouTube search MCP server.
//
// Exposes the search session (videos, channels, playlists, pagination,
// related-video suggestions) as MCP tools, persists it across restarts,
// and can also serve the envelope search API over the YouTube Data API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/fetcher"
	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/anatolykoptev/go_tube/internal/storage"
	"github.com/anatolykoptev/go_tube/internal/toolserver"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	mcpPort    = env.Str("MCP_PORT", "8891")
	apiBaseURL = env.Str("API_BASE_URL", "http://127.0.0.1:8892")
	apiKey     = env.Str("API_KEY", "")
)

var rootCmd = &cobra.Command{
	Use:   "go_tube",
	Short: "YouTube search MCP server",
	Long: `go_tube serves YouTube video, channel and playlist search as MCP tools.

Results are cached per query and category, paginated with page tokens and
persisted between runs. Searches go through the envelope search API
(API_BASE_URL); "go_tube api" serves that API on top of the YouTube Data API.

Example usage:
  go_tube                          # MCP server on MCP_PORT
  go_tube api                      # search API on API_PORT
  go_tube search "golang tutorial" # one-shot search in the persisted session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMCP,
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", slog.Any("error", err))
	}
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		slog.Error("go_tube failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func runMCP(cmd *cobra.Command, _ []string) error {
	initEngine()
	ctx := cmd.Context()

	slog.Info("starting go_tube",
		slog.String("port", mcpPort),
		slog.String("api", apiBaseURL),
	)

	st, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	backend := fetcher.New(apiBaseURL, apiKey, nil)
	session := newSession(ctx, backend, st)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_tube",
		Version: version,
	}, nil)

	toolserver.RegisterTools(server, toolserver.Deps{Session: session, Details: backend})
	slog.Info("tools registered", slog.Int("count", toolserver.ToolCount))

	return mcpserver.Run(server, mcpserver.Config{
		Name:         "go_tube",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 120 * time.Second,
		Metrics:      engine.FormatMetrics,
	})
}

func initEngine() {
	c := engine.Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		YouTubeQPS:            env.Float("YOUTUBE_QPS", 5),
		LLMAPIKey:             env.Str("LLM_API_KEY", ""),
		LLMAPIKeyFallbacks:    env.List("LLM_API_KEY_FALLBACKS", ""),
		LLMAPIBase:            env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		LLMModel:              env.Str("LLM_MODEL", "gemini-2.5-flash"),
		LLMTemperature:        env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:          env.Int("LLM_MAX_TOKENS", 2048),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 1000),
		FetchTimeout:          env.Duration("FETCH_TIMEOUT", 15*time.Second),
		PageSize:              env.Int("PAGE_SIZE", engine.DefaultPageSize),
		SuggestionLimit:       env.Int("SUGGESTION_LIMIT", engine.DefaultSuggestionLimit),
	}
	c.HTTPClient = &http.Client{
		Timeout: c.FetchTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
		},
	}

	if c.LLMAPIKey != "" {
		c.LLMClient = llm.NewClient(c.LLMAPIBase, c.LLMAPIKey, c.LLMModel,
			llm.WithFallbackKeys(c.LLMAPIKeyFallbacks),
			llm.WithMaxTokens(c.LLMMaxTokens),
			llm.WithTemperature(c.LLMTemperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
	} else {
		slog.Info("LLM_API_KEY not set, related-video suggestions disabled")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries)
}

func openStorage(ctx context.Context) (storage.Store, error) {
	return storage.Open(ctx, storage.Config{
		Backend:     env.Str("STATE_BACKEND", storage.BackendSQLite),
		Path:        env.Str("STATE_PATH", ""),
		RedisURL:    env.Str("STATE_REDIS_URL", env.Str("REDIS_URL", "")),
		DatabaseURL: env.Str("DATABASE_URL", ""),
	})
}

// newSession creates the search session and restores it from st.
func newSession(ctx context.Context, backend search.Backend, st search.Storage) *search.Session {
	s := search.NewSession(backend,
		search.WithPageSize(engine.Cfg.PageSize),
		search.WithSuggestionLimit(engine.Cfg.SuggestionLimit),
	)
	restored := s.Hydrate(ctx, st)
	slog.Info("search session restored",
		slog.String("category", string(restored.ActiveCategory)),
		slog.Bool("has_query", restored.ActiveParams.HasQuery()),
	)
	return s
}
