package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	YouTubeSearchRequests  atomic.Int64
	YouTubeDetailsRequests atomic.Int64
	YouTubeErrors          atomic.Int64
	LLMCalls               atomic.Int64
	LLMErrors              atomic.Int64
	BackendRequests        atomic.Int64
	BackendErrors          atomic.Int64
	SessionDispatches      atomic.Int64
	SessionErrors          atomic.Int64
	StateSaveFailures      atomic.Int64
}

// metricKeys fixes the output order of FormatMetrics.
var metricKeys = []string{
	"youtube_search_requests", "youtube_details_requests", "youtube_errors",
	"llm_calls", "llm_errors",
	"backend_requests", "backend_errors",
	"session_dispatches", "session_errors", "state_save_failures",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"youtube_search_requests":  metrics.YouTubeSearchRequests.Load(),
		"youtube_details_requests": metrics.YouTubeDetailsRequests.Load(),
		"youtube_errors":           metrics.YouTubeErrors.Load(),
		"llm_calls":                metrics.LLMCalls.Load(),
		"llm_errors":               metrics.LLMErrors.Load(),
		"backend_requests":         metrics.BackendRequests.Load(),
		"backend_errors":           metrics.BackendErrors.Load(),
		"session_dispatches":       metrics.SessionDispatches.Load(),
		"session_errors":           metrics.SessionErrors.Load(),
		"state_save_failures":      metrics.StateSaveFailures.Load(),
		"cache_hits":               hits,
		"cache_misses":             misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for youtube/ sub-package.
func IncrYouTubeSearch()  { metrics.YouTubeSearchRequests.Add(1) }
func IncrYouTubeDetails() { metrics.YouTubeDetailsRequests.Add(1) }
func IncrYouTubeErrors()  { metrics.YouTubeErrors.Add(1) }

// Incrementors for the fetcher and search session.
func IncrBackendRequests()   { metrics.BackendRequests.Add(1) }
func IncrBackendErrors()     { metrics.BackendErrors.Add(1) }
func IncrSessionDispatches() { metrics.SessionDispatches.Add(1) }
func IncrSessionErrors()     { metrics.SessionErrors.Add(1) }
func IncrStateSaveFailures() { metrics.StateSaveFailures.Add(1) }

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
