package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestFormatMetrics(t *testing.T) {
	before := GetMetrics()["session_dispatches"]
	IncrSessionDispatches()
	if got := GetMetrics()["session_dispatches"]; got != before+1 {
		t.Errorf("session_dispatches = %d, want %d", got, before+1)
	}

	out := FormatMetrics()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(metricKeys) {
		t.Fatalf("expected %d lines, got %d:\n%s", len(metricKeys), len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "youtube_search_requests ") {
		t.Errorf("first line = %q, want youtube_search_requests first", lines[0])
	}
}

func TestTrackOperationPassesError(t *testing.T) {
	want := errors.New("boom")
	err := TrackOperation(context.Background(), "test", func(context.Context) error { return want })
	if !errors.Is(err, want) {
		t.Errorf("TrackOperation() = %v, want %v", err, want)
	}
}
