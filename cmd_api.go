package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go_tube/internal/apiserver"
	"github.com/anatolykoptev/go_tube/internal/engine/youtube"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Serve the envelope search API over the YouTube Data API",
	Long: `Serve /api/YouTubeSearch/{videos,videos/advanced,videos/:id/details,channels,playlists}
backed by the YouTube Data API v3. Requires YOUTUBE_API_KEY.

Examples:
  go_tube api                 # listen on API_PORT (default 8892)
  go_tube api --port 9000`,
	RunE: runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().String("port", env.Str("API_PORT", "8892"), "listen port")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	initEngine()
	ctx := cmd.Context()
	port, _ := cmd.Flags().GetString("port")

	yt, err := youtube.NewClientFromConfig(ctx)
	if err != nil {
		return err
	}
	e := apiserver.New(yt)

	errc := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "starting search API", slog.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	slog.InfoContext(ctx, "shutting down search API")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("search API exited")
	return nil
}
