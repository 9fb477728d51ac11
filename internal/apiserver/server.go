// Package apiserver serves the envelope search API over the YouTube Data API.
package apiserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_tube/internal/engine"
	"github.com/anatolykoptev/go_tube/internal/engine/youtube"
	"github.com/anatolykoptev/go_tube/internal/search"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream is the YouTube client behind the API. *youtube.Client implements it.
type Upstream interface {
	SearchVideos(ctx context.Context, req engine.AdvancedSearchRequest) (engine.Page[engine.VideoResult], error)
	SearchChannels(ctx context.Context, query string, maxResults int, pageToken string) (engine.Page[engine.ChannelResult], error)
	SearchPlaylists(ctx context.Context, query string, maxResults int, pageToken string) (engine.Page[engine.PlaylistResult], error)
	VideoDetails(ctx context.Context, id string) (*engine.VideoDetails, error)
}

var _ Upstream = (*youtube.Client)(nil)

type handler struct {
	up       Upstream
	pageSize int
}

// New builds the echo instance with all routes registered.
func New(up Upstream) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				slog.DebugContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.WarnContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(observe())

	h := &handler{up: up, pageSize: engine.Cfg.PageSize}
	if h.pageSize <= 0 {
		h.pageSize = engine.DefaultPageSize
	}

	api := e.Group("/api/YouTubeSearch")
	api.GET("/videos", h.searchVideos)
	api.POST("/videos/advanced", h.advancedSearchVideos)
	api.GET("/videos/:id/details", h.videoDetails)
	api.GET("/channels", h.searchChannels)
	api.GET("/playlists", h.searchPlaylists)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	return e
}

// pageArgs reads and validates query, maxResults and pageToken.
func (h *handler) pageArgs(c echo.Context) (search.Params, string, error) {
	p := search.Params{Query: strings.TrimSpace(c.QueryParam("query"))}
	if raw := c.QueryParam("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return p, "", errors.New("maxResults must be an integer")
		}
		p.MaxResults = n
	}
	if p.MaxResults == 0 {
		p.MaxResults = h.pageSize
	}
	if err := p.Validate(); err != nil {
		return p, "", err
	}
	return p, c.QueryParam("pageToken"), nil
}

func (h *handler) searchVideos(c echo.Context) error {
	p, token, err := h.pageArgs(c)
	if err != nil {
		return badRequest[[]engine.VideoResult](c, err)
	}
	page, err := h.up.SearchVideos(c.Request().Context(), p.Request(token, h.pageSize))
	if err != nil {
		return upstreamError[[]engine.VideoResult](c, "search_videos", err)
	}
	return pageJSON(c, page)
}

func (h *handler) advancedSearchVideos(c echo.Context) error {
	var req engine.AdvancedSearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest[[]engine.VideoResult](c, errors.New("invalid request body"))
	}
	p := search.Params{
		Query:             strings.TrimSpace(req.Query),
		MaxResults:        req.MaxResults,
		Order:             req.Order,
		PublishedAfter:    req.PublishedAfter,
		PublishedBefore:   req.PublishedBefore,
		RegionCode:        req.RegionCode,
		RelevanceLanguage: req.RelevanceLanguage,
		VideoDuration:     req.VideoDuration,
	}
	if err := p.Validate(); err != nil {
		return badRequest[[]engine.VideoResult](c, err)
	}
	page, err := h.up.SearchVideos(c.Request().Context(), p.Request(req.PageToken, h.pageSize))
	if err != nil {
		return upstreamError[[]engine.VideoResult](c, "advanced_search_videos", err)
	}
	return pageJSON(c, page)
}

func (h *handler) searchChannels(c echo.Context) error {
	p, token, err := h.pageArgs(c)
	if err != nil {
		return badRequest[[]engine.ChannelResult](c, err)
	}
	page, err := h.up.SearchChannels(c.Request().Context(), p.Query, p.MaxResults, token)
	if err != nil {
		return upstreamError[[]engine.ChannelResult](c, "search_channels", err)
	}
	return pageJSON(c, page)
}

func (h *handler) searchPlaylists(c echo.Context) error {
	p, token, err := h.pageArgs(c)
	if err != nil {
		return badRequest[[]engine.PlaylistResult](c, err)
	}
	page, err := h.up.SearchPlaylists(c.Request().Context(), p.Query, p.MaxResults, token)
	if err != nil {
		return upstreamError[[]engine.PlaylistResult](c, "search_playlists", err)
	}
	return pageJSON(c, page)
}

func (h *handler) videoDetails(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return badRequest[engine.VideoDetails](c, errors.New("video id is required"))
	}
	d, err := h.up.VideoDetails(c.Request().Context(), id)
	if err != nil {
		return upstreamError[engine.VideoDetails](c, "video_details", err)
	}
	return c.JSON(http.StatusOK, engine.NewEnvelope(*d, "", ""))
}

func pageJSON[T any](c echo.Context, page engine.Page[T]) error {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, engine.NewEnvelope(items, page.NextPageToken, page.PrevPageToken))
}

func badRequest[T any](c echo.Context, err error) error {
	msg := err.Error()
	if errors.Is(err, search.ErrEmptyQuery) {
		msg = "Query is required"
	}
	return c.JSON(http.StatusBadRequest, engine.ErrorEnvelope[T](msg))
}

// upstreamError maps a YouTube failure to an HTTP status and error envelope.
func upstreamError[T any](c echo.Context, op string, err error) error {
	UpstreamErrorsTotal.WithLabelValues(op).Inc()
	status, msg := http.StatusBadGateway, "YouTube API error: "+err.Error()
	switch {
	case errors.Is(err, youtube.ErrVideoNotFound):
		status, msg = http.StatusNotFound, "Video not found"
	case engine.IsQuotaError(err):
		status, msg = http.StatusTooManyRequests, "YouTube API quota exceeded"
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "YouTube API timed out"
	}
	slog.Warn("apiserver: upstream failed", slog.String("op", op), slog.Any("error", err))
	return c.JSON(status, engine.ErrorEnvelope[T](msg))
}
