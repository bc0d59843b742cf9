package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/lovezhqj/douyin-down/pkg/model"
)

type resolveService interface {
	Resolve(ctx context.Context, rawInput string) (*model.VideoInfo, error)
}

type streamService interface {
	Stream(ctx context.Context, mediaURL string, w http.ResponseWriter, forceDownload bool) error
}

type handler struct {
	resolver resolveService
	stream   streamService
}

// New builds the HTTP surface: the resolve/stream API plus health endpoints.
func New(resolver resolveService, stream streamService) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	h := handler{
		resolver: resolver,
		stream:   stream,
	}

	r.GET("/healthz", h.ping)

	api := r.Group("/api", gzip.Gzip(gzip.DefaultCompression))
	api.GET("/ping", h.ping)
	api.POST("/resolve", h.resolve)

	// No gzip on the relay, media bytes are already compressed.
	r.GET("/api/stream", h.streamMedia)

	return r
}

func (h handler) ping(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

type resolveRequest struct {
	URL string `json:"url"`
}

func (h handler) resolve(c *gin.Context) {
	req := &resolveRequest{}

	if err := c.BindJSON(req); err != nil {
		c.JSON(badRequest(err))
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		c.JSON(badRequest(model.ErrInputInvalid))
		return
	}

	info, err := h.resolver.Resolve(c.Request.Context(), req.URL)
	if err != nil {
		cause := errors.Cause(err)
		if cause == model.ErrInputInvalid {
			c.JSON(badRequest(err))
			return
		}

		// Covers both the bad-link case and a degraded service; the message
		// tells them apart without leaking upstream tokens.
		c.JSON(internalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"url":     info.URL,
		"cover":   info.Cover,
		"desc":    info.Desc,
		"is_demo": info.Demo,
	})
}

func (h handler) streamMedia(c *gin.Context) {
	mediaURL := c.Query("url")
	if mediaURL == "" {
		c.JSON(badRequest(errors.New("missing url parameter")))
		return
	}

	forceDownload := c.Query("download") == "1"

	if err := h.stream.Stream(c.Request.Context(), mediaURL, c.Writer, forceDownload); err != nil {
		if c.Writer.Written() {
			// Headers already went out, the relay log has the details.
			return
		}

		log.WithError(err).WithField("url", mediaURL).Error("stream failed")
		c.JSON(internalError(err))
	}
}

func badRequest(err error) (int, interface{}) {
	return http.StatusBadRequest, gin.H{"success": false, "error": err.Error()}
}

func internalError(err error) (int, interface{}) {
	return http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()}
}
