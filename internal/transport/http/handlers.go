package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	lastURLKey     = "last_url"
	commandTimeout = 15 * time.Second
)

// SessionCommands is the part of the coordinator surface exposed over REST.
type SessionCommands interface {
	StartStream(ctx context.Context, url string) (domain.CommandStatus, error)
	StopStream(ctx context.Context) (domain.CommandStatus, error)
	SwitchCamera(ctx context.Context) (domain.CommandStatus, error)
	MuteAudio(ctx context.Context) (domain.CommandStatus, error)
	UnmuteAudio(ctx context.Context) (domain.CommandStatus, error)
	IsMuted(ctx context.Context) (bool, error)
	Status(ctx context.Context) (domain.Snapshot, error)
	ResetSession(ctx context.Context) (domain.Snapshot, error)
}

type StartRequest struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	Status domain.CommandStatus `json:"status"`
}

type ErrorResponse struct {
	Code  domain.ErrorCode `json:"code"`
	Error string           `json:"error"`
}

type MutedResponse struct {
	Muted bool `json:"muted"`
}

type Handlers struct {
	Commands SessionCommands
	// DefaultURL is used when neither the request nor the cookie session
	// carries an ingest url.
	DefaultURL string
}

// Register mounts the command routes on g.
func (h *Handlers) Register(g *gin.RouterGroup) {
	g.POST("/stream/start", h.startStream)
	g.POST("/stream/stop", h.run(h.Commands.StopStream))
	g.POST("/camera/switch", h.run(h.Commands.SwitchCamera))
	g.POST("/audio/mute", h.run(h.Commands.MuteAudio))
	g.POST("/audio/unmute", h.run(h.Commands.UnmuteAudio))
	g.GET("/audio/muted", h.isMuted)
	g.GET("/session", h.snapshot(h.Commands.Status))
	g.POST("/session/reset", h.snapshot(h.Commands.ResetSession))
}

func HTTPStatus(code domain.ErrorCode) int {
	switch code {
	case domain.CodeNoSession:
		return http.StatusNotFound
	case domain.CodeNoCamera, domain.CodePrepareFailed, domain.CodePublisherBusy:
		return http.StatusConflict
	case domain.CodeInvalidURL:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	log.Warn().Err(err).Str("module", "transport.http").Str("path", c.FullPath()).Str("code", string(code)).Msg("command failed")
	c.JSON(HTTPStatus(code), ErrorResponse{Code: code, Error: err.Error()})
}

func commandContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), commandTimeout)
}

func (h *Handlers) run(cmd func(context.Context) (domain.CommandStatus, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()
		status, err := cmd(ctx)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, StatusResponse{Status: status})
	}
}

func (h *Handlers) startStream(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: domain.CodeInvalidURL, Error: "invalid request body"})
		return
	}

	sess := sessions.Default(c)
	url := req.URL
	if url == "" {
		if last, ok := sess.Get(lastURLKey).(string); ok {
			url = last
		}
	}
	if url == "" {
		url = h.DefaultURL
	}
	if url == "" {
		fail(c, domain.ErrInvalidURL)
		return
	}

	ctx, cancel := commandContext(c)
	defer cancel()
	status, err := h.Commands.StartStream(ctx, url)
	if err != nil {
		fail(c, err)
		return
	}
	sess.Set(lastURLKey, url)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "transport.http").Msg("save session")
	}
	c.JSON(http.StatusOK, StatusResponse{Status: status})
}

func (h *Handlers) isMuted(c *gin.Context) {
	ctx, cancel := commandContext(c)
	defer cancel()
	muted, err := h.Commands.IsMuted(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, MutedResponse{Muted: muted})
}

func (h *Handlers) snapshot(cmd func(context.Context) (domain.Snapshot, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := commandContext(c)
		defer cancel()
		snap, err := cmd(ctx)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
