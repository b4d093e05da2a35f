package http

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dkeye/livecast/internal/adapters/signal"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/config"
	transport "github.com/dkeye/livecast/internal/transport/http"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	clientCookie   = "ct"
	clientTokenKey = "client_token"
	sessionCookie  = "LivecastSessions"
	clientTokenTTL = 7 * 24 * time.Hour
)

// ClientTokenMiddleware gives every browser a stable id. The signal channel
// uses it to key command rate limits.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(clientCookie)
		if token == "" {
			token = uuid.NewString()
			c.SetCookie(clientCookie, token, int(clientTokenTTL.Seconds()), "/", "", false, true)
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().Str("module", "adapters.http").
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Str("client", c.GetString(clientTokenKey)).
			Msg("request")
	}
}

type healthResponse struct {
	Session bool   `json:"session"`
	State   string `json:"state,omitempty"`
}

func SetupRouter(ctx context.Context, cfg *config.Config, cmds *orch.Commands, ctrl *signal.SignalWSController) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sessions.Sessions(sessionCookie, transport.NewSessionStore(cfg.Secret, cfg.SessionKey)))
	r.Use(ClientTokenMiddleware())
	if cfg.Mode == "debug" {
		r.Use(requestLog())
	}

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticPath, "index.html"))
	})
	r.GET("/healthz", func(c *gin.Context) {
		resp := healthResponse{}
		if co, ok := cmds.Registry.Current(); ok {
			resp.Session = true
			resp.State = co.State().String()
		}
		c.JSON(http.StatusOK, resp)
	})

	api := r.Group("/api")
	(&transport.Handlers{Commands: cmds, DefaultURL: cfg.DefaultURL}).Register(api)
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("client", c.GetString(clientTokenKey)).Msg("signal channel requested")
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Bool("default_url", cfg.DefaultURL != "").Msg("router ready")
	return r
}
