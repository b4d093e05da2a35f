package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/livecast/internal/adapters/rtc"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var ErrBackpressure = errors.New("backpressure")

// SignalWSController speaks the websocket command protocol. One controller
// serves every connection; session events fan out through Hub.
type SignalWSController struct {
	Commands *orch.Commands
	Hub      *Hub
	Limiter  *CommandRateLimiter
	ICE      webrtc.Configuration
	// ReadLimit caps a single inbound message in bytes.
	ReadLimit int64
	// PingPeriod is how often the server pings idle clients. Zero disables
	// pings and read deadlines.
	PingPeriod time.Duration
}

func NewSignalWSController(cmds *orch.Commands, hub *Hub, limiter *CommandRateLimiter, ice webrtc.Configuration) *SignalWSController {
	return &SignalWSController{
		Commands:  cmds,
		Hub:       hub,
		Limiter:   limiter,
		ICE:       ice,
		ReadLimit: 64 << 10,
	}
}

type WsSignalConn struct {
	id   string
	conn *websocket.Conn
	send chan core.Frame

	mu        sync.RWMutex
	closed    bool
	peer      *rtc.PreviewPeer
	surfaceID string
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	peer := c.peer
	c.peer = nil
	c.mu.Unlock()
	if peer != nil {
		peer.Close()
	}
}

// swapPeer installs p and returns the peer it replaced.
func (c *WsSignalConn) swapPeer(p *rtc.PreviewPeer) *rtc.PreviewPeer {
	c.mu.Lock()
	defer c.mu.Unlock()
	old := c.peer
	c.peer = p
	return old
}

func (c *WsSignalConn) setSurface(id string) {
	c.mu.Lock()
	c.surfaceID = id
	c.mu.Unlock()
}

func (c *WsSignalConn) surface() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.surfaceID
}

func (c *WsSignalConn) currentPeer() *rtc.PreviewPeer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peer
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	cid := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("client", cid).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}
	if ctl.PingPeriod > 0 {
		wait := ctl.PingPeriod * 10 / 9
		_ = ws.SetReadDeadline(time.Now().Add(wait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(wait))
		})
	}

	conn := &WsSignalConn{
		id:   cid,
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	ctl.Hub.Add(conn)

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		defer ctl.Hub.Remove(conn)
		ctl.readPump(ctx, conn)
	}()
}
