package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.PingPeriod > 0 {
		ticker := time.NewTicker(ctl.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	for {
		select {
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				log.Warn().Err(err).Str("module", "signal").Str("client", c.id).Msg("writePump ping")
				return
			}
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("client", c.id).Msg("readPump closing")
		ctl.releaseSurface(ctx, c)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("client", c.id).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Error().Err(err).Str("module", "signal").Str("client", c.id).Msg("readPump read error")
				}
				return
			}
			ctl.handleSignal(ctx, c, data)
		}
	}
}

func (ctl *SignalWSController) handleSignal(ctx context.Context, c *WsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		ctl.sendJSON(c, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}

	switch env.Type {
	case "ping":
		ctl.handlePing(c)
	case "start_stream":
		ctl.handleStartStream(ctx, c, data)
	case "stop_stream":
		ctl.handleStopStream(ctx, c)
	case "switch_camera":
		ctl.handleSwitchCamera(ctx, c)
	case "mute_audio":
		ctl.handleMute(ctx, c, true)
	case "unmute_audio":
		ctl.handleMute(ctx, c, false)
	case "is_muted":
		ctl.handleIsMuted(ctx, c)
	case "status":
		ctl.handleStatus(ctx, c)
	case "session_reset":
		ctl.handleResetSession(ctx, c)
	case "surface_available":
		ctl.handleSurfaceAvailable(ctx, c, data)
	case "surface_destroyed":
		ctl.handleSurfaceDestroyed(ctx, c)
	case "offer":
		ctl.handleOffer(ctx, c, data)
	case "candidate":
		ctl.handleCandidate(c, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		ctl.sendJSON(c, map[string]any{
			"type":    "error",
			"request": env.Type,
			"error":   "unknown_type",
		})
	}
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}
