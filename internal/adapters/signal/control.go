package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

const commandTimeout = 15 * time.Second

type resultMsg struct {
	Type    string               `json:"type"`
	Request string               `json:"request"`
	Status  domain.CommandStatus `json:"status"`
}

type errorMsg struct {
	Type    string           `json:"type"`
	Request string           `json:"request,omitempty"`
	Code    domain.ErrorCode `json:"code"`
	Error   string           `json:"error"`
}

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) reply(conn *WsSignalConn, request string, status domain.CommandStatus, err error) {
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("request", request).Msg("command failed")
		ctl.sendJSON(conn, errorMsg{
			Type:    "error",
			Request: request,
			Code:    domain.CodeOf(err),
			Error:   err.Error(),
		})
		return
	}
	ctl.sendJSON(conn, resultMsg{Type: "result", Request: request, Status: status})
}

func (ctl *SignalWSController) limited(conn *WsSignalConn, request string) bool {
	if ctl.Limiter.Allow(conn.id) {
		return false
	}
	log.Warn().Str("module", "signal").Str("client", conn.id).Str("request", request).Msg("rate limited")
	ctl.sendJSON(conn, map[string]any{
		"type":    "error",
		"request": request,
		"error":   "rate_limited",
	})
	return true
}

func (ctl *SignalWSController) handleStartStream(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad start_stream payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	if ctl.limited(conn, "start_stream") {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	status, err := ctl.Commands.StartStream(ctx, p.URL)
	ctl.reply(conn, "start_stream", status, err)
}

func (ctl *SignalWSController) handleStopStream(ctx context.Context, conn *WsSignalConn) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	status, err := ctl.Commands.StopStream(ctx)
	ctl.reply(conn, "stop_stream", status, err)
}

func (ctl *SignalWSController) handleSwitchCamera(ctx context.Context, conn *WsSignalConn) {
	if ctl.limited(conn, "switch_camera") {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	status, err := ctl.Commands.SwitchCamera(ctx)
	ctl.reply(conn, "switch_camera", status, err)
}

func (ctl *SignalWSController) handleMute(ctx context.Context, conn *WsSignalConn, mute bool) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if mute {
		status, err := ctl.Commands.MuteAudio(ctx)
		ctl.reply(conn, "mute_audio", status, err)
		return
	}
	status, err := ctl.Commands.UnmuteAudio(ctx)
	ctl.reply(conn, "unmute_audio", status, err)
}

func (ctl *SignalWSController) handleIsMuted(ctx context.Context, conn *WsSignalConn) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	muted, err := ctl.Commands.IsMuted(ctx)
	if err != nil {
		ctl.reply(conn, "is_muted", "", err)
		return
	}
	ctl.sendJSON(conn, struct {
		Type  string `json:"type"`
		Muted bool   `json:"muted"`
	}{
		Type:  "muted",
		Muted: muted,
	})
}

func (ctl *SignalWSController) handleStatus(ctx context.Context, conn *WsSignalConn) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	snap, err := ctl.Commands.Status(ctx)
	if err != nil {
		ctl.reply(conn, "status", "", err)
		return
	}
	ctl.sendSnapshot(conn, snap)
}

// handleResetSession drops the live session. Surfaces bound to it are no
// longer rendered and must be offered again.
func (ctl *SignalWSController) handleResetSession(ctx context.Context, conn *WsSignalConn) {
	if ctl.limited(conn, "session_reset") {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	snap, err := ctl.Commands.ResetSession(ctx)
	if err != nil {
		ctl.reply(conn, "session_reset", "", err)
		return
	}
	conn.setSurface("")
	ctl.sendSnapshot(conn, snap)
}

func (ctl *SignalWSController) sendSnapshot(conn *WsSignalConn, snap domain.Snapshot) {
	ctl.sendJSON(conn, struct {
		Type    string          `json:"type"`
		Session domain.Snapshot `json:"session"`
	}{
		Type:    "status",
		Session: snap,
	})
}
