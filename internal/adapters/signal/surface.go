package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog/log"
)

// headlessSurface lets a client without a video element hold a session open.
type headlessSurface struct {
	id string
}

func (s headlessSurface) ID() string                    { return s.id }
func (s headlessSurface) WriteVideo(media.Sample) error { return nil }

func parseCamera(conn *WsSignalConn, raw string) domain.CameraFacing {
	facing, ok := domain.ParseFacing(raw)
	if !ok {
		log.Warn().Str("module", "signal").Str("client", conn.id).Str("camera", raw).Msg("unknown camera, using back")
	}
	return facing
}

func (ctl *SignalWSController) handleSurfaceAvailable(ctx context.Context, conn *WsSignalConn, data []byte) {
	var p struct {
		Type      string `json:"type"`
		SurfaceID string `json:"surface_id"`
		Camera    string `json:"camera"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad surface payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	if p.SurfaceID == "" {
		p.SurfaceID = uuid.NewString()
	}
	surface := headlessSurface{id: p.SurfaceID}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := ctl.Commands.SurfaceAvailable(ctx, surface, parseCamera(conn, p.Camera)); err != nil {
		ctl.reply(conn, "surface_available", "", err)
		return
	}
	ctl.confirmBound(ctx, conn, surface.id)
}

// confirmBound answers a surface offer. A session already rendering to
// another surface keeps it and the offer is reported as ignored.
func (ctl *SignalWSController) confirmBound(ctx context.Context, conn *WsSignalConn, id string) {
	snap, err := ctl.Commands.Status(ctx)
	if err != nil || snap.SurfaceID != id {
		log.Info().Str("module", "signal").Str("client", conn.id).Str("surface", id).Msg("surface not bound")
		ctl.sendJSON(conn, map[string]any{
			"type":       "surface_ignored",
			"surface_id": id,
		})
		return
	}
	conn.setSurface(id)
	ctl.sendJSON(conn, map[string]any{
		"type":       "surface_bound",
		"surface_id": id,
	})
}

func (ctl *SignalWSController) handleSurfaceDestroyed(ctx context.Context, conn *WsSignalConn) {
	id := conn.surface()
	if id == "" {
		return
	}
	ctl.destroyIfBound(ctx, id)
	conn.setSurface("")
}

// releaseSurface runs when the connection goes away.
func (ctl *SignalWSController) releaseSurface(ctx context.Context, conn *WsSignalConn) {
	if id := conn.surface(); id != "" {
		ctl.destroyIfBound(context.WithoutCancel(ctx), id)
		conn.setSurface("")
	}
}

// destroyIfBound reports a destroyed surface. The session ignores ids it is
// not rendering to.
func (ctl *SignalWSController) destroyIfBound(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if err := ctl.Commands.SurfaceDestroyed(ctx, id); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("surface", id).Msg("surface destroyed")
	}
}
