package signal

import (
	"context"
	"encoding/json"

	"github.com/dkeye/livecast/internal/adapters/rtc"
	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

func (ctl *SignalWSController) sendCandidate(c *WsSignalConn, ci webrtc.ICECandidateInit) {
	resp := struct {
		Type          string `json:"type"`
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid,omitempty"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex,omitempty"`
	}{
		Type:      "candidate",
		Candidate: ci.Candidate,
	}
	if ci.SDPMid != nil {
		resp.SDPMid = *ci.SDPMid
	}
	if ci.SDPMLineIndex != nil {
		resp.SDPMLineIndex = *ci.SDPMLineIndex
	}
	ctl.sendJSON(c, resp)
}

// handleOffer opens a preview peer. The session sees it as a surface once the
// peer connects, and loses it when the peer fails or closes.
func (ctl *SignalWSController) handleOffer(
	ctx context.Context,
	conn *WsSignalConn,
	data []byte,
) {
	type offerPayload struct {
		Type   string `json:"type"`
		SDP    string `json:"sdp"`
		Camera string `json:"camera"`
	}
	var p offerPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad offer payload")
		return
	}
	facing := parseCamera(conn, p.Camera)

	peer, err := rtc.NewPreviewPeer(ctl.ICE, uuid.NewString())
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc new pc")
		return
	}

	peer.OnICECandidate(func(ci webrtc.ICECandidateInit) {
		ctl.sendCandidate(conn, ci)
	})
	bg := context.WithoutCancel(ctx)
	peer.OnReady(func() {
		go func() {
			cctx, cancel := context.WithTimeout(bg, commandTimeout)
			defer cancel()
			if err := ctl.Commands.SurfaceAvailable(cctx, peer, facing); err != nil {
				ctl.reply(conn, "surface_available", "", err)
				return
			}
			ctl.confirmBound(cctx, conn, peer.ID())
		}()
	})
	peer.OnGone(func() {
		go ctl.destroyIfBound(bg, peer.ID())
	})

	if err = peer.Start(bg); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc start")
		peer.Close()
		return
	}

	offer := webrtc.SessionDescription{
		Type: webrtc.SDPTypeOffer,
		SDP:  p.SDP,
	}

	answer, err := peer.ApplyOfferAndCreateAnswer(offer)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("webrtc apply offer")
		peer.Close()
		return
	}

	if old := conn.swapPeer(peer); old != nil {
		old.Close()
	}

	ctl.sendJSON(conn, map[string]string{
		"type": "answer",
		"sdp":  answer.SDP,
	})
}

func (ctl *SignalWSController) handleCandidate(
	conn *WsSignalConn,
	data []byte,
) {
	type candidatePayload struct {
		Type          string `json:"type"`
		Candidate     string `json:"candidate"`
		SDPMid        string `json:"sdpMid"`
		SDPMLineIndex uint16 `json:"sdpMLineIndex"`
	}
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad candidate payload")
		return
	}

	cand := webrtc.ICECandidateInit{
		Candidate: p.Candidate,
	}
	if p.SDPMid != "" {
		cand.SDPMid = &p.SDPMid
	}
	cand.SDPMLineIndex = &p.SDPMLineIndex

	peer := conn.currentPeer()
	if peer == nil {
		log.Warn().Str("module", "signal").Str("client", conn.id).Msg("candidate: no preview peer")
		return
	}
	if err := peer.AddICECandidate(cand); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("add ice candidate")
	}
}
