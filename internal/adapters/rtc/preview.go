package rtc

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PreviewPeer is a browser-side rendering surface: the camera preview is sent
// as an H264 track over a send-only peer connection.
type PreviewPeer struct {
	pc     *webrtc.PeerConnection
	id     string
	track  *webrtc.TrackLocalStaticSample
	logger zerolog.Logger
	cancel context.CancelFunc

	mu      sync.Mutex
	onICE   func(webrtc.ICECandidateInit)
	onReady func()
	onGone  func()
	ready   bool
	gone    bool
}

func DefaultWebRTCConfig() webrtc.Configuration {
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: []string{"stun:stun.l.google.com:19302"},
			},
		},
	}
}

// WebRTCConfig builds a configuration from a list of ICE server URLs.
func WebRTCConfig(iceURLs []string) webrtc.Configuration {
	if len(iceURLs) == 0 {
		return DefaultWebRTCConfig()
	}
	return webrtc.Configuration{ICEServers: []webrtc.ICEServer{{URLs: iceURLs}}}
}

func NewPreviewPeer(cfg webrtc.Configuration, id string) (*PreviewPeer, error) {
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264, ClockRate: 90000},
		"preview", "livecast-"+id,
	)
	if err != nil {
		_ = pc.Close()
		return nil, err
	}
	sender, err := pc.AddTrack(track)
	if err != nil {
		_ = pc.Close()
		return nil, err
	}
	p := &PreviewPeer{
		pc:     pc,
		id:     id,
		track:  track,
		logger: log.With().Str("module", "rtc.preview").Str("surface", id).Logger(),
	}
	go p.drainRTCP(sender)
	return p, nil
}

func (p *PreviewPeer) ID() string { return p.id }

// WriteVideo sends one Annex-B access unit. Before the peer connects samples
// are dropped.
func (p *PreviewPeer) WriteVideo(s media.Sample) error {
	p.mu.Lock()
	ready := p.ready && !p.gone
	p.mu.Unlock()
	if !ready {
		return nil
	}
	if err := p.track.WriteSample(s); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		return err
	}
	return nil
}

func (p *PreviewPeer) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		p.logger.Debug().Str("ice_state", s.String()).Msg("ICE state")
	})

	p.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		p.logger.Info().Str("peer_connection_state", s.String()).Msg("Peer state")
		switch s {
		case webrtc.PeerConnectionStateConnected:
			p.markReady()
		case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateClosed:
			p.markGone()
		}
	})

	p.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		p.mu.Lock()
		fn := p.onICE
		p.mu.Unlock()
		if cand != nil && fn != nil {
			fn(cand.ToJSON())
		}
	})

	go func() {
		<-ctx.Done()
		p.Close()
	}()
	return nil
}

func (p *PreviewPeer) ApplyOfferAndCreateAnswer(offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	if err := p.pc.SetRemoteDescription(offer); err != nil {
		return nil, err
	}
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return nil, err
	}

	gatherComplete := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return nil, err
	}
	<-gatherComplete

	return p.pc.LocalDescription(), nil
}

func (p *PreviewPeer) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return p.pc.AddICECandidate(ci)
}

func (p *PreviewPeer) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	p.mu.Lock()
	p.onICE = fn
	p.mu.Unlock()
}

// OnReady fires once when the peer connects and the surface can render.
func (p *PreviewPeer) OnReady(fn func()) {
	p.mu.Lock()
	p.onReady = fn
	p.mu.Unlock()
}

// OnGone fires once when the surface goes away, whatever the cause.
func (p *PreviewPeer) OnGone(fn func()) {
	p.mu.Lock()
	p.onGone = fn
	p.mu.Unlock()
}

func (p *PreviewPeer) Close() {
	if p.cancel != nil {
		p.cancel()
	}
	if err := p.pc.Close(); err != nil {
		p.logger.Error().Err(err).Msg("close error")
	}
	p.markGone()
}

func (p *PreviewPeer) markReady() {
	p.mu.Lock()
	if p.ready || p.gone {
		p.mu.Unlock()
		return
	}
	p.ready = true
	fn := p.onReady
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (p *PreviewPeer) markGone() {
	p.mu.Lock()
	if p.gone {
		p.mu.Unlock()
		return
	}
	p.gone = true
	wasReady := p.ready
	fn := p.onGone
	p.mu.Unlock()
	if wasReady && fn != nil {
		fn()
	}
	p.logger.Info().Msg("closed")
}

// drainRTCP keeps interceptors running; the payload is not used.
func (p *PreviewPeer) drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}
