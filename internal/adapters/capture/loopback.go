package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var supportedSampleRates = []int{8000, 16000, 22050, 32000, 44100, 48000}

// Loopback stands in for a camera stack: devices come from configuration and
// the "encoded" output is an FLV recording replayed in real time.
type Loopback struct {
	cfg    Config
	logger zerolog.Logger
	muted  atomic.Bool

	mu          sync.Mutex
	videoReady  bool
	audioReady  bool
	surface     core.Surface
	device      domain.DeviceInfo
	encoder     domain.EncoderConfig
	stopReplay  context.CancelFunc
	replayDone  chan struct{}
	subscribers map[chan domain.Packet]struct{}
	clockOffset uint32
}

func NewLoopback(cfg Config) *Loopback {
	if len(cfg.Devices) == 0 {
		cfg.Devices = DefaultDevices()
	}
	return &Loopback{
		cfg:         cfg,
		logger:      log.With().Str("module", "capture.loopback").Logger(),
		subscribers: make(map[chan domain.Packet]struct{}),
	}
}

func (l *Loopback) ListCameras(ctx context.Context) ([]domain.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.DeviceInfo, 0, len(l.cfg.Devices))
	for _, d := range l.cfg.Devices {
		out = append(out, d.info())
	}
	return out, nil
}

func (l *Loopback) PrepareVideo(ctx context.Context, cfg domain.EncoderConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.FPS <= 0 || cfg.FPS > 120 {
		return fmt.Errorf("unsupported frame rate %d", cfg.FPS)
	}
	if cfg.VideoBitrateBps <= 0 {
		return fmt.Errorf("unsupported video bitrate %d", cfg.VideoBitrateBps)
	}
	if l.cfg.FLVPath != "" {
		if _, err := os.Stat(l.cfg.FLVPath); err != nil {
			return fmt.Errorf("video source: %w", err)
		}
	}
	l.mu.Lock()
	l.videoReady = true
	l.mu.Unlock()
	l.logger.Debug().Str("encoded", cfg.EncodedResolution().String()).Int("fps", cfg.FPS).
		Int("bitrate", cfg.VideoBitrateBps).Msg("video encoder prepared")
	return nil
}

func (l *Loopback) ReleaseVideo() {
	l.mu.Lock()
	l.videoReady = false
	l.mu.Unlock()
}

func (l *Loopback) PrepareAudio(ctx context.Context, cfg domain.EncoderConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !slices.Contains(supportedSampleRates, cfg.SampleRateHz) {
		return fmt.Errorf("unsupported sample rate %d", cfg.SampleRateHz)
	}
	if cfg.AudioBitrateBps <= 0 {
		return fmt.Errorf("unsupported audio bitrate %d", cfg.AudioBitrateBps)
	}
	l.mu.Lock()
	l.audioReady = true
	l.mu.Unlock()
	return nil
}

func (l *Loopback) ReleaseAudio() {
	l.mu.Lock()
	l.audioReady = false
	l.mu.Unlock()
}

func (l *Loopback) StartPreview(ctx context.Context, surface core.Surface, device domain.DeviceInfo, cfg domain.EncoderConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.videoReady || !l.audioReady {
		return errors.New("encoders not prepared")
	}
	if l.stopReplay != nil {
		return errors.New("preview already running")
	}
	l.surface = surface
	l.device = device
	l.encoder = cfg

	if l.cfg.FLVPath == "" {
		l.logger.Warn().Msg("no media file configured, preview and stream stay empty")
		return nil
	}
	f, err := os.Open(l.cfg.FLVPath)
	if err != nil {
		return err
	}
	rctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	l.stopReplay = cancel
	l.replayDone = done
	r := &replayer{path: l.cfg.FLVPath, loop: l.cfg.Loop, offset: l.clockOffset, out: l.deliver, logger: l.logger}
	go func() {
		defer close(done)
		last := r.run(rctx, f)
		l.mu.Lock()
		l.clockOffset = last
		l.mu.Unlock()
	}()
	l.logger.Info().Str("device", device.ID).Str("surface", surface.ID()).
		Str("size", cfg.Resolution().String()).Int("rotation", cfg.RotationDegrees).Msg("preview started")
	return nil
}

func (l *Loopback) StopPreview() {
	l.mu.Lock()
	stop, done := l.stopReplay, l.replayDone
	l.stopReplay, l.replayDone = nil, nil
	l.surface = nil
	l.mu.Unlock()
	if stop == nil {
		return
	}
	stop()
	<-done
	l.logger.Info().Msg("preview stopped")
}

func (l *Loopback) SwitchCamera(ctx context.Context, device domain.DeviceInfo, cfg domain.EncoderConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.surface == nil {
		return errors.New("no preview running")
	}
	l.logger.Info().Str("from", l.device.ID).Str("to", device.ID).
		Str("size", cfg.Resolution().String()).Msg("camera switched")
	l.device = device
	l.encoder = cfg
	return nil
}

func (l *Loopback) SetAudioMuted(muted bool) {
	l.muted.Store(muted)
}

// Packets subscribes to encoded output until ctx is done. Slow readers lose
// packets rather than stall the replay.
func (l *Loopback) Packets(ctx context.Context) <-chan domain.Packet {
	ch := make(chan domain.Packet, 256)
	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()
	go func() {
		<-ctx.Done()
		l.mu.Lock()
		delete(l.subscribers, ch)
		l.mu.Unlock()
		close(ch)
	}()
	return ch
}

func (l *Loopback) deliver(pkt domain.Packet, preview []byte, frame uint32) {
	if pkt.Kind == domain.PacketAudio && l.muted.Load() {
		return
	}
	l.mu.Lock()
	surface := l.surface
	for ch := range l.subscribers {
		select {
		case ch <- pkt:
		default:
			l.logger.Debug().Str("kind", pkt.Kind.String()).Msg("subscriber lagging, packet dropped")
		}
	}
	l.mu.Unlock()

	if surface != nil && preview != nil {
		if err := surface.WriteVideo(sample(preview, frame)); err != nil {
			l.logger.Debug().Err(err).Str("surface", surface.ID()).Msg("preview write")
		}
	}
}
