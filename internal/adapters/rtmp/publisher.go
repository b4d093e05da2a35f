package rtmp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/yutopp/go-rtmp"
	rtmpmsg "github.com/yutopp/go-rtmp/message"
)

const (
	chunkStreamAudio = 4
	chunkStreamData  = 5
	chunkStreamVideo = 6
)

type Config struct {
	ChunkSize   uint32        `mapstructure:"chunk_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// HandshakeTimeout bounds everything from dial to publish.
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
	BitrateInterval  time.Duration `mapstructure:"bitrate_interval"`
	FlashVer         string        `mapstructure:"flash_ver"`
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:        128,
		DialTimeout:      10 * time.Second,
		HandshakeTimeout: 15 * time.Second,
		BitrateInterval:  time.Second,
		FlashVer:         "FMLE/3.0 (compatible; livecast)",
	}
}

// Publisher pushes encoded media to an RTMP ingest. Each Connect is one
// attempt; everything it produces is tagged with that attempt.
type Publisher struct {
	cfg    Config
	source core.PacketSource
	events chan domain.NetworkEvent

	mu      sync.Mutex
	state   domain.ConnectionState
	attempt uint64
	cancel  context.CancelFunc
	conn    *rtmp.ClientConn
	// last is closed when the goroutine of the latest attempt has exited
	// and its socket is gone.
	last chan struct{}
}

func NewPublisher(cfg Config, source core.PacketSource) *Publisher {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultConfig().ChunkSize
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = DefaultConfig().HandshakeTimeout
	}
	if cfg.BitrateInterval <= 0 {
		cfg.BitrateInterval = time.Second
	}
	return &Publisher{
		cfg:    cfg,
		source: source,
		events: make(chan domain.NetworkEvent, 64),
	}
}

func (p *Publisher) Events() <-chan domain.NetworkEvent { return p.events }

func (p *Publisher) State() domain.ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Publisher) Connect(ctx context.Context, rawURL string) (uint64, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.Active() {
		return 0, domain.ErrAlreadyConnected
	}
	p.attempt++
	attempt := p.attempt
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.state = domain.ConnConnecting
	prev, done := p.last, make(chan struct{})
	p.last = done

	go func() {
		defer close(done)
		p.run(runCtx, attempt, target, prev)
	}()
	return attempt, nil
}

func (p *Publisher) Disconnect() {
	p.mu.Lock()
	cancel, conn := p.cancel, p.conn
	p.cancel, p.conn = nil, nil
	wasActive := p.state.Active()
	p.state = domain.ConnIdle
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Str("module", "rtmp.publisher").Msg("close")
		}
	}
	if wasActive {
		log.Info().Str("module", "rtmp.publisher").Msg("disconnected")
	}
}

// run drives one attempt. It dials only after the previous attempt has
// released its socket, so one publisher never holds two connections.
func (p *Publisher) run(ctx context.Context, attempt uint64, t Target, prev <-chan struct{}) {
	logger := log.With().
		Str("module", "rtmp.publisher").
		Uint64("attempt", attempt).
		Str("addr", t.Addr).
		Str("app", t.App).
		Logger()

	p.emit(ctx, domain.NetworkEvent{Kind: domain.NetStarted, Attempt: attempt, URL: t.Redacted})

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return
		}
	}

	conn, stream, err := p.open(ctx, t)
	if err != nil {
		if ctx.Err() != nil {
			logger.Debug().Err(err).Msg("handshake abandoned")
			return
		}
		kind := domain.NetFailed
		if isAuthError(err) {
			kind = domain.NetAuthError
		}
		logger.Error().Err(err).Msg("publish handshake failed")
		evs := []domain.NetworkEvent{{Kind: kind, Attempt: attempt, URL: t.Redacted, Reason: err.Error()}}
		if kind == domain.NetAuthError {
			evs = append(evs, domain.NetworkEvent{Kind: domain.NetFailed, Attempt: attempt, URL: t.Redacted, Reason: err.Error()})
		}
		p.finish(ctx, attempt, domain.ConnFailed, evs...)
		return
	}

	if !p.adopt(attempt, conn) {
		_ = conn.Close()
		return
	}
	if t.HasCredentials {
		p.emit(ctx, domain.NetworkEvent{Kind: domain.NetAuthSuccess, Attempt: attempt, URL: t.Redacted})
	}
	p.emit(ctx, domain.NetworkEvent{Kind: domain.NetSucceeded, Attempt: attempt, URL: t.Redacted})
	logger.Info().Msg("publishing")

	err = p.pump(ctx, attempt, stream, logger)
	if ctx.Err() != nil {
		_ = conn.Close()
		return
	}
	reason := "source closed"
	if err != nil {
		reason = err.Error()
		logger.Error().Err(err).Msg("stream write failed")
	}
	_ = conn.Close()
	p.finish(ctx, attempt, domain.ConnDisconnected, domain.NetworkEvent{Kind: domain.NetDisconnected, Attempt: attempt, URL: t.Redacted, Reason: reason})
}

// open dials and publishes. Cancelling ctx, or running past the handshake
// timeout, closes the socket in whatever stage it is in.
func (p *Publisher) open(ctx context.Context, t Target) (*rtmp.ClientConn, *rtmp.Stream, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.HandshakeTimeout)
	defer cancel()

	guard := &socketGuard{}
	defer guard.release()
	stopAbort := context.AfterFunc(ctx, guard.abort)
	defer stopAbort()

	dialer := &net.Dialer{Timeout: p.cfg.DialTimeout, Control: guard.dialControl()}
	conn, err := rtmp.DialWithDialer(dialer, "rtmp", t.Addr, &rtmp.ConnConfig{
		Logger: libLogger(),
	})
	if err != nil {
		return nil, nil, stageError(ctx, "dial "+t.Addr, err)
	}
	stopClose := context.AfterFunc(ctx, func() { _ = conn.Close() })
	fail := func(stage string, err error) (*rtmp.ClientConn, *rtmp.Stream, error) {
		_ = conn.Close()
		return nil, nil, stageError(ctx, stage, err)
	}

	err = conn.Connect(&rtmpmsg.NetConnectionConnect{
		Command: rtmpmsg.NetConnectionConnectCommand{
			App:      t.App,
			Type:     "nonprivate",
			FlashVer: p.cfg.FlashVer,
			TCURL:    t.TCURL,
		},
	})
	if err != nil {
		return fail("connect "+t.App, err)
	}

	stream, err := conn.CreateStream(nil, p.cfg.ChunkSize)
	if err != nil {
		return fail("create stream", err)
	}

	err = stream.Publish(&rtmpmsg.NetStreamPublish{
		PublishingName: t.Key,
		PublishingType: "live",
	})
	if err != nil {
		return fail("publish", err)
	}
	if !stopClose() {
		return fail("publish", ctx.Err())
	}
	return conn, stream, nil
}

func stageError(ctx context.Context, stage string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: handshake timed out: %w", stage, err)
	}
	return fmt.Errorf("%s: %w", stage, err)
}

// pump forwards packets until ctx is done, the source closes or a write
// fails. Throughput is reported every BitrateInterval when it moves.
func (p *Publisher) pump(ctx context.Context, attempt uint64, stream *rtmp.Stream, logger zerolog.Logger) error {
	packets := p.source.Packets(ctx)
	ticker := time.NewTicker(p.cfg.BitrateInterval)
	defer ticker.Stop()

	var sent, lastBps int64
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			bps := sent * 8 * int64(time.Second) / int64(p.cfg.BitrateInterval)
			sent = 0
			if bitrateMoved(lastBps, bps) {
				lastBps = bps
				p.emit(ctx, domain.NetworkEvent{Kind: domain.NetBitrateChanged, Attempt: attempt, BitrateBps: bps})
			}
		case pkt, ok := <-packets:
			if !ok {
				return nil
			}
			csid, msg := toMessage(pkt)
			if msg == nil {
				continue
			}
			if err := stream.Write(csid, pkt.Timestamp, msg); err != nil {
				return err
			}
			sent += int64(len(pkt.Payload))
			logger.Trace().Uint8("kind", uint8(pkt.Kind)).Uint32("ts", pkt.Timestamp).Msg("packet sent")
		}
	}
}

func toMessage(pkt domain.Packet) (int, rtmpmsg.Message) {
	body := bytes.NewReader(pkt.Payload)
	switch pkt.Kind {
	case domain.PacketVideo:
		return chunkStreamVideo, &rtmpmsg.VideoMessage{Payload: body}
	case domain.PacketAudio:
		return chunkStreamAudio, &rtmpmsg.AudioMessage{Payload: body}
	case domain.PacketScript:
		return chunkStreamData, &rtmpmsg.DataMessage{
			Name:     "@setDataFrame",
			Encoding: rtmpmsg.EncodingTypeAMF0,
			Body:     body,
		}
	default:
		return 0, nil
	}
}

func (p *Publisher) adopt(attempt uint64, conn *rtmp.ClientConn) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attempt != attempt || p.cancel == nil {
		return false
	}
	p.conn = conn
	p.state = domain.ConnConnected
	return true
}

// finish records a terminal state for attempt, reports it and releases the
// attempt's context.
func (p *Publisher) finish(ctx context.Context, attempt uint64, s domain.ConnectionState, evs ...domain.NetworkEvent) {
	p.mu.Lock()
	current := p.attempt == attempt && p.cancel != nil
	cancel := p.cancel
	if current {
		p.state = s
		p.conn = nil
		p.cancel = nil
	}
	p.mu.Unlock()
	if !current {
		return
	}
	for _, ev := range evs {
		p.emit(ctx, ev)
	}
	cancel()
}

// emit drops events of an attempt that was disconnected locally.
func (p *Publisher) emit(ctx context.Context, ev domain.NetworkEvent) {
	if ctx.Err() != nil {
		return
	}
	ev.At = time.Now()
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}

func bitrateMoved(prev, next int64) bool {
	if prev == 0 {
		return next > 0
	}
	diff := next - prev
	if diff < 0 {
		diff = -diff
	}
	return diff*10 > prev
}

func isAuthError(err error) bool {
	if errors.Is(err, domain.ErrAuth) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"auth", "rejected", "unauthorized", "forbidden", "badname"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// libLogger routes go-rtmp's logrus output into zerolog.
func libLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(log.Logger.With().Str("module", "rtmp.lib").Logger())
	l.SetLevel(logrus.WarnLevel)
	return l
}
