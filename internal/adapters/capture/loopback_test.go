package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/pion/webrtc/v4/pkg/media"
)

type recordingSurface struct {
	mu      sync.Mutex
	samples []media.Sample
}

func (s *recordingSurface) ID() string { return "test-surface" }

func (s *recordingSurface) WriteVideo(m media.Sample) error {
	s.mu.Lock()
	s.samples = append(s.samples, m)
	s.mu.Unlock()
	return nil
}

func (s *recordingSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples)
}

func testConfig() domain.EncoderConfig {
	return domain.NewEncoderConfig(domain.DefaultResolution, 90, domain.DefaultEncoderDefaults())
}

func TestListCamerasDefaults(t *testing.T) {
	l := NewLoopback(Config{})
	cams, err := l.ListCameras(context.Background())
	if err != nil {
		t.Fatalf("ListCameras: %v", err)
	}
	if len(cams) != 2 {
		t.Fatalf("expected 2 default cameras, got %d", len(cams))
	}
	if cams[0].Facing != domain.FacingBack || cams[1].Facing != domain.FacingFront {
		t.Fatalf("unexpected facings %v %v", cams[0].Facing, cams[1].Facing)
	}
	if cams[1].Label != "front camera" {
		t.Fatalf("unexpected label %q", cams[1].Label)
	}
}

func TestListCamerasCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLoopback(Config{}).ListCameras(ctx); err == nil {
		t.Fatal("expected context error")
	}
}

func TestPrepareAudioRejectsSampleRate(t *testing.T) {
	l := NewLoopback(Config{})
	cfg := testConfig()
	cfg.SampleRateHz = 12345
	if err := l.PrepareAudio(context.Background(), cfg); err == nil {
		t.Fatal("expected unsupported sample rate")
	}
}

func TestPrepareVideoMissingFile(t *testing.T) {
	l := NewLoopback(Config{FLVPath: "/nonexistent/livecast.flv"})
	if err := l.PrepareVideo(context.Background(), testConfig()); err == nil {
		t.Fatal("expected missing source error")
	}
}

func TestStartPreviewNeedsEncoders(t *testing.T) {
	l := NewLoopback(Config{})
	cams, _ := l.ListCameras(context.Background())
	if err := l.StartPreview(context.Background(), &recordingSurface{}, cams[0], testConfig()); err == nil {
		t.Fatal("expected error without prepared encoders")
	}

	ctx := context.Background()
	if err := l.PrepareVideo(ctx, testConfig()); err != nil {
		t.Fatal(err)
	}
	if err := l.PrepareAudio(ctx, testConfig()); err != nil {
		t.Fatal(err)
	}
	if err := l.StartPreview(ctx, &recordingSurface{}, cams[0], testConfig()); err != nil {
		t.Fatalf("StartPreview: %v", err)
	}
	if err := l.SwitchCamera(ctx, cams[1], testConfig()); err != nil {
		t.Fatalf("SwitchCamera: %v", err)
	}
	l.StopPreview()
	l.StopPreview()
	if err := l.SwitchCamera(ctx, cams[0], testConfig()); err == nil {
		t.Fatal("switch without preview should fail")
	}
}

func TestDeliverDropsMutedAudio(t *testing.T) {
	l := NewLoopback(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pkts := l.Packets(ctx)

	l.SetAudioMuted(true)
	l.deliver(domain.Packet{Kind: domain.PacketAudio, Timestamp: 1}, nil, 0)
	l.deliver(domain.Packet{Kind: domain.PacketVideo, Timestamp: 2}, nil, 0)
	l.SetAudioMuted(false)
	l.deliver(domain.Packet{Kind: domain.PacketAudio, Timestamp: 3}, nil, 0)

	var got []uint32
	for len(got) < 2 {
		select {
		case p := <-pkts:
			got = append(got, p.Timestamp)
		case <-time.After(time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	if got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected packets %v", got)
	}
}

func TestDeliverWritesPreview(t *testing.T) {
	l := NewLoopback(Config{})
	s := &recordingSurface{}
	l.surface = s
	l.deliver(domain.Packet{Kind: domain.PacketVideo}, []byte{0, 0, 0, 1, 0x65}, 33)
	l.deliver(domain.Packet{Kind: domain.PacketVideo}, nil, 33)
	if s.count() != 1 {
		t.Fatalf("expected 1 preview sample, got %d", s.count())
	}
}

func TestPacketsClosedOnCancel(t *testing.T) {
	l := NewLoopback(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	pkts := l.Packets(ctx)
	cancel()
	select {
	case _, ok := <-pkts:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
