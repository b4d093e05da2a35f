package orch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core/mocks"
	"github.com/dkeye/livecast/internal/domain"
	"go.uber.org/mock/gomock"
)

var testDevices = []domain.DeviceInfo{
	{
		ID:                "back-0",
		Facing:            domain.FacingBack,
		SensorOrientation: 90,
		Sizes:             []domain.Resolution{{Width: 1920, Height: 1080}, {Width: 1080, Height: 1920}, {Width: 720, Height: 1280}},
	},
	{
		ID:                "front-1",
		Facing:            domain.FacingFront,
		SensorOrientation: 270,
		Sizes:             []domain.Resolution{{Width: 1280, Height: 720}, {Width: 480, Height: 640}},
	},
}

// fakePublisher records connects and lets a test script network events.
type fakePublisher struct {
	mu          sync.Mutex
	state       domain.ConnectionState
	attempt     uint64
	connects    []string
	disconnects int
	live        int
	maxLive     int
	connectErr  error
	events      chan domain.NetworkEvent
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{events: make(chan domain.NetworkEvent, 16)}
}

func (p *fakePublisher) Connect(_ context.Context, url string) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.connectErr != nil {
		return 0, p.connectErr
	}
	if p.state.Active() {
		return 0, domain.ErrAlreadyConnected
	}
	p.attempt++
	p.state = domain.ConnConnecting
	p.connects = append(p.connects, url)
	p.live++
	if p.live > p.maxLive {
		p.maxLive = p.live
	}
	return p.attempt, nil
}

func (p *fakePublisher) Disconnect() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects++
	if p.state.Active() {
		p.live--
	}
	p.state = domain.ConnIdle
}

func (p *fakePublisher) State() domain.ConnectionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *fakePublisher) Events() <-chan domain.NetworkEvent { return p.events }

// emit applies the state change the real publisher would make, then
// delivers the event.
func (p *fakePublisher) emit(kind domain.NetworkEventKind, attempt uint64, reason string) {
	p.mu.Lock()
	if attempt == p.attempt && p.state.Active() {
		switch kind {
		case domain.NetSucceeded:
			p.state = domain.ConnConnected
		case domain.NetFailed:
			p.state = domain.ConnFailed
			p.live--
		case domain.NetDisconnected:
			p.state = domain.ConnDisconnected
			p.live--
		}
	}
	p.mu.Unlock()
	p.events <- domain.NetworkEvent{Kind: kind, Attempt: attempt, Reason: reason, At: time.Now()}
}

func (p *fakePublisher) stats() (connects, disconnects, maxLive int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connects), p.disconnects, p.maxLive
}

type eventLog struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (l *eventLog) Notify(ev domain.SessionEvent) {
	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()
}

func (l *eventLog) count(t domain.SessionEventType) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

type harness struct {
	t       *testing.T
	ctrl    *gomock.Controller
	cams    *mocks.MockCameraLister
	video   *mocks.MockVideoEncoder
	audio   *mocks.MockAudioEncoder
	capture *mocks.MockCaptureSource
	surface *mocks.MockSurface
	pub     *fakePublisher
	log     *eventLog
	deps    Deps
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := &harness{
		t:       t,
		ctrl:    ctrl,
		cams:    mocks.NewMockCameraLister(ctrl),
		video:   mocks.NewMockVideoEncoder(ctrl),
		audio:   mocks.NewMockAudioEncoder(ctrl),
		capture: mocks.NewMockCaptureSource(ctrl),
		surface: mocks.NewMockSurface(ctrl),
		pub:     newFakePublisher(),
		log:     &eventLog{},
	}
	h.surface.EXPECT().ID().Return("surface-1").AnyTimes()
	h.cams.EXPECT().ListCameras(gomock.Any()).Return(testDevices, nil).AnyTimes()
	h.capture.EXPECT().SetAudioMuted(gomock.Any()).AnyTimes()
	h.deps = Deps{
		Selector:  app.NewDeviceSelector(h.cams),
		Pipeline:  app.NewEncoderPipeline(h.video, h.audio),
		Preview:   app.NewPreviewBinding(h.capture),
		Capture:   h.capture,
		Publisher: h.pub,
		Notifier:  h.log,
		Encoder:   domain.DefaultEncoderDefaults(),
		RedactURL: func(s string) string { return s },
	}
	return h
}

// expectSession sets up one successful prepare whose resources are released
// exactly once over the life of the test.
func (h *harness) expectSession() {
	h.video.EXPECT().PrepareVideo(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	h.audio.EXPECT().PrepareAudio(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	h.capture.EXPECT().StartPreview(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	h.video.EXPECT().ReleaseVideo().Times(1)
	h.audio.EXPECT().ReleaseAudio().Times(1)
	h.capture.EXPECT().StopPreview().Times(1)
}

// start runs a coordinator until the test ends. Cleanup is registered after
// the gomock controller so the loop is gone before expectations are checked.
func (h *harness) start() *Coordinator {
	h.t.Helper()
	c := New(h.deps)
	ctx, cancel := context.WithCancel(context.Background())
	go c.Run(ctx)
	h.t.Cleanup(func() {
		cancel()
		select {
		case <-c.Done():
		case <-time.After(5 * time.Second):
			h.t.Error("coordinator did not stop")
		}
	})
	return c
}

func (h *harness) preview(c *Coordinator, facing domain.CameraFacing) {
	h.t.Helper()
	if err := c.OnSurfaceAvailable(testCtx(h.t), h.surface, facing); err != nil {
		h.t.Fatalf("OnSurfaceAvailable: %v", err)
	}
	if s := c.State(); s != domain.StatePreviewReady {
		h.t.Fatalf("state after preview = %v", s)
	}
}

func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func waitState(t *testing.T, c *Coordinator, want domain.SessionState) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for c.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("state %v, want %v", c.State(), want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func waitDone(t *testing.T, c *Coordinator) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("coordinator loop did not exit")
	}
}

func waitEvents(t *testing.T, l *eventLog, typ domain.SessionEventType, n int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for l.count(typ) < n {
		if time.Now().After(deadline) {
			t.Fatalf("saw %d %s events, want %d", l.count(typ), typ, n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
