package orch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Deps wires one coordinator. A fresh Publisher, Pipeline and Preview are
// expected per coordinator.
type Deps struct {
	Selector        *app.DeviceSelector
	Pipeline        *app.EncoderPipeline
	Preview         *app.PreviewBinding
	Capture         core.CaptureSource
	Publisher       core.Publisher
	Policy          app.Policy
	Notifier        core.Notifier
	Encoder         domain.EncoderDefaults
	DisplayRotation int
	// RedactURL hides credentials in the ingest url before it leaves the
	// coordinator in snapshots.
	RedactURL func(string) string
}

// Coordinator is the single authority over one session. Surface events,
// commands and publisher events are all applied on the Run goroutine.
// Blocking work runs on a worker while the loop queues whatever arrives.
type Coordinator struct {
	id      domain.SessionID
	deps    Deps
	logger  zerolog.Logger
	state   atomic.Int32
	runCtx  context.Context
	ops     chan func()
	results chan func()
	done    chan struct{}
	started atomic.Bool

	// Owned by the Run goroutine.
	busy            bool
	deferred        []func()
	facing          domain.CameraFacing
	device          domain.DeviceInfo
	cfg             *domain.EncoderConfig
	surfaceID       string
	muted           bool
	url             string
	attempt         uint64
	teardownPending bool
}

func New(deps Deps) *Coordinator {
	if deps.Policy == nil {
		deps.Policy = app.SimplePolicy{}
	}
	if deps.Notifier == nil {
		deps.Notifier = core.NotifierFunc(func(domain.SessionEvent) {})
	}
	if deps.RedactURL == nil {
		deps.RedactURL = func(string) string { return "" }
	}
	id := domain.SessionID(uuid.NewString())
	return &Coordinator{
		id:      id,
		deps:    deps,
		logger:  log.With().Str("module", "orch.coordinator").Str("session", string(id)).Logger(),
		runCtx:  context.Background(),
		ops:     make(chan func()),
		results: make(chan func(), 1),
		done:    make(chan struct{}),
	}
}

func (c *Coordinator) ID() domain.SessionID { return c.id }

// State is safe to call from any goroutine.
func (c *Coordinator) State() domain.SessionState {
	return domain.SessionState(c.state.Load())
}

// Done is closed once the coordinator has terminated and its loop exited.
func (c *Coordinator) Done() <-chan struct{} { return c.done }

// Run consumes all event sources until the session terminates or ctx is
// cancelled. Cancellation tears the session down before returning.
func (c *Coordinator) Run(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	c.runCtx = context.WithoutCancel(ctx)
	defer close(c.done)

	events := c.deps.Publisher.Events()
	for {
		select {
		case <-ctx.Done():
			c.shutdownNow()
			return
		case op := <-c.ops:
			c.dispatch(op)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			c.dispatch(func() { c.handleNetworkEvent(ev) })
		case fold := <-c.results:
			c.busy = false
			fold()
			c.drain()
		}
		if c.State() == domain.StateTerminated && !c.busy {
			c.drain()
			c.logger.Info().Msg("session loop finished")
			return
		}
	}
}

func (c *Coordinator) dispatch(op func()) {
	if c.busy {
		c.deferred = append(c.deferred, op)
		return
	}
	op()
}

func (c *Coordinator) drain() {
	for !c.busy && len(c.deferred) > 0 {
		op := c.deferred[0]
		c.deferred = c.deferred[1:]
		op()
	}
}

// async runs work off the loop. The returned fold is applied on the loop
// once work finishes; until then every incoming op is queued.
func (c *Coordinator) async(work func(ctx context.Context) func()) {
	c.busy = true
	ctx := c.runCtx
	go func() {
		c.results <- work(ctx)
	}()
}

// shutdownNow is used when the loop itself is going away.
func (c *Coordinator) shutdownNow() {
	if c.busy {
		fold := <-c.results
		c.busy = false
		fold()
	}
	switch c.State() {
	case domain.StateStreaming, domain.StatePreviewReady:
		c.deps.Publisher.Disconnect()
		c.setState(domain.StateTearingDown)
		c.release()
		c.setState(domain.StateTerminated)
	case domain.StateUninitialized:
		c.setState(domain.StateTerminated)
	}
	c.drain()
}

// release frees everything the session holds. Both calls are idempotent,
// and a panic in one does not skip the other.
func (c *Coordinator) release() {
	unbind := func() error { c.deps.Preview.Unbind(); return nil }
	if err := safely("preview stop", domain.ErrPreviewFailed, unbind); err != nil {
		c.logger.Error().Err(err).Msg("release")
	}
	releaseEncoders := func() error { c.deps.Pipeline.Release(); return nil }
	if err := safely("encoder release", domain.ErrPrepareFailed, releaseEncoders); err != nil {
		c.logger.Error().Err(err).Msg("release")
	}
}

func (c *Coordinator) setState(s domain.SessionState) {
	prev := domain.SessionState(c.state.Swap(int32(s)))
	if prev == s {
		return
	}
	c.logger.Info().Str("from", prev.String()).Str("to", s.String()).Msg("state changed")
	c.notify(domain.EventStateChanged, nil)
}

func (c *Coordinator) hasSession() bool {
	s := c.State()
	return s == domain.StatePreviewReady || s == domain.StateStreaming
}

func (c *Coordinator) snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		ID:              c.id,
		Facing:          c.facing.String(),
		Connection:      c.deps.Publisher.State(),
		State:           c.State(),
		Muted:           c.muted,
		URL:             c.deps.RedactURL(c.url),
		SurfaceID:       c.surfaceID,
		TeardownPending: c.teardownPending,
	}
	if c.cfg != nil {
		cfg := *c.cfg
		snap.Config = &cfg
	}
	return snap
}

func (c *Coordinator) notify(t domain.SessionEventType, ev *domain.NetworkEvent) {
	c.deps.Notifier.Notify(domain.SessionEvent{Type: t, Snapshot: c.snapshot(), Network: ev})
}

type reply[T any] struct {
	val T
	err error
}

// call hands fn to the loop and waits for its answer. fn must call respond
// exactly once, possibly later from a fold.
func call[T any](ctx context.Context, c *Coordinator, fn func(respond func(T, error))) (T, error) {
	var zero T
	ch := make(chan reply[T], 1)
	respond := func(v T, err error) { ch <- reply[T]{val: v, err: err} }

	select {
	case c.ops <- func() { fn(respond) }:
	case <-c.done:
		return zero, domain.ErrNoActiveSession
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// safely converts a collaborator panic into an error wrapping kind.
func safely(stage string, kind error, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", kind, stage, r)
		}
	}()
	return fn()
}
