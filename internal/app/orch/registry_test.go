package orch

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/livecast/internal/domain"
)

func newTestRegistry(t *testing.T, h *harness) (*Registry, *int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	created := 0
	r := NewRegistry(ctx, func() *Coordinator {
		created++
		return New(h.deps)
	})
	t.Cleanup(func() {
		_ = r.Shutdown(testCtx(t))
		cancel()
	})
	return r, &created
}

func TestRegistryGetOrCreate(t *testing.T) {
	h := newHarness(t)
	r, created := newTestRegistry(t, h)
	ctx := testCtx(t)

	if _, ok := r.Current(); ok {
		t.Fatal("registry starts empty")
	}
	a, err := r.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a != b || *created != 1 {
		t.Fatalf("expected one coordinator, created %d", *created)
	}
	if cur, ok := r.Current(); !ok || cur != a {
		t.Fatal("Current does not return the live coordinator")
	}
}

func TestRegistryDropsTerminated(t *testing.T) {
	h := newHarness(t)
	h.expectSession()
	r, created := newTestRegistry(t, h)
	ctx := testCtx(t)

	cmds := &Commands{Registry: r}
	if err := cmds.SurfaceAvailable(ctx, h.surface, domain.FacingBack); err != nil {
		t.Fatal(err)
	}
	first, _ := r.Current()
	if err := cmds.SurfaceDestroyed(ctx, h.surface.ID()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, first)
	if _, ok := r.Current(); ok {
		t.Fatal("terminated coordinator still current")
	}

	second, err := r.GetOrCreate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second == first || *created != 2 {
		t.Fatalf("expected a fresh coordinator, created %d", *created)
	}
	if second.State() != domain.StateUninitialized {
		t.Fatalf("fresh coordinator state %v", second.State())
	}
}

func TestRegistryReplace(t *testing.T) {
	h := newHarness(t)
	h.expectSession()
	r, _ := newTestRegistry(t, h)
	ctx := testCtx(t)

	cmds := &Commands{Registry: r}
	if err := cmds.SurfaceAvailable(ctx, h.surface, domain.FacingBack); err != nil {
		t.Fatal(err)
	}
	if _, err := cmds.StartStream(ctx, ingest); err != nil {
		t.Fatal(err)
	}
	old, _ := r.Current()

	fresh, err := r.Replace(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fresh == old {
		t.Fatal("Replace returned the old coordinator")
	}
	if old.State() != domain.StateTerminated {
		t.Fatalf("old coordinator state %v", old.State())
	}
	if h.pub.State().Active() {
		t.Fatal("old stream left running")
	}
}

func TestResetSessionStopsStream(t *testing.T) {
	h := newHarness(t)
	h.expectSession()
	r, created := newTestRegistry(t, h)
	ctx := testCtx(t)

	cmds := &Commands{Registry: r}
	if err := cmds.SurfaceAvailable(ctx, h.surface, domain.FacingBack); err != nil {
		t.Fatal(err)
	}
	if _, err := cmds.StartStream(ctx, ingest); err != nil {
		t.Fatal(err)
	}
	old, _ := r.Current()

	snap, err := cmds.ResetSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if snap.ID == old.ID() || snap.State != domain.StateUninitialized || *created != 2 {
		t.Fatalf("unexpected snapshot %+v, created %d", snap, *created)
	}
	if h.pub.State().Active() {
		t.Fatal("old stream left running")
	}
	// The old surface id means nothing to the fresh session.
	if err := cmds.SurfaceDestroyed(ctx, h.surface.ID()); err != nil {
		t.Fatal(err)
	}
	if cur, ok := r.Current(); !ok || cur.State() != domain.StateUninitialized {
		t.Fatal("fresh session torn down by a stale surface")
	}
}

func TestCommandsWithoutSession(t *testing.T) {
	h := newHarness(t)
	r, created := newTestRegistry(t, h)
	cmds := &Commands{Registry: r}
	ctx := testCtx(t)

	if status, err := cmds.StopStream(ctx); err != nil || status != domain.StatusNotStreaming {
		t.Fatalf("stop: %v %v", status, err)
	}
	if _, err := cmds.StartStream(ctx, ingest); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("start: %v", err)
	}
	if _, err := cmds.MuteAudio(ctx); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("mute: %v", err)
	}
	if _, err := cmds.IsMuted(ctx); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("isMuted: %v", err)
	}
	if _, err := cmds.Status(ctx); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("status: %v", err)
	}
	if err := cmds.SurfaceDestroyed(ctx, ""); err != nil {
		t.Fatalf("destroy without session: %v", err)
	}
	if *created != 0 {
		t.Fatal("commands must not create sessions")
	}
}

func TestCommandsEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.expectSession()
	r, _ := newTestRegistry(t, h)
	cmds := &Commands{Registry: r}
	ctx := testCtx(t)

	if err := cmds.SurfaceAvailable(ctx, h.surface, domain.FacingFront); err != nil {
		t.Fatal(err)
	}
	if status, err := cmds.StartStream(ctx, ingest); err != nil || status != domain.StatusStarted {
		t.Fatalf("start: %v %v", status, err)
	}
	h.pub.emit(domain.NetFailed, 1, "timeout")
	c, _ := r.Current()
	waitState(t, c, domain.StatePreviewReady)
	if status, err := cmds.StopStream(ctx); err != nil || status != domain.StatusNotStreaming {
		t.Fatalf("stop: %v %v", status, err)
	}
	snap, err := cmds.Status(ctx)
	if err != nil || snap.State != domain.StatePreviewReady || snap.Facing != "front" {
		t.Fatalf("status: %+v %v", snap, err)
	}
}
