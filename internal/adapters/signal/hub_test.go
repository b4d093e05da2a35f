package signal

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
)

type fakeConn struct {
	frames []core.Frame
	err    error
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	if f.err != nil {
		return f.err
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func TestHubNotify(t *testing.T) {
	h := NewHub()
	a, b := &fakeConn{}, &fakeConn{err: ErrBackpressure}
	h.Add(a)
	h.Add(b)
	if connCount(h) != 2 {
		t.Fatalf("expected 2 conns, got %d", connCount(h))
	}

	h.Notify(domain.SessionEvent{
		Type:     domain.EventStateChanged,
		Snapshot: domain.Snapshot{ID: "s1", State: domain.StateStreaming},
	})
	if len(a.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(a.frames))
	}

	var msg struct {
		Type    string `json:"type"`
		Event   string `json:"event"`
		Session struct {
			State string `json:"state"`
		} `json:"session"`
	}
	if err := json.Unmarshal(a.frames[0], &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "session_event" || msg.Event != string(domain.EventStateChanged) || msg.Session.State != "streaming" {
		t.Fatalf("unexpected message %s", a.frames[0])
	}

	h.Remove(a)
	h.Notify(domain.SessionEvent{Type: domain.EventMuteChanged})
	if len(a.frames) != 1 {
		t.Fatal("removed conn still receives events")
	}
}

func connCount(h *Hub) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
