package signal

import (
	"encoding/json"
	"sync"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Hub tracks open signal connections and broadcasts session events to them.
// It never blocks the caller: lagging connections lose events.
type Hub struct {
	mu    sync.RWMutex
	conns map[core.SignalConnection]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[core.SignalConnection]struct{})}
}

func (h *Hub) Add(c core.SignalConnection) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	log.Debug().Str("module", "signal.hub").Int("conns", n).Msg("conn added")
}

func (h *Hub) Remove(c core.SignalConnection) {
	h.mu.Lock()
	delete(h.conns, c)
	n := len(h.conns)
	h.mu.Unlock()
	log.Debug().Str("module", "signal.hub").Int("conns", n).Msg("conn removed")
}

func (h *Hub) Notify(ev domain.SessionEvent) {
	msg := struct {
		Type string `json:"type"`
		domain.SessionEvent
	}{
		Type:         "session_event",
		SessionEvent: ev,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "signal.hub").Msg("marshal event")
		return
	}
	h.Broadcast(b)
}

func (h *Hub) Broadcast(f core.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns {
		if err := c.TrySend(f); err != nil {
			log.Debug().Err(err).Str("module", "signal.hub").Msg("event dropped")
		}
	}
}
