package core

import (
	"context"

	"github.com/dkeye/livecast/internal/domain"
)

// Publisher owns the outbound connection to the ingest endpoint.
// Connect only starts the attempt; its outcome arrives on Events.
type Publisher interface {
	Connect(ctx context.Context, url string) (attempt uint64, err error)
	// Disconnect is idempotent and emits no events.
	Disconnect()
	State() domain.ConnectionState
	Events() <-chan domain.NetworkEvent
}

// Notifier receives session events. Implementations must not block.
type Notifier interface {
	Notify(domain.SessionEvent)
}

type NotifierFunc func(domain.SessionEvent)

func (f NotifierFunc) Notify(e domain.SessionEvent) { f(e) }
