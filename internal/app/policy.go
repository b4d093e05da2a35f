package app

import "github.com/dkeye/livecast/internal/domain"

type EventAction int

const (
	NoAction EventAction = iota
	RevertToPreview
)

// Policy decides how the coordinator reacts to a network event for the
// current connection attempt.
type Policy interface {
	OnNetworkEvent(state domain.SessionState, ev domain.NetworkEvent) EventAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnNetworkEvent(state domain.SessionState, ev domain.NetworkEvent) EventAction {
	if state != domain.StateStreaming {
		return NoAction
	}
	switch ev.Kind {
	case domain.NetFailed, domain.NetDisconnected:
		return RevertToPreview
	default:
		return NoAction
	}
}
