package domain

import "encoding/json"

type SessionID string

type SessionState int32

const (
	StateUninitialized SessionState = iota
	StatePreviewReady
	StateStreaming
	StateTearingDown
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePreviewReady:
		return "preview_ready"
	case StateStreaming:
		return "streaming"
	case StateTearingDown:
		return "tearing_down"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

func (s SessionState) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// ConnectionState belongs to the publisher. The coordinator only reads it.
type ConnectionState int32

const (
	ConnIdle ConnectionState = iota
	ConnConnecting
	ConnConnected
	ConnFailed
	ConnDisconnected
)

func (s ConnectionState) String() string {
	switch s {
	case ConnIdle:
		return "idle"
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnFailed:
		return "failed"
	case ConnDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

func (s ConnectionState) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Active reports whether a connection attempt is in flight or established.
func (s ConnectionState) Active() bool {
	return s == ConnConnecting || s == ConnConnected
}

// Snapshot is a read-only view of a session for APIs and observers.
type Snapshot struct {
	ID              SessionID       `json:"id"`
	Facing          string          `json:"facing"`
	Config          *EncoderConfig  `json:"config,omitempty"`
	Connection      ConnectionState `json:"connection"`
	State           SessionState    `json:"state"`
	Muted           bool            `json:"muted"`
	URL             string          `json:"url,omitempty"`
	SurfaceID       string          `json:"surface_id,omitempty"`
	TeardownPending bool            `json:"teardown_pending"`
}

type CommandStatus string

const (
	StatusStarted          CommandStatus = "started"
	StatusAlreadyStreaming CommandStatus = "already_streaming"
	StatusStopped          CommandStatus = "stopped"
	StatusNotStreaming     CommandStatus = "not_streaming"
	StatusSwitched         CommandStatus = "switched"
	StatusMuted            CommandStatus = "muted"
	StatusUnmuted          CommandStatus = "unmuted"
)
