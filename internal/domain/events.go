package domain

import "time"

type NetworkEventKind string

const (
	NetStarted        NetworkEventKind = "started"
	NetSucceeded      NetworkEventKind = "succeeded"
	NetFailed         NetworkEventKind = "failed"
	NetDisconnected   NetworkEventKind = "disconnected"
	NetAuthError      NetworkEventKind = "auth_error"
	NetAuthSuccess    NetworkEventKind = "auth_success"
	NetBitrateChanged NetworkEventKind = "bitrate_changed"
)

// NetworkEvent is emitted by the publisher. Attempt identifies the Connect
// call that produced it.
type NetworkEvent struct {
	Kind       NetworkEventKind `json:"kind"`
	Attempt    uint64           `json:"attempt"`
	URL        string           `json:"url,omitempty"`
	Reason     string           `json:"reason,omitempty"`
	BitrateBps int64            `json:"bitrate_bps,omitempty"`
	At         time.Time        `json:"at"`
}

type SessionEventType string

const (
	EventStateChanged SessionEventType = "state_changed"
	EventNetwork      SessionEventType = "network"
	EventMuteChanged  SessionEventType = "mute_changed"
	EventCameraSwitch SessionEventType = "camera_switched"
)

// SessionEvent is fanned out to observers of a coordinator.
type SessionEvent struct {
	Type     SessionEventType `json:"event"`
	Snapshot Snapshot         `json:"session"`
	Network  *NetworkEvent    `json:"network,omitempty"`
}
