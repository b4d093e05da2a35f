package core

import (
	"context"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/pion/webrtc/v4/pkg/media"
)

// Surface is a rendering target owned by the adapter that created it.
type Surface interface {
	ID() string
	// WriteVideo renders one preview sample. Headless surfaces drop it.
	WriteVideo(media.Sample) error
}

// CaptureSource drives the camera on behalf of the coordinator.
type CaptureSource interface {
	StartPreview(ctx context.Context, surface Surface, device domain.DeviceInfo, cfg domain.EncoderConfig) error
	StopPreview()
	// SwitchCamera swaps the device under a running preview and, if one is
	// open, under the publisher's connection.
	SwitchCamera(ctx context.Context, device domain.DeviceInfo, cfg domain.EncoderConfig) error
	SetAudioMuted(muted bool)
}

// PacketSource yields encoded media for the publisher. The channel is closed
// when ctx is done.
type PacketSource interface {
	Packets(ctx context.Context) <-chan domain.Packet
}
