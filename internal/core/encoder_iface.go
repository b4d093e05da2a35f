package core

import (
	"context"

	"github.com/dkeye/livecast/internal/domain"
)

// VideoEncoder and AudioEncoder are the codec collaborators. Release must be
// safe on an encoder that was never prepared.
type VideoEncoder interface {
	PrepareVideo(ctx context.Context, cfg domain.EncoderConfig) error
	ReleaseVideo()
}

type AudioEncoder interface {
	PrepareAudio(ctx context.Context, cfg domain.EncoderConfig) error
	ReleaseAudio()
}
