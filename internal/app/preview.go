package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// PreviewBinding ties a live surface to the capture source. It only exists
// while the surface is valid.
type PreviewBinding struct {
	capture core.CaptureSource

	mu      sync.Mutex
	surface core.Surface
}

func NewPreviewBinding(capture core.CaptureSource) *PreviewBinding {
	return &PreviewBinding{capture: capture}
}

func (b *PreviewBinding) Bind(ctx context.Context, surface core.Surface, device domain.DeviceInfo, cfg domain.EncoderConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface != nil {
		log.Warn().Str("module", "app.preview").Str("surface", b.surface.ID()).Msg("already bound, ignoring")
		return nil
	}
	if err := b.capture.StartPreview(ctx, surface, device, cfg); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPreviewFailed, err)
	}
	b.surface = surface
	log.Info().Str("module", "app.preview").Str("surface", surface.ID()).Str("device", device.ID).Msg("preview bound")
	return nil
}

func (b *PreviewBinding) Unbind() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.surface == nil {
		return
	}
	b.capture.StopPreview()
	log.Info().Str("module", "app.preview").Str("surface", b.surface.ID()).Msg("preview unbound")
	b.surface = nil
}
