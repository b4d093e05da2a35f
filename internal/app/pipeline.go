package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// EncoderPipeline prepares and releases the audio and video encoders as one
// unit. Either both are prepared or neither is held.
type EncoderPipeline struct {
	video core.VideoEncoder
	audio core.AudioEncoder

	mu       sync.Mutex
	prepared bool
	cfg      domain.EncoderConfig
}

func NewEncoderPipeline(video core.VideoEncoder, audio core.AudioEncoder) *EncoderPipeline {
	return &EncoderPipeline{video: video, audio: audio}
}

func (p *EncoderPipeline) Prepare(ctx context.Context, cfg domain.EncoderConfig) error {
	if err := cfg.Validate(); err != nil {
		return &domain.PrepareError{Stage: "config", Reason: err}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.prepared {
		p.releaseLocked()
	}

	// Release covers encoders that never got prepared, so a failure on one
	// side can always roll back both.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(prepareStage("video", func() error { return p.video.PrepareVideo(gctx, cfg) }))
	g.Go(prepareStage("audio", func() error { return p.audio.PrepareAudio(gctx, cfg) }))
	if err := g.Wait(); err != nil {
		p.video.ReleaseVideo()
		p.audio.ReleaseAudio()
		log.Error().Err(err).Str("module", "app.pipeline").Msg("prepare failed, encoders released")
		return err
	}

	p.prepared = true
	p.cfg = cfg
	log.Info().
		Str("module", "app.pipeline").
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("fps", cfg.FPS).
		Int("rotation", cfg.RotationDegrees).
		Msg("encoders prepared")
	return nil
}

func (p *EncoderPipeline) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked()
}

func (p *EncoderPipeline) releaseLocked() {
	if !p.prepared {
		return
	}
	p.video.ReleaseVideo()
	p.audio.ReleaseAudio()
	p.prepared = false
	p.cfg = domain.EncoderConfig{}
	log.Info().Str("module", "app.pipeline").Msg("encoders released")
}

func (p *EncoderPipeline) Config() (domain.EncoderConfig, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg, p.prepared
}

// prepareStage runs one encoder prepare on an errgroup goroutine, where a
// panic would otherwise take the process down.
func prepareStage(stage string, prepare func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &domain.PrepareError{Stage: stage, Reason: fmt.Errorf("panic: %v", r)}
			}
		}()
		if err := prepare(); err != nil {
			return &domain.PrepareError{Stage: stage, Reason: err}
		}
		return nil
	}
}
