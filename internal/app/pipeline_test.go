package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/livecast/internal/core/mocks"
	"github.com/dkeye/livecast/internal/domain"
	"go.uber.org/mock/gomock"
)

func validConfig() domain.EncoderConfig {
	return domain.NewEncoderConfig(domain.DefaultResolution, 90, domain.DefaultEncoderDefaults())
}

func TestPipelinePrepareRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	video := mocks.NewMockVideoEncoder(ctrl)
	audio := mocks.NewMockAudioEncoder(ctrl)
	cfg := validConfig()

	video.EXPECT().PrepareVideo(gomock.Any(), cfg).Return(nil)
	audio.EXPECT().PrepareAudio(gomock.Any(), cfg).Return(nil)
	video.EXPECT().ReleaseVideo().Times(1)
	audio.EXPECT().ReleaseAudio().Times(1)

	p := NewEncoderPipeline(video, audio)
	if err := p.Prepare(context.Background(), cfg); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if got, ok := p.Config(); !ok || got != cfg {
		t.Fatalf("Config: %+v %v", got, ok)
	}
	p.Release()
	p.Release()
	if _, ok := p.Config(); ok {
		t.Fatal("still prepared after release")
	}
}

func TestPipelinePartialFailureReleasesBoth(t *testing.T) {
	ctrl := gomock.NewController(t)
	video := mocks.NewMockVideoEncoder(ctrl)
	audio := mocks.NewMockAudioEncoder(ctrl)
	boom := errors.New("no such codec")

	video.EXPECT().PrepareVideo(gomock.Any(), gomock.Any()).Return(nil)
	audio.EXPECT().PrepareAudio(gomock.Any(), gomock.Any()).Return(boom)
	video.EXPECT().ReleaseVideo().Times(1)
	audio.EXPECT().ReleaseAudio().Times(1)

	p := NewEncoderPipeline(video, audio)
	err := p.Prepare(context.Background(), validConfig())
	if !errors.Is(err, domain.ErrPrepareFailed) || !errors.Is(err, boom) {
		t.Fatalf("expected prepare error wrapping cause, got %v", err)
	}
	var pe *domain.PrepareError
	if !errors.As(err, &pe) || pe.Stage != "audio" {
		t.Fatalf("expected audio stage, got %v", err)
	}
	if _, ok := p.Config(); ok {
		t.Fatal("prepared after failure")
	}
	p.Release()
}

func TestPipelineInvalidConfig(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := NewEncoderPipeline(mocks.NewMockVideoEncoder(ctrl), mocks.NewMockAudioEncoder(ctrl))
	cfg := validConfig()
	cfg.RotationDegrees = 45
	err := p.Prepare(context.Background(), cfg)
	var pe *domain.PrepareError
	if !errors.As(err, &pe) || pe.Stage != "config" {
		t.Fatalf("expected config stage error, got %v", err)
	}
}

func TestPipelineReprepareReleasesFirst(t *testing.T) {
	ctrl := gomock.NewController(t)
	video := mocks.NewMockVideoEncoder(ctrl)
	audio := mocks.NewMockAudioEncoder(ctrl)

	gomock.InOrder(
		video.EXPECT().PrepareVideo(gomock.Any(), gomock.Any()).Return(nil),
		video.EXPECT().ReleaseVideo(),
		video.EXPECT().PrepareVideo(gomock.Any(), gomock.Any()).Return(nil),
	)
	gomock.InOrder(
		audio.EXPECT().PrepareAudio(gomock.Any(), gomock.Any()).Return(nil),
		audio.EXPECT().ReleaseAudio(),
		audio.EXPECT().PrepareAudio(gomock.Any(), gomock.Any()).Return(nil),
	)

	p := NewEncoderPipeline(video, audio)
	if err := p.Prepare(context.Background(), validConfig()); err != nil {
		t.Fatal(err)
	}
	if err := p.Prepare(context.Background(), validConfig()); err != nil {
		t.Fatal(err)
	}
}

func TestPipelineEncoderPanicReleasesBoth(t *testing.T) {
	ctrl := gomock.NewController(t)
	video := mocks.NewMockVideoEncoder(ctrl)
	audio := mocks.NewMockAudioEncoder(ctrl)

	video.EXPECT().PrepareVideo(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.EncoderConfig) error { panic("driver crashed") })
	audio.EXPECT().PrepareAudio(gomock.Any(), gomock.Any()).Return(nil)
	video.EXPECT().ReleaseVideo().Times(1)
	audio.EXPECT().ReleaseAudio().Times(1)

	p := NewEncoderPipeline(video, audio)
	err := p.Prepare(context.Background(), validConfig())
	var pe *domain.PrepareError
	if !errors.As(err, &pe) || pe.Stage != "video" || !errors.Is(err, domain.ErrPrepareFailed) {
		t.Fatalf("expected video prepare error, got %v", err)
	}
	if _, ok := p.Config(); ok {
		t.Fatal("prepared after panic")
	}
}
