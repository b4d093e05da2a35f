package app

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/livecast/internal/core/mocks"
	"github.com/dkeye/livecast/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestPreviewBindUnbind(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCaptureSource(ctrl)
	surface := mocks.NewMockSurface(ctrl)
	surface.EXPECT().ID().Return("s1").AnyTimes()

	capture.EXPECT().StartPreview(gomock.Any(), surface, gomock.Any(), gomock.Any()).Return(nil).Times(1)
	capture.EXPECT().StopPreview().Times(1)

	b := NewPreviewBinding(capture)
	if err := b.Bind(context.Background(), surface, domain.DeviceInfo{ID: "0"}, validConfig()); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := b.Bind(context.Background(), surface, domain.DeviceInfo{ID: "0"}, validConfig()); err != nil {
		t.Fatalf("second Bind: %v", err)
	}
	if b.surface == nil || b.surface.ID() != "s1" {
		t.Fatalf("bound surface %v", b.surface)
	}
	b.Unbind()
	b.Unbind()
	if b.surface != nil {
		t.Fatal("still bound")
	}
}

func TestPreviewBindFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	capture := mocks.NewMockCaptureSource(ctrl)
	surface := mocks.NewMockSurface(ctrl)
	capture.EXPECT().StartPreview(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("camera in use"))

	b := NewPreviewBinding(capture)
	err := b.Bind(context.Background(), surface, domain.DeviceInfo{}, validConfig())
	if !errors.Is(err, domain.ErrPreviewFailed) {
		t.Fatalf("expected ErrPreviewFailed, got %v", err)
	}
	if b.surface != nil {
		t.Fatal("bound after failure")
	}
	b.Unbind()
}
