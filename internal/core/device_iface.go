package core

import (
	"context"

	"github.com/dkeye/livecast/internal/domain"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/dkeye/livecast/internal/core CameraLister,VideoEncoder,AudioEncoder,CaptureSource,Publisher,Surface

// CameraLister enumerates the cameras the capture layer can open.
type CameraLister interface {
	ListCameras(ctx context.Context) ([]domain.DeviceInfo, error)
}
