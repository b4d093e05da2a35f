package app

import (
	"context"
	"fmt"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

type DeviceSelector struct {
	Cameras  core.CameraLister
	Fallback domain.Resolution
}

func NewDeviceSelector(cameras core.CameraLister) *DeviceSelector {
	return &DeviceSelector{Cameras: cameras, Fallback: domain.DefaultResolution}
}

// SelectDevice returns the first camera facing the requested way.
func (s *DeviceSelector) SelectDevice(ctx context.Context, facing domain.CameraFacing) (domain.DeviceInfo, error) {
	devices, err := s.Cameras.ListCameras(ctx)
	if err != nil {
		return domain.DeviceInfo{}, fmt.Errorf("list cameras: %w", err)
	}
	for _, d := range devices {
		if d.Facing == facing {
			log.Debug().Str("module", "app.selector").Str("device", d.ID).Str("facing", facing.String()).Msg("device selected")
			return d, nil
		}
	}
	return domain.DeviceInfo{}, fmt.Errorf("%w: %s", domain.ErrDeviceNotFound, facing)
}

// SelectResolution picks the largest portrait size the device reports, or
// the fallback when there is none.
func (s *DeviceSelector) SelectResolution(device domain.DeviceInfo) domain.Resolution {
	var best domain.Resolution
	for _, size := range device.Sizes {
		if !size.Valid() || !size.Portrait() {
			continue
		}
		if size.Area() > best.Area() {
			best = size
		}
	}
	if best.Valid() {
		return best
	}
	if s.Fallback.Valid() {
		return s.Fallback
	}
	return domain.DefaultResolution
}

// Rotation returns the encoder rotation for a device given how the display
// is currently rotated (0, 90, 180 or 270).
func Rotation(device domain.DeviceInfo, displayRotation int) int {
	sensor := normalizeDegrees(device.SensorOrientation)
	display := normalizeDegrees(displayRotation)
	if device.Facing == domain.FacingFront {
		return (360 - (sensor+display)%360) % 360
	}
	return (sensor - display + 360) % 360
}

func normalizeDegrees(d int) int {
	d %= 360
	if d < 0 {
		d += 360
	}
	return d - d%90
}
