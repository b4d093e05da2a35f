package capture

import "github.com/dkeye/livecast/internal/domain"

type DeviceConfig struct {
	ID                string              `mapstructure:"id"`
	Label             string              `mapstructure:"label"`
	Facing            string              `mapstructure:"facing"`
	SensorOrientation int                 `mapstructure:"sensor_orientation"`
	Sizes             []domain.Resolution `mapstructure:"sizes"`
}

type Config struct {
	Devices []DeviceConfig `mapstructure:"devices"`
	// FLVPath is replayed as the encoded output of the camera. Empty means
	// the loopback produces no media.
	FLVPath string `mapstructure:"flv_path"`
	Loop    bool   `mapstructure:"loop"`
}

func DefaultDevices() []DeviceConfig {
	return []DeviceConfig{
		{
			ID:                "0",
			Label:             "back camera",
			Facing:            "back",
			SensorOrientation: 90,
			Sizes: []domain.Resolution{
				{Width: 1920, Height: 1080},
				{Width: 1280, Height: 720},
				{Width: 1080, Height: 1920},
				{Width: 720, Height: 1280},
			},
		},
		{
			ID:                "1",
			Label:             "front camera",
			Facing:            "front",
			SensorOrientation: 270,
			Sizes: []domain.Resolution{
				{Width: 1280, Height: 720},
				{Width: 720, Height: 1280},
				{Width: 480, Height: 640},
			},
		},
	}
}

func (d DeviceConfig) info() domain.DeviceInfo {
	facing, _ := domain.ParseFacing(d.Facing)
	label := d.Label
	if label == "" {
		label = facing.String() + " camera " + d.ID
	}
	return domain.DeviceInfo{
		ID:                d.ID,
		Label:             label,
		Facing:            facing,
		SensorOrientation: d.SensorOrientation,
		Sizes:             append([]domain.Resolution(nil), d.Sizes...),
	}
}
