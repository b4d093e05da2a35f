package domain

import "fmt"

// EncoderDefaults holds the encoder knobs that do not depend on the device.
type EncoderDefaults struct {
	FPS               int  `mapstructure:"fps"`
	VideoBitrateBps   int  `mapstructure:"video_bitrate"`
	IFrameIntervalSec int  `mapstructure:"iframe_interval"`
	AudioBitrateBps   int  `mapstructure:"audio_bitrate"`
	SampleRateHz      int  `mapstructure:"sample_rate"`
	Stereo            bool `mapstructure:"stereo"`
}

func DefaultEncoderDefaults() EncoderDefaults {
	return EncoderDefaults{
		FPS:               30,
		VideoBitrateBps:   1200 * 1000,
		IFrameIntervalSec: 2,
		AudioBitrateBps:   128000,
		SampleRateHz:      44100,
		Stereo:            true,
	}
}

// EncoderConfig is fixed for the lifetime of a pipeline. A camera switch
// builds a new value instead of mutating the old one.
type EncoderConfig struct {
	Width             int  `json:"width"`
	Height            int  `json:"height"`
	FPS               int  `json:"fps"`
	VideoBitrateBps   int  `json:"video_bitrate_bps"`
	IFrameIntervalSec int  `json:"iframe_interval_sec"`
	AudioBitrateBps   int  `json:"audio_bitrate_bps"`
	SampleRateHz      int  `json:"sample_rate_hz"`
	Stereo            bool `json:"stereo"`
	RotationDegrees   int  `json:"rotation_degrees"`
}

func NewEncoderConfig(res Resolution, rotation int, d EncoderDefaults) EncoderConfig {
	return EncoderConfig{
		Width:             res.Width,
		Height:            res.Height,
		FPS:               d.FPS,
		VideoBitrateBps:   d.VideoBitrateBps,
		IFrameIntervalSec: d.IFrameIntervalSec,
		AudioBitrateBps:   d.AudioBitrateBps,
		SampleRateHz:      d.SampleRateHz,
		Stereo:            d.Stereo,
		RotationDegrees:   rotation,
	}
}

func (c EncoderConfig) Resolution() Resolution {
	return Resolution{Width: c.Width, Height: c.Height}
}

// EncodedResolution is the frame size the video encoder is configured with.
// Sensors deliver landscape frames, so a 90 or 270 degree rotation swaps the
// requested portrait size back.
func (c EncoderConfig) EncodedResolution() Resolution {
	if c.RotationDegrees == 90 || c.RotationDegrees == 270 {
		return Resolution{Width: c.Height, Height: c.Width}
	}
	return c.Resolution()
}

func (c EncoderConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid resolution %dx%d", c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("invalid fps %d", c.FPS)
	case c.VideoBitrateBps <= 0:
		return fmt.Errorf("invalid video bitrate %d", c.VideoBitrateBps)
	case c.AudioBitrateBps <= 0:
		return fmt.Errorf("invalid audio bitrate %d", c.AudioBitrateBps)
	case c.SampleRateHz <= 0:
		return fmt.Errorf("invalid sample rate %d", c.SampleRateHz)
	}
	switch c.RotationDegrees {
	case 0, 90, 180, 270:
		return nil
	default:
		return fmt.Errorf("invalid rotation %d", c.RotationDegrees)
	}
}
