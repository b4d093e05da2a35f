// Package domain contains entities without logic, just meta-data
package domain

import (
	"strconv"
	"strings"
)

type CameraFacing int

const (
	FacingBack CameraFacing = iota
	FacingFront
)

func (f CameraFacing) String() string {
	if f == FacingFront {
		return "front"
	}
	return "back"
}

func (f CameraFacing) Opposite() CameraFacing {
	if f == FacingFront {
		return FacingBack
	}
	return FacingFront
}

// ParseFacing normalizes a caller supplied facing. Empty and unknown values
// fall back to the back camera; ok reports whether the value was recognized.
func ParseFacing(s string) (facing CameraFacing, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "front":
		return FacingFront, true
	case "back", "":
		return FacingBack, true
	default:
		return FacingBack, false
	}
}

type Resolution struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// DefaultResolution is used when a device reports no portrait size.
var DefaultResolution = Resolution{Width: 720, Height: 1280}

func (r Resolution) Area() int      { return r.Width * r.Height }
func (r Resolution) Portrait() bool { return r.Height > r.Width }
func (r Resolution) Valid() bool    { return r.Width > 0 && r.Height > 0 }

func (r Resolution) String() string {
	return strconv.Itoa(r.Width) + "x" + strconv.Itoa(r.Height)
}

// DeviceInfo describes one camera as reported by the capture layer.
type DeviceInfo struct {
	ID                string       `json:"id"`
	Label             string       `json:"label"`
	Facing            CameraFacing `json:"facing"`
	SensorOrientation int          `json:"sensor_orientation"`
	Sizes             []Resolution `json:"sizes"`
}
