package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dkeye/livecast/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 8080 || cfg.Mode != "release" {
		t.Fatalf("unexpected server defaults %+v", cfg)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("unexpected ping period %v", cfg.PingPeriod)
	}
	if cfg.Encoder != domain.DefaultEncoderDefaults() {
		t.Fatalf("unexpected encoder defaults %+v", cfg.Encoder)
	}
	if cfg.Camera.Fallback != domain.DefaultResolution {
		t.Fatalf("unexpected fallback %+v", cfg.Camera.Fallback)
	}
	if cfg.Facing() != domain.FacingBack {
		t.Fatalf("default facing should be back")
	}
	if cfg.RTMP.ChunkSize != 128 || cfg.RTMP.DialTimeout != 10*time.Second {
		t.Fatalf("unexpected rtmp defaults %+v", cfg.RTMP)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
mode: debug
port: 9000
default_url: rtmp://ingest.example.com/live/abcd
camera:
  facing: front
  display_rotation: 90
encoder:
  fps: 24
rtmp:
  dial_timeout: 3s
capture:
  flv_path: /tmp/sample.flv
  devices:
    - id: "7"
      facing: front
      sensor_orientation: 270
      sizes:
        - {width: 480, height: 640}
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 9000 {
		t.Fatalf("unexpected server %+v", cfg)
	}
	if cfg.Facing() != domain.FacingFront || cfg.Camera.DisplayRotation != 90 {
		t.Fatalf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Encoder.FPS != 24 || cfg.Encoder.SampleRateHz != 44100 {
		t.Fatalf("unexpected encoder %+v", cfg.Encoder)
	}
	if cfg.RTMP.DialTimeout != 3*time.Second {
		t.Fatalf("unexpected dial timeout %v", cfg.RTMP.DialTimeout)
	}
	if len(cfg.Capture.Devices) != 1 || cfg.Capture.Devices[0].Sizes[0] != (domain.Resolution{Width: 480, Height: 640}) {
		t.Fatalf("unexpected devices %+v", cfg.Capture.Devices)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("LIVECAST_PORT", "7070")
	t.Setenv("LIVECAST_CAMERA_FACING", "FRONT")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != 7070 || cfg.Facing() != domain.FacingFront {
		t.Fatalf("env override ignored: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	for _, body := range []string{
		"camera:\n  facing: sideways\n",
		"camera:\n  display_rotation: 45\n",
		"default_url: http://example.com/live/key\n",
	} {
		if _, err := LoadFile(writeConfig(t, body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}
