package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkeye/livecast/internal/adapters/capture"
	"github.com/dkeye/livecast/internal/adapters/rtmp"
	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	// SessionKey encrypts the session cookie; derived from Secret when empty.
	SessionKey string   `mapstructure:"session_key"`
	ICEServers []string `mapstructure:"ice_servers"`
	// DefaultURL is the ingest url used when a start request names none.
	DefaultURL  string                 `mapstructure:"default_url"`
	CommandRate RateConfig             `mapstructure:"command_rate"`
	Camera      CameraConfig           `mapstructure:"camera"`
	Encoder     domain.EncoderDefaults `mapstructure:"encoder"`
	RTMP        rtmp.Config            `mapstructure:"rtmp"`
	Capture     capture.Config         `mapstructure:"capture"`
}

type RateConfig struct {
	Limit    int           `mapstructure:"limit"`
	Interval time.Duration `mapstructure:"interval"`
}

type CameraConfig struct {
	Facing          string            `mapstructure:"facing"`
	DisplayRotation int               `mapstructure:"display_rotation"`
	Fallback        domain.Resolution `mapstructure:"fallback"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "livecast-dev-secret")
	v.SetDefault("session_key", "")
	v.SetDefault("ice_servers", []string{"stun:stun.l.google.com:19302"})
	v.SetDefault("default_url", "")

	v.SetDefault("command_rate.limit", 5)
	v.SetDefault("command_rate.interval", "10s")

	v.SetDefault("camera.facing", "back")
	v.SetDefault("camera.display_rotation", 0)
	v.SetDefault("camera.fallback.width", domain.DefaultResolution.Width)
	v.SetDefault("camera.fallback.height", domain.DefaultResolution.Height)

	enc := domain.DefaultEncoderDefaults()
	v.SetDefault("encoder.fps", enc.FPS)
	v.SetDefault("encoder.video_bitrate", enc.VideoBitrateBps)
	v.SetDefault("encoder.iframe_interval", enc.IFrameIntervalSec)
	v.SetDefault("encoder.audio_bitrate", enc.AudioBitrateBps)
	v.SetDefault("encoder.sample_rate", enc.SampleRateHz)
	v.SetDefault("encoder.stereo", enc.Stereo)

	pub := rtmp.DefaultConfig()
	v.SetDefault("rtmp.chunk_size", pub.ChunkSize)
	v.SetDefault("rtmp.dial_timeout", pub.DialTimeout)
	v.SetDefault("rtmp.handshake_timeout", pub.HandshakeTimeout)
	v.SetDefault("rtmp.bitrate_interval", pub.BitrateInterval)
	v.SetDefault("rtmp.flash_ver", pub.FlashVer)

	v.SetDefault("capture.flv_path", "")
	v.SetDefault("capture.loop", true)
}

// Load reads config/config.<CONFIG_ENV>.yaml. Any key can be overridden from
// the environment as LIVECAST_<SECTION>_<KEY>.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("LIVECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).
		Str("static", cfg.StaticPath).Str("facing", cfg.Camera.Facing).Msg("config ready")
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, ok := domain.ParseFacing(c.Camera.Facing); !ok {
		return fmt.Errorf("camera.facing: unknown value %q", c.Camera.Facing)
	}
	switch c.Camera.DisplayRotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("camera.display_rotation: %d is not a right angle", c.Camera.DisplayRotation)
	}
	if c.DefaultURL != "" {
		if _, err := rtmp.ParseURL(c.DefaultURL); err != nil {
			return fmt.Errorf("default_url: %w", err)
		}
	}
	return nil
}

// Facing is the camera the first surface opens with.
func (c *Config) Facing() domain.CameraFacing {
	f, _ := domain.ParseFacing(c.Camera.Facing)
	return f
}
