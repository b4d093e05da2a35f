package orch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/domain"
)

// StartStream issues a connect and moves the session to STREAMING right
// away. The outcome of the connection arrives later as publisher events.
func (c *Coordinator) StartStream(ctx context.Context, url string) (domain.CommandStatus, error) {
	return call(ctx, c, func(respond func(domain.CommandStatus, error)) {
		switch c.State() {
		case domain.StateStreaming:
			c.logger.Info().Uint64("attempt", c.attempt).Msg("already streaming")
			respond(domain.StatusAlreadyStreaming, nil)
			return
		case domain.StatePreviewReady:
		default:
			respond("", domain.ErrNoActiveSession)
			return
		}

		if conn := c.deps.Publisher.State(); conn.Active() {
			c.logger.Warn().Str("connection", conn.String()).Msg("publisher busy, start refused")
			respond("", domain.ErrPublisherBusy)
			return
		}
		attempt, err := c.deps.Publisher.Connect(c.runCtx, url)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyConnected) {
				err = fmt.Errorf("%w: %v", domain.ErrPublisherBusy, err)
			}
			c.logger.Error().Err(err).Msg("connect refused")
			respond("", err)
			return
		}
		c.attempt = attempt
		c.url = url
		c.setState(domain.StateStreaming)
		respond(domain.StatusStarted, nil)
	})
}

// StopStream is a no-op returning not_streaming unless the session streams.
func (c *Coordinator) StopStream(ctx context.Context) (domain.CommandStatus, error) {
	return call(ctx, c, func(respond func(domain.CommandStatus, error)) {
		if c.State() != domain.StateStreaming {
			respond(domain.StatusNotStreaming, nil)
			return
		}
		c.leaveStreaming("stop requested")
		respond(domain.StatusStopped, nil)
	})
}

// leaveStreaming disconnects and returns to PREVIEW_READY, then applies a
// surface destroy that was held back by the stream.
func (c *Coordinator) leaveStreaming(reason string) {
	c.deps.Publisher.Disconnect()
	c.attempt = 0
	c.logger.Info().Str("reason", reason).Msg("stream ended")
	c.setState(domain.StatePreviewReady)
	if c.teardownPending {
		c.beginTeardown(func() {})
	}
}

// SwitchCamera moves the session to the opposite facing. The encoders are
// prepared again for the new device; if that or the device swap fails, the
// previous configuration is restored and the facing is kept.
func (c *Coordinator) SwitchCamera(ctx context.Context) (domain.CommandStatus, error) {
	return call(ctx, c, func(respond func(domain.CommandStatus, error)) {
		if !c.hasSession() {
			respond("", domain.ErrNoActiveSession)
			return
		}
		target := c.facing.Opposite()
		oldDevice, oldCfg := c.device, *c.cfg
		c.async(func(ctx context.Context) func() {
			p, err := c.switchTo(ctx, target)
			if err != nil {
				c.restore(ctx, oldDevice, oldCfg)
			}
			return func() {
				if err != nil {
					c.logger.Error().Err(err).Str("facing", target.String()).Msg("camera switch failed")
					respond("", err)
					return
				}
				c.facing = target
				c.device = p.device
				c.cfg = &p.cfg
				c.logger.Info().Str("facing", target.String()).Str("device", p.device.ID).Msg("camera switched")
				c.notify(domain.EventCameraSwitch, nil)
				respond(domain.StatusSwitched, nil)
			}
		})
	})
}

func (c *Coordinator) switchTo(ctx context.Context, target domain.CameraFacing) (prepared, error) {
	var p prepared
	err := safely("device select", domain.ErrPrepareFailed, func() error {
		device, err := c.deps.Selector.SelectDevice(ctx, target)
		if err != nil {
			return err
		}
		res := c.deps.Selector.SelectResolution(device)
		rotation := app.Rotation(device, c.deps.DisplayRotation)
		p = prepared{device: device, cfg: domain.NewEncoderConfig(res, rotation, c.deps.Encoder)}
		return nil
	})
	if err != nil {
		return p, err
	}
	if err := safely("encoder prepare", domain.ErrPrepareFailed, func() error { return c.deps.Pipeline.Prepare(ctx, p.cfg) }); err != nil {
		return p, err
	}
	err = safely("camera switch", domain.ErrPreviewFailed, func() error { return c.deps.Capture.SwitchCamera(ctx, p.device, p.cfg) })
	return p, err
}

// restore puts the encoders back on the configuration the preview runs with.
func (c *Coordinator) restore(ctx context.Context, device domain.DeviceInfo, cfg domain.EncoderConfig) {
	if got, ok := c.deps.Pipeline.Config(); ok && got == cfg {
		return
	}
	err := safely("encoder prepare", domain.ErrPrepareFailed, func() error { return c.deps.Pipeline.Prepare(ctx, cfg) })
	if err != nil {
		c.logger.Error().Err(err).Str("device", device.ID).Msg("restoring encoders after failed switch")
	}
}

func (c *Coordinator) MuteAudio(ctx context.Context) (domain.CommandStatus, error) {
	return c.setMuted(ctx, true)
}

func (c *Coordinator) UnmuteAudio(ctx context.Context) (domain.CommandStatus, error) {
	return c.setMuted(ctx, false)
}

func (c *Coordinator) setMuted(ctx context.Context, muted bool) (domain.CommandStatus, error) {
	return call(ctx, c, func(respond func(domain.CommandStatus, error)) {
		if !c.hasSession() {
			respond("", domain.ErrNoActiveSession)
			return
		}
		status := domain.StatusUnmuted
		if muted {
			status = domain.StatusMuted
		}
		if c.muted != muted {
			c.muted = muted
			c.deps.Capture.SetAudioMuted(muted)
			c.notify(domain.EventMuteChanged, nil)
		}
		respond(status, nil)
	})
}

func (c *Coordinator) IsMuted(ctx context.Context) (bool, error) {
	return call(ctx, c, func(respond func(bool, error)) {
		if !c.hasSession() {
			respond(false, domain.ErrNoActiveSession)
			return
		}
		respond(c.muted, nil)
	})
}

func (c *Coordinator) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	return call(ctx, c, func(respond func(domain.Snapshot, error)) {
		respond(c.snapshot(), nil)
	})
}
