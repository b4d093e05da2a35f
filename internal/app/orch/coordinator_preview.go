package orch

import (
	"context"
	"errors"

	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
)

type prepared struct {
	device domain.DeviceInfo
	cfg    domain.EncoderConfig
}

// OnSurfaceAvailable runs device select, encoder prepare and preview start
// once. A second delivery while bound is a no-op.
func (c *Coordinator) OnSurfaceAvailable(ctx context.Context, surface core.Surface, facing domain.CameraFacing) error {
	_, err := call(ctx, c, func(respond func(struct{}, error)) {
		switch c.State() {
		case domain.StatePreviewReady, domain.StateStreaming:
			if c.teardownPending {
				c.rebindSurface(surface, respond)
				return
			}
			c.logger.Info().Str("surface", surface.ID()).Msg("surface already bound, ignoring")
			respond(struct{}{}, nil)
		case domain.StateUninitialized:
			c.facing = facing
			muted := c.muted
			c.async(func(ctx context.Context) func() {
				p, err := c.prepare(ctx, surface, facing, muted)
				return func() {
					if err != nil {
						c.logger.Error().Err(err).Str("facing", facing.String()).Msg("preview setup aborted")
						respond(struct{}{}, err)
						return
					}
					c.device = p.device
					c.cfg = &p.cfg
					c.surfaceID = surface.ID()
					c.setState(domain.StatePreviewReady)
					respond(struct{}{}, nil)
				}
			})
		default:
			respond(struct{}{}, domain.ErrNoActiveSession)
		}
	})
	return err
}

func (c *Coordinator) prepare(ctx context.Context, surface core.Surface, facing domain.CameraFacing, muted bool) (prepared, error) {
	var p prepared
	err := safely("device select", domain.ErrPrepareFailed, func() error {
		device, err := c.deps.Selector.SelectDevice(ctx, facing)
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
		c.release()
		return p, err
	}

	err = safely("preview start", domain.ErrPreviewFailed, func() error {
		c.deps.Capture.SetAudioMuted(muted)
		return c.deps.Preview.Bind(ctx, surface, p.device, p.cfg)
	})
	if err != nil {
		c.release()
		return p, err
	}
	return p, nil
}

// rebindSurface handles a surface that comes back while a destroy is still
// deferred behind an active stream.
func (c *Coordinator) rebindSurface(surface core.Surface, respond func(struct{}, error)) {
	c.teardownPending = false
	device, cfg := c.device, *c.cfg
	c.async(func(ctx context.Context) func() {
		err := safely("preview rebind", domain.ErrPreviewFailed, func() error {
			c.deps.Preview.Unbind()
			return c.deps.Preview.Bind(ctx, surface, device, cfg)
		})
		return func() {
			if err != nil {
				c.logger.Error().Err(err).Str("surface", surface.ID()).Msg("preview rebind failed")
				c.teardownPending = true
				respond(struct{}{}, err)
				return
			}
			c.surfaceID = surface.ID()
			c.logger.Info().Str("surface", surface.ID()).Msg("preview rebound")
			respond(struct{}{}, nil)
		}
	})
}

// OnSurfaceDestroyed tears the session down unless it is streaming, in which
// case teardown waits for the stream to end.
// A non-empty surfaceID must match the bound surface, otherwise the call is a
// no-op.
func (c *Coordinator) OnSurfaceDestroyed(ctx context.Context, surfaceID string) error {
	_, err := call(ctx, c, func(respond func(struct{}, error)) {
		if surfaceID != "" && surfaceID != c.surfaceID {
			c.logger.Debug().Str("surface", surfaceID).Str("bound", c.surfaceID).Msg("stale surface destroyed, ignoring")
			respond(struct{}{}, nil)
			return
		}
		switch c.State() {
		case domain.StateStreaming:
			c.teardownPending = true
			c.logger.Info().Msg("surface destroyed while streaming, teardown deferred")
			respond(struct{}{}, nil)
		case domain.StatePreviewReady:
			c.beginTeardown(func() { respond(struct{}{}, nil) })
		default:
			c.logger.Debug().Str("state", c.State().String()).Msg("surface destroyed with nothing bound")
			respond(struct{}{}, nil)
		}
	})
	return err
}

// Shutdown stops any stream and releases the session.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	_, err := call(ctx, c, func(respond func(struct{}, error)) {
		switch c.State() {
		case domain.StateStreaming:
			c.deps.Publisher.Disconnect()
			c.attempt = 0
			c.beginTeardown(func() { respond(struct{}{}, nil) })
		case domain.StatePreviewReady:
			c.beginTeardown(func() { respond(struct{}{}, nil) })
		case domain.StateUninitialized:
			c.setState(domain.StateTerminated)
			respond(struct{}{}, nil)
		default:
			respond(struct{}{}, nil)
		}
	})
	if err != nil && !errors.Is(err, domain.ErrNoActiveSession) {
		return err
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) beginTeardown(then func()) {
	c.teardownPending = false
	c.setState(domain.StateTearingDown)
	c.async(func(ctx context.Context) func() {
		c.release()
		return func() {
			c.cfg = nil
			c.surfaceID = ""
			c.setState(domain.StateTerminated)
			then()
		}
	})
}
