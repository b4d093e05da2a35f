package orch

import (
	"context"
	"errors"

	"github.com/dkeye/livecast/internal/core"
	"github.com/dkeye/livecast/internal/domain"
)

// Commands is the entry point for the external command surface and the
// rendering layer. It resolves the live session through the registry.
type Commands struct {
	Registry *Registry
}

func (o *Commands) SurfaceAvailable(ctx context.Context, surface core.Surface, facing domain.CameraFacing) error {
	c, err := o.Registry.GetOrCreate(ctx)
	if err != nil {
		return err
	}
	return c.OnSurfaceAvailable(ctx, surface, facing)
}

// SurfaceDestroyed reports that surfaceID went away. An empty id always
// applies to the bound surface.
func (o *Commands) SurfaceDestroyed(ctx context.Context, surfaceID string) error {
	c, ok := o.Registry.Current()
	if !ok {
		return nil
	}
	return c.OnSurfaceDestroyed(ctx, surfaceID)
}

func (o *Commands) StartStream(ctx context.Context, url string) (domain.CommandStatus, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return "", domain.ErrNoActiveSession
	}
	return c.StartStream(ctx, url)
}

func (o *Commands) StopStream(ctx context.Context) (domain.CommandStatus, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return domain.StatusNotStreaming, nil
	}
	status, err := c.StopStream(ctx)
	if errors.Is(err, domain.ErrNoActiveSession) {
		return domain.StatusNotStreaming, nil
	}
	return status, err
}

func (o *Commands) SwitchCamera(ctx context.Context) (domain.CommandStatus, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return "", domain.ErrNoActiveSession
	}
	return c.SwitchCamera(ctx)
}

func (o *Commands) MuteAudio(ctx context.Context) (domain.CommandStatus, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return "", domain.ErrNoActiveSession
	}
	return c.MuteAudio(ctx)
}

func (o *Commands) UnmuteAudio(ctx context.Context) (domain.CommandStatus, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return "", domain.ErrNoActiveSession
	}
	return c.UnmuteAudio(ctx)
}

func (o *Commands) IsMuted(ctx context.Context) (bool, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return false, domain.ErrNoActiveSession
	}
	return c.IsMuted(ctx)
}

func (o *Commands) Status(ctx context.Context) (domain.Snapshot, error) {
	c, ok := o.Registry.Current()
	if !ok {
		return domain.Snapshot{}, domain.ErrNoActiveSession
	}
	return c.Snapshot(ctx)
}

// ResetSession stops the live session, if any, and replaces it with a fresh
// one waiting for a surface.
func (o *Commands) ResetSession(ctx context.Context) (domain.Snapshot, error) {
	c, err := o.Registry.Replace(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return c.Snapshot(ctx)
}
