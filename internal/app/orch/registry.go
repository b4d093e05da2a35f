package orch

import (
	"context"
	"sync"

	"github.com/dkeye/livecast/internal/domain"
	"github.com/rs/zerolog/log"
)

// Factory builds a coordinator with its own publisher and pipeline.
type Factory func() *Coordinator

// Registry holds at most one live coordinator so the rendering side and the
// command side reach the same session.
type Registry struct {
	ctx     context.Context
	factory Factory

	mu      sync.Mutex
	current *Coordinator
}

func NewRegistry(ctx context.Context, factory Factory) *Registry {
	return &Registry{ctx: ctx, factory: factory}
}

// GetOrCreate returns the live coordinator, creating one if none exists.
// A coordinator that is tearing down is waited for first.
func (r *Registry) GetOrCreate(ctx context.Context) (*Coordinator, error) {
	for {
		r.mu.Lock()
		c := r.current
		if c == nil {
			c = r.factory()
			r.current = c
			r.mu.Unlock()
			go r.run(c)
			log.Info().Str("module", "orch.registry").Str("session", string(c.ID())).Msg("created session")
			return c, nil
		}
		if !closing(c) {
			r.mu.Unlock()
			return c, nil
		}
		r.mu.Unlock()

		select {
		case <-c.Done():
			r.drop(c)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Current returns the live coordinator without creating one.
func (r *Registry) Current() (*Coordinator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil || closing(r.current) {
		return nil, false
	}
	return r.current, true
}

// Replace shuts the live coordinator down, if any, and installs a new one.
func (r *Registry) Replace(ctx context.Context) (*Coordinator, error) {
	if err := r.Shutdown(ctx); err != nil {
		return nil, err
	}
	return r.GetOrCreate(ctx)
}

// Shutdown stops the live coordinator and waits for it to finish.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	c := r.current
	r.mu.Unlock()
	if c == nil {
		return nil
	}
	if err := c.Shutdown(ctx); err != nil {
		return err
	}
	r.drop(c)
	return nil
}

func (r *Registry) run(c *Coordinator) {
	c.Run(r.ctx)
	r.drop(c)
}

func (r *Registry) drop(c *Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == c {
		r.current = nil
		log.Info().Str("module", "orch.registry").Str("session", string(c.ID())).Msg("released session")
	}
}

func closing(c *Coordinator) bool {
	select {
	case <-c.Done():
		return true
	default:
	}
	s := c.State()
	return s == domain.StateTearingDown || s == domain.StateTerminated
}
