package orch

import (
	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/domain"
)

// handleNetworkEvent is always applied on the loop. Events from an attempt
// other than the current one are only observed.
func (c *Coordinator) handleNetworkEvent(ev domain.NetworkEvent) {
	logger := c.logger.With().
		Str("kind", string(ev.Kind)).
		Uint64("attempt", ev.Attempt).
		Logger()

	switch ev.Kind {
	case domain.NetFailed, domain.NetAuthError:
		logger.Error().Str("reason", ev.Reason).Msg("network event")
	case domain.NetBitrateChanged:
		logger.Debug().Int64("bps", ev.BitrateBps).Msg("network event")
	default:
		logger.Info().Str("url", ev.URL).Msg("network event")
	}
	c.notify(domain.EventNetwork, &ev)

	if c.attempt == 0 || ev.Attempt != c.attempt {
		logger.Debug().Uint64("current", c.attempt).Msg("stale network event ignored")
		return
	}

	switch c.deps.Policy.OnNetworkEvent(c.State(), ev) {
	case app.RevertToPreview:
		reason := string(ev.Kind)
		if ev.Reason != "" {
			reason += ": " + ev.Reason
		}
		c.leaveStreaming(reason)
	case app.NoAction:
	}
}
