package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/livecast/internal/adapters/capture"
	router "github.com/dkeye/livecast/internal/adapters/http"
	"github.com/dkeye/livecast/internal/adapters/rtc"
	"github.com/dkeye/livecast/internal/adapters/rtmp"
	sig "github.com/dkeye/livecast/internal/adapters/signal"
	"github.com/dkeye/livecast/internal/app"
	"github.com/dkeye/livecast/internal/app/orch"
	"github.com/dkeye/livecast/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// One capture stack for the process; each session gets its own pipeline,
	// preview binding and publisher on top of it.
	camera := capture.NewLoopback(cfg.Capture)
	hub := sig.NewHub()

	factory := func() *orch.Coordinator {
		selector := app.NewDeviceSelector(camera)
		selector.Fallback = cfg.Camera.Fallback
		return orch.New(orch.Deps{
			Selector:        selector,
			Pipeline:        app.NewEncoderPipeline(camera, camera),
			Preview:         app.NewPreviewBinding(camera),
			Capture:         camera,
			Publisher:       rtmp.NewPublisher(cfg.RTMP, camera),
			Policy:          app.SimplePolicy{},
			Notifier:        hub,
			Encoder:         cfg.Encoder,
			DisplayRotation: cfg.Camera.DisplayRotation,
			RedactURL:       rtmp.Redact,
		})
	}
	registry := orch.NewRegistry(ctx, factory)
	cmds := &orch.Commands{Registry: registry}

	ctrl := sig.NewSignalWSController(
		cmds,
		hub,
		sig.NewCommandRateLimiter(cfg.CommandRate.Limit, cfg.CommandRate.Interval),
		rtc.WebRTCConfig(cfg.ICEServers),
	)
	ctrl.ReadLimit = cfg.ReadLimit
	ctrl.PingPeriod = cfg.PingPeriod

	r := router.SetupRouter(ctx, cfg, cmds, ctrl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("facing", cfg.Facing().String()).Msg("livecast server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := registry.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("session shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
