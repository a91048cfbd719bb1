package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/bustop/internal/config"
	"codeberg.org/mutker/bustop/internal/display"
	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/pid"
	"codeberg.org/mutker/bustop/internal/sampler"
	"codeberg.org/mutker/bustop/internal/source"
	"codeberg.org/mutker/bustop/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		logger.SetLogLevel(logLevelFor(cfg.LogLevel))
	}
	logger.Debug().Msg("Config loaded")
}

func logLevelFor(name string) logger.LogLevel {
	switch name {
	case "debug":
		return logger.DebugLevel
	case "info":
		return logger.InfoLevel
	case "warning":
		return logger.WarnLevel
	default:
		return logger.ErrorLevel
	}
}

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	// A single unbounded monitor per machine; bounded runs may overlap it.
	if cfg.Count == 0 {
		if err := pid.Write(); err != nil {
			return err
		}
		defer func() {
			if err := pid.Remove(); err != nil {
				logger.Error().Err(err).Msg("failed to remove PID file")
			}
		}()
	}

	host, err := source.ReadHostInfo(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to read host info")
		host = metrics.HostInfo{}
	}

	interval := cfg.IntervalDuration()
	engine := sampler.NewEngine(ctx, interval)
	defer engine.Close()

	renderer, err := display.NewRenderer(cfg.Format, os.Stdout, host)
	if err != nil {
		return err
	}

	emitters := []sampler.Emitter{renderer}

	if cfg.Telemetry {
		recorder, err := telemetry.NewRecorder(cfg.TelemetryDB)
		if err != nil {
			return err
		}
		defer func() {
			if err := recorder.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close telemetry database")
			}
		}()
		emitters = append(emitters, telemetry.NewEmitter(ctx, recorder))
	}

	loop, err := sampler.NewLoop(engine, interval, cfg.Count, emitters...)
	if err != nil {
		return err
	}

	logger.Info().
		Int64("interval_ms", interval.Milliseconds()).
		Uint64("count", cfg.Count).
		Str("format", cfg.Format).
		Msg("Starting sampling loop")

	if err := loop.Run(ctx); err != nil {
		return err
	}

	logger.Info().Msg("Exiting...")

	return nil
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
