// SPDX-License-Identifier: EPL-2.0

// Command soundshader plays a GLSL sound shader on the default audio device
// or renders it to a WAV file.
//
//	soundshader -shader tone.glsl -asset loop.wav -duration 30s
//	soundshader -shader tone.glsl -out tone.wav -rate 44100 -duration 10s
//	soundshader -config play.json -record take.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/soundshader"
	"github.com/ik5/soundshader/internal/config"
	"github.com/ik5/soundshader/internal/logging"
	"github.com/ik5/soundshader/playback"
)

func main() {
	cfg, err := config.Load(os.Args[0], os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("soundshader failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	source, err := os.ReadFile(cfg.ShaderPath)
	if err != nil {
		return fmt.Errorf("read shader: %w", err)
	}

	desc := soundshader.StreamDescriptor{
		Source: string(source),
		Assets: cfg.Assets,
		Logger: logger,
	}
	export := soundshader.ExportOptions{
		SampleRate: cfg.ExportRate,
		Mono:       cfg.Mono,
		BitDepth:   cfg.BitDepth,
	}

	if cfg.Output != "" {
		samples, err := soundshader.RenderBuffer(desc, cfg.SampleRate, cfg.Duration)
		if err != nil {
			return err
		}
		if err := soundshader.Export(cfg.Output, samples, cfg.SampleRate, export); err != nil {
			return err
		}
		logger.Info("rendered", "path", cfg.Output, "frames", len(samples)/2, "rate", cfg.SampleRate)
		return nil
	}

	if cfg.Record != "" {
		desc.Record = playback.NewRecordSink()
	}

	dev, err := soundshader.Play(ctx, desc, cfg.Duration)
	if err != nil {
		return err
	}

	if desc.Record != nil {
		if err := soundshader.Export(cfg.Record, desc.Record.Samples(), dev.SampleRate, export); err != nil {
			return err
		}
		logger.Info("recorded", "path", cfg.Record, "frames", desc.Record.Len()/2, "rate", dev.SampleRate)
	}

	return nil
}
