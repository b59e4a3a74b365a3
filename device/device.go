// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ErrChannelCount rejects output configurations that are not stereo.
var ErrChannelCount = errors.New("output device must have 2 channels")

// ErrSampleRate rejects non-positive sample rates.
var ErrSampleRate = errors.New("sample rate must be positive")

// Config is the negotiated output format. Samples are always float32.
type Config struct {
	SampleRate int
	Channels   int
	// BufferSize is the device-side buffer; zero lets oto decide.
	BufferSize time.Duration
}

// DefaultConfig is 48 kHz stereo.
func DefaultConfig() Config {
	return Config{SampleRate: 48000, Channels: 2}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%d: %w", c.SampleRate, ErrSampleRate)
	}
	if c.Channels != 2 {
		return fmt.Errorf("%d channels: %w", c.Channels, ErrChannelCount)
	}
	return nil
}

// Output is an open audio device. oto allows one context per process, so
// Open must only be called once.
type Output struct {
	ctx *oto.Context
	cfg Config
}

// Open negotiates cfg with the system audio device and waits until it is
// ready.
func Open(cfg Config) (*Output, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   cfg.BufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready

	slog.Info("audio device ready", "sample_rate", cfg.SampleRate, "channels", cfg.Channels)

	return &Output{ctx: ctx, cfg: cfg}, nil
}

func (o *Output) Config() Config { return o.cfg }

// Start begins playback, pulling samples from pull on oto's goroutine.
// pull must not block.
func (o *Output) Start(pull func(n int) []float32) *oto.Player {
	p := o.ctx.NewPlayer(NewReader(pull))
	p.Play()
	return p
}

// Err reports an asynchronous device failure.
func (o *Output) Err() error {
	if err := o.ctx.Err(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
