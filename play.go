// SPDX-License-Identifier: EPL-2.0

package soundshader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ik5/soundshader/device"
)

// Play opens the audio device, streams the shader for duration and returns
// the negotiated device configuration. Cancelling ctx ends playback early
// without an error.
func Play(ctx context.Context, desc StreamDescriptor, duration time.Duration) (device.Config, error) {
	cfg := desc.Device
	if cfg == (device.Config{}) {
		cfg = device.DefaultConfig()
	}

	out, err := device.Open(cfg)
	if err != nil {
		return device.Config{}, fmt.Errorf("%w", err)
	}
	cfg = out.Config()

	s, err := NewSession(desc, cfg.SampleRate)
	if err != nil {
		return cfg, err
	}
	defer s.Close()

	if err := s.Start(ctx); err != nil {
		return cfg, err
	}

	player := out.Start(s.Stream().Pull)
	defer player.Close()

	err = wait(ctx, duration)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return cfg, err
	}

	if err := s.Stream().Err(); err != nil {
		return cfg, err
	}

	desc.logger().Info("playback finished",
		"duration", duration,
		"underruns", s.Stream().Underruns(),
		"record_drops", s.Stream().Dropped(),
	)

	return cfg, nil
}
