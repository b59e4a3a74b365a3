// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"context"
	"time"
)

// Queue targets for the refill loop, in seconds of asset audio.
const (
	LowWatermark  = 2
	HighWatermark = 3
)

// DefaultRefillPeriod is the wake interval of Refill.
const DefaultRefillPeriod = 100 * time.Millisecond

// TopUp decodes enough to bring the queue back to HighWatermark seconds when
// it has fallen below LowWatermark. It reports whether anything was decoded.
func (a *Asset) TopUp() bool {
	rate := a.spec.SampleRate
	queued := a.QueuedFrames()
	if queued >= LowWatermark*rate {
		return false
	}

	a.Reserve((HighWatermark*rate - queued) * a.spec.Channels)
	return true
}

// Refill keeps every asset topped up until ctx is done. A single goroutine
// serves all assets of a stream.
func Refill(ctx context.Context, assets []*Asset, period time.Duration) {
	if len(assets) == 0 {
		return
	}
	if period <= 0 {
		period = DefaultRefillPeriod
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		for _, a := range assets {
			a.TopUp()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
