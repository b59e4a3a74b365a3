// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"context"
	"testing"
	"time"

	"github.com/ik5/soundshader/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopUp(t *testing.T) {
	t.Parallel()

	const rate = 1000

	tests := []struct {
		name     string
		channels int
		queued   int
		want     bool
		wantLeft int
	}{
		{"empty mono", 1, 0, true, HighWatermark * rate},
		{"half second stereo", 2, 500, true, HighWatermark * rate},
		{"just below low", 1, LowWatermark*rate - 1, true, HighWatermark * rate},
		{"at low", 1, LowWatermark * rate, false, LowWatermark * rate},
		{"above high", 2, 4 * rate, false, 4 * rate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewRampSource(rate, tt.channels, 100000, 0.001)
			a, err := New(src, quiet())
			require.NoError(t, err)

			a.Reserve(tt.queued * tt.channels)
			require.Equal(t, tt.queued, a.QueuedFrames())
			reads := src.Reads()

			assert.Equal(t, tt.want, a.TopUp())
			assert.Equal(t, tt.wantLeft, a.QueuedFrames())
			if !tt.want {
				assert.Equal(t, reads, src.Reads(), "no decode above the low watermark")
			}
		})
	}
}

func TestRefill_TopsUpUntilCancel(t *testing.T) {
	t.Parallel()

	const rate = 1000

	var assets []*Asset
	for _, ch := range []int{1, 2, 1} {
		a, err := New(audiotest.NewRampSource(rate, ch, 100000, 0.001), quiet())
		require.NoError(t, err)
		assets = append(assets, a)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		Refill(ctx, assets, time.Millisecond)
	}()

	full := func() bool {
		for _, a := range assets {
			if a.QueuedFrames() != HighWatermark*rate {
				return false
			}
		}
		return true
	}
	require.Eventually(t, full, time.Second, time.Millisecond)

	// drain two assets below the low watermark; the loop must refill them
	assets[0].NextBuffer(1500)
	assets[1].NextBuffer(2500)
	require.Eventually(t, full, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Refill did not return after cancel")
	}
}

func TestRefill_NoAssets(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Refill(context.Background(), nil, time.Hour)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Refill without assets did not return")
	}
}
