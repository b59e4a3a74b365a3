// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ik5/soundshader/audio"
	"github.com/ik5/soundshader/formats/wav"
	"github.com/ik5/soundshader/internal/audiotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestNew_RejectsChannelCounts(t *testing.T) {
	t.Parallel()

	for _, ch := range []int{0, 3, 6} {
		src := audiotest.NewSilentSource(44100, ch, 10)
		_, err := New(src, quiet())
		assert.ErrorIs(t, err, audio.ErrUnsupportedChannels, "channels=%d", ch)
	}
}

func TestNew_Spec(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(22050, 2, 10).WithEncoding(audio.PCM24)
	a, err := New(src, quiet())
	require.NoError(t, err)

	assert.Equal(t, Spec{SampleRate: 22050, Channels: 2, Encoding: audio.PCM24}, a.Spec())
	assert.Equal(t, 2205, a.WindowFrames())
	assert.Zero(t, a.QueuedFrames())
	assert.Zero(t, a.SpectralFrames())

	require.NoError(t, a.Close())
	assert.True(t, src.Closed())
}

func TestReserve_ZeroPadsAfterEOF(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewRampSource(1000, 2, 3, 0.1), quiet())
	require.NoError(t, err)

	a.Reserve(10)
	require.Equal(t, 5, a.QueuedFrames())

	texels, short := a.NextBuffer(5)
	assert.Zero(t, short)

	want := [][2]float32{{0, 1}, {0.1, 1.1}, {0.2, 1.2}, {0, 0}, {0, 0}}
	for i, w := range want {
		assert.InDelta(t, w[0], texels[i].L, 1e-6, "frame %d L", i)
		assert.InDelta(t, w[1], texels[i].R, 1e-6, "frame %d R", i)
	}

	// exhausted sources keep producing silence
	a.Reserve(2000)
	texels, short = a.NextBuffer(1000)
	assert.Zero(t, short)
	for _, tx := range texels {
		assert.Zero(t, tx.L)
		assert.Zero(t, tx.R)
	}
}

func TestReserve_RoundsUpToWholeFrames(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewSilentSource(1000, 2, 100), quiet())
	require.NoError(t, err)

	a.Reserve(3)
	assert.Equal(t, 2, a.QueuedFrames())
}

func TestNextBuffer_MonoRightSilent(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewRampSource(1000, 1, 100, 0.01), quiet())
	require.NoError(t, err)

	a.Reserve(4)
	texels, short := a.NextBuffer(4)
	require.Zero(t, short)
	require.Len(t, texels, 4)

	for i, tx := range texels {
		assert.InDelta(t, float32(i)*0.01, tx.L, 1e-6)
		assert.Zero(t, tx.R)
	}
}

func TestNextBuffer_FIFOOrder(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewRampSource(1000, 1, 1000, 1), quiet())
	require.NoError(t, err)

	a.Reserve(100)

	first, _ := a.NextBuffer(30)
	second, _ := a.NextBuffer(30)
	assert.Equal(t, float32(29), first[29].L)
	assert.Equal(t, float32(30), second[0].L)
	assert.Equal(t, 40, a.QueuedFrames())

	peek := a.Lookahead(2)
	require.Len(t, peek, 2)
	assert.Equal(t, float32(60), peek[0].L)
	assert.Equal(t, float32(61), peek[1].L)
	assert.Equal(t, 40, a.QueuedFrames(), "Lookahead must not consume")
}

func TestNextBuffer_UnderrunWarns(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))

	src := audiotest.NewRampSource(1000, 1, 1000, 1)
	a, err := New(src, WithLogger(logger))
	require.NoError(t, err)

	a.Reserve(100)
	texels, short := a.NextBuffer(250)
	assert.Equal(t, 150, short)
	assert.Equal(t, float32(249), texels[249].L)
	assert.Positive(t, src.Reads())
	assert.Contains(t, logs.String(), "asset underrun")
	assert.Contains(t, logs.String(), "queued=100")

	logs.Reset()
	a.Reserve(50)
	_, short = a.NextBuffer(50)
	assert.Zero(t, short)
	assert.Empty(t, logs.String(), "queued frames are not an underrun")
}

func TestLookahead_EmptyQueue(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewRampSource(1000, 2, 10, 1), quiet())
	require.NoError(t, err)

	tx := a.Lookahead(2)
	require.Len(t, tx, 2)
	assert.Equal(t, float32(0), tx[0].L)
	assert.Equal(t, float32(1), tx[0].R)
	assert.Equal(t, float32(1), tx[1].L)
	assert.Equal(t, float32(2), tx[1].R)
	assert.Equal(t, 2, a.QueuedFrames())
	assert.Nil(t, a.Lookahead(0))
}

// failingSource errors on the second read.
type failingSource struct {
	*audiotest.MockSource
	calls int
}

func (f *failingSource) ReadSamples(dst []float32) (int, error) {
	f.calls++
	if f.calls > 1 {
		return 0, errors.New("disk on fire")
	}
	return f.MockSource.ReadSamples(dst[:2])
}

func TestReserve_ReadErrorBecomesSilence(t *testing.T) {
	t.Parallel()

	src := &failingSource{MockSource: audiotest.NewRampSource(1000, 1, 100, 1)}
	a, err := New(src, quiet())
	require.NoError(t, err)

	a.Reserve(5)
	texels, short := a.NextBuffer(5)
	assert.Zero(t, short)
	assert.Equal(t, []float32{0, 1, 0, 0, 0}, []float32{texels[0].L, texels[1].L, texels[2].L, texels[3].L, texels[4].L})

	// no retries after the failure
	a.Reserve(5)
	assert.Equal(t, 2, src.calls)
}

func TestSpectrum_WindowAligned(t *testing.T) {
	t.Parallel()

	// 100 Hz asset: 10-frame windows
	a, err := New(audiotest.NewRampSource(100, 2, 1000, 0.01), quiet())
	require.NoError(t, err)
	require.Equal(t, 10, a.WindowFrames())

	a.Reserve(2 * 9)
	assert.Equal(t, 9, a.QueuedFrames())
	assert.Zero(t, a.SpectralFrames(), "no complete window yet")

	a.Reserve(2 * 16)
	assert.Equal(t, 25, a.QueuedFrames())
	assert.Equal(t, 20, a.SpectralFrames())
	assert.LessOrEqual(t, a.SpectralFrames(), a.QueuedFrames())
}

func TestSpectrum_DropsConsumedFrames(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewRampSource(100, 1, 1000, 0.01), quiet())
	require.NoError(t, err)

	// consume 15 frames while the second window is incomplete
	a.Reserve(15)
	texels, _ := a.NextBuffer(15)
	assert.NotZero(t, texels[0].Re, "first window analyzed")
	assert.Zero(t, texels[12].Re, "second window not analyzed yet")
	assert.Zero(t, texels[12].Im)

	a.Reserve(10)
	assert.Equal(t, 10, a.QueuedFrames())
	// only frames 15..19 of window [10,20) are still queued
	assert.Equal(t, 5, a.SpectralFrames())
}

func TestTransform_MatchesDFT(t *testing.T) {
	t.Parallel()

	window := []float32{1, 0, 0.5, -0.5, 0, 1, -1, 0.25}
	bins := transform(window, 2)
	require.Len(t, bins, 4)

	for k := range 4 {
		var want complex128
		for n := range 4 {
			x := complex(float64(window[2*n]), float64(window[2*n+1]))
			angle := -2 * math.Pi * float64(k*n) / 4
			want += x * complex(math.Cos(angle), math.Sin(angle))
		}
		assert.InDelta(t, real(want), float64(real(bins[k])), 1e-5, "bin %d re", k)
		assert.InDelta(t, imag(want), float64(imag(bins[k])), 1e-5, "bin %d im", k)
	}
}

func TestTransform_MonoDC(t *testing.T) {
	t.Parallel()

	bins := transform([]float32{0.5, 0.5, 0.5, 0.5}, 1)
	assert.InDelta(t, 2.0, float64(real(bins[0])), 1e-6)
	for _, b := range bins[1:] {
		assert.InDelta(t, 0, float64(real(b)), 1e-6)
		assert.InDelta(t, 0, float64(imag(b)), 1e-6)
	}
}

func TestAsset_ConcurrentReserveAndNext(t *testing.T) {
	t.Parallel()

	a, err := New(audiotest.NewRampSource(1000, 1, 100000, 1), quiet())
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 50 {
			a.Reserve(500)
		}
	}()

	next := float32(0)
	for range 50 {
		texels, _ := a.NextBuffer(200)
		for _, tx := range texels {
			require.Equal(t, next, tx.L)
			next++
		}
	}
	wg.Wait()
}

func TestOpen(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "nope.wav"), reg, quiet())
		assert.ErrorIs(t, err, ErrAssetMissing)
	})

	t.Run("unknown extension", func(t *testing.T) {
		t.Parallel()

		_, err := Open("sound.flac", reg, quiet())
		assert.ErrorIs(t, err, audio.ErrUnknownFormat)
	})

	t.Run("four channels rejected", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "quad.wav")
		data := audiotest.WAVBytes(audio.PCM16, 8000, 4, make([]float32, 16))
		require.NoError(t, os.WriteFile(path, data, 0o600))

		_, err := Open(path, reg, quiet())
		assert.ErrorIs(t, err, audio.ErrUnsupportedChannels)
	})
}

func TestOpen_DecodeEquivalence(t *testing.T) {
	t.Parallel()

	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})

	for _, enc := range []audio.Encoding{audio.PCM8, audio.PCM16, audio.PCM24, audio.PCM32, audio.Float32, audio.Float64} {
		t.Run(enc.String(), func(t *testing.T) {
			t.Parallel()

			const rate, frames = 8000, 3000
			ref := make([]float32, frames*2)
			for i := range frames {
				ref[2*i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / rate))
				ref[2*i+1] = float32(math.Cos(2*math.Pi*220*float64(i)/rate)) * 0.5
			}

			data := audiotest.WAVBytes(enc, rate, 2, ref)
			path := filepath.Join(t.TempDir(), "ref.wav")
			require.NoError(t, os.WriteFile(path, data, 0o600))

			// reference decode straight from the bytes
			want := make([]float32, len(ref))
			n := enc.Decode(data[44:], want)
			require.Equal(t, len(ref), n)

			a, err := Open(path, reg, quiet())
			require.NoError(t, err)
			defer a.Close()

			a.Reserve(2 * frames)
			texels, short := a.NextBuffer(frames)
			require.Zero(t, short)
			for i, tx := range texels {
				assert.InDelta(t, want[2*i], tx.L, 0.01)
				assert.InDelta(t, want[2*i+1], tx.R, 0.01)
				assert.InDelta(t, ref[2*i], tx.L, 0.01)
			}
		})
	}
}

func BenchmarkAsset_Reserve(b *testing.B) {
	data := audiotest.WAVBytes(audio.PCM16, 44100, 2, make([]float32, 44100*2))

	b.ReportAllocs()

	for b.Loop() {
		src, _ := wav.Decoder{}.Decode(bytes.NewReader(data))
		a, _ := New(src, quiet())
		a.Reserve(44100 * 2)
	}
}
