// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"testing"
)

func TestMonoMixer_MonoPassthrough(t *testing.T) {
	t.Parallel()

	src := newMockSource(8000, 1, 100, func(int, int) float32 { return 0.5 })
	mixer := NewMonoMixer(src)

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if n != 10 {
		t.Fatalf("ReadSamples() n = %d, want 10", n)
	}
	for i := range n {
		if buf[i] != 0.5 {
			t.Errorf("buf[%d] = %v, want 0.5", i, buf[i])
		}
	}
}

func TestMonoMixer_Averages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		want     float32
	}{
		{"stereo", 2, 0.25},
		{"quad", 4, 0.75},
		{"five", 5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// channel c carries 0.5*c
			src := newMockSource(8000, tt.channels, 20, func(_ int, ch int) float32 {
				return 0.5 * float32(ch)
			})
			mixer := NewMonoMixer(src)

			buf := make([]float32, 20)
			n, err := mixer.ReadSamples(buf)
			if n != 20 {
				t.Fatalf("ReadSamples() = %d, %v; want 20 frames", n, err)
			}
			for i := range n {
				if buf[i] != tt.want {
					t.Fatalf("buf[%d] = %v, want %v", i, buf[i], tt.want)
				}
			}
		})
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	mixer := NewMonoMixer(newSilentSource(8000, 2, 5))

	buf := make([]float32, 10)
	n, err := mixer.ReadSamples(buf)
	if n != 5 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want 5, io.EOF", n, err)
	}

	n, err = mixer.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after EOF = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestMonoMixer_EmptyBuffer(t *testing.T) {
	t.Parallel()

	n, err := NewMonoMixer(newSilentSource(8000, 2, 5)).ReadSamples(nil)
	if n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v; want 0, nil", n, err)
	}
}

func TestMonoMixer_Metadata(t *testing.T) {
	t.Parallel()

	src := newSilentSource(22050, 2, 5)
	mixer := NewMonoMixer(src)

	if mixer.SampleRate() != 22050 || mixer.Channels() != 1 || mixer.Encoding() != Float32 {
		t.Errorf("metadata = %d Hz, %d ch, %v", mixer.SampleRate(), mixer.Channels(), mixer.Encoding())
	}
	if err := mixer.Close(); err != nil || !src.closed {
		t.Errorf("Close() = %v, source closed = %v", err, src.closed)
	}
}

func TestSliceSource(t *testing.T) {
	t.Parallel()

	src := NewSliceSource(8000, 2, []float32{1, 2, 3, 4, 5, 6, 7})

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	if n != 4 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 4, nil", n, err)
	}

	// the trailing half frame is never returned
	n, err = src.ReadSamples(buf)
	if n != 2 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want 2, io.EOF", n, err)
	}
	if buf[0] != 5 || buf[1] != 6 {
		t.Errorf("tail = %v, want [5 6]", buf[:2])
	}

	if _, err := src.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("odd dst error = %v, want ErrInvalidDstSize", err)
	}
}

func TestReadAll_Pipeline(t *testing.T) {
	t.Parallel()

	stereo := make([]float32, 2*8000)
	for i := range 8000 {
		stereo[2*i] = 0.2
		stereo[2*i+1] = 0.4
	}

	out, err := ReadAll(NewMonoMixer(NewResampler(NewSliceSource(8000, 2, stereo), 4000)))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != 4000 {
		t.Fatalf("len = %d, want 4000", len(out))
	}
	for i, v := range out {
		if v < 0.2999 || v > 0.3001 {
			t.Fatalf("out[%d] = %v, want 0.3", i, v)
		}
	}
}

func BenchmarkMonoMixer_StereoToMono(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		mixer := NewMonoMixer(newSineSource(44100, 2, 44100, 440))
		for {
			if _, err := mixer.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
