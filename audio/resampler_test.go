// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func rampSource(sampleRate, channels, frames int) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(sample int, channel int) float32 {
		return float32(sample)*0.001 + float32(channel)*0.5
	})
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r := NewResampler(newSilentSource(44100, 2, 100), 16000)

	if r.SampleRate() != 16000 {
		t.Errorf("SampleRate() = %d, want 16000", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
	if r.Encoding() != Float32 {
		t.Errorf("Encoding() = %v, want float32", r.Encoding())
	}
}

func TestResampler_SameRate(t *testing.T) {
	t.Parallel()

	out, err := ReadAll(NewResampler(rampSource(8000, 2, 300), 8000))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != 600 {
		t.Fatalf("len = %d, want 600", len(out))
	}

	for f := range 300 {
		for c := range 2 {
			want := float32(f)*0.001 + float32(c)*0.5
			if got := out[2*f+c]; math.Abs(float64(got-want)) > 1e-6 {
				t.Fatalf("frame %d ch %d = %v, want %v", f, c, got, want)
			}
		}
	}
}

func TestResampler_Lengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src, dst int
		frames   int
		want     int
	}{
		{"halve", 16000, 8000, 100, 50},
		{"double", 8000, 16000, 100, 200},
		{"cd to dat", 44100, 48000, 440, 479},
		{"dat to cd", 48000, 44100, 479, 441},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := ReadAll(NewResampler(newSilentSource(tt.src, 1, tt.frames), tt.dst))
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}
}

func TestResampler_Interpolates(t *testing.T) {
	t.Parallel()

	out, err := ReadAll(NewResampler(rampSource(8000, 1, 100), 32000))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != 400 {
		t.Fatalf("len = %d, want 400", len(out))
	}

	// away from the repeated edge frames the cubic follows the ramp exactly
	for j := 4; j < 4*98; j++ {
		want := float32(j) * 0.00025
		if math.Abs(float64(out[j]-want)) > 1e-6 {
			t.Fatalf("out[%d] = %v, want %v", j, out[j], want)
		}
	}

	// source frames themselves are hit exactly, edges included
	for _, f := range []int{0, 1, 98, 99} {
		if got, want := out[4*f], float32(f)*0.001; math.Abs(float64(got-want)) > 1e-6 {
			t.Errorf("out[%d] = %v, want frame %d = %v", 4*f, got, f, want)
		}
	}

	// the tail settles on the last frame
	if got := out[len(out)-1]; math.Abs(float64(got-0.099)) > 1e-4 {
		t.Errorf("tail = %v, want about 0.099", got)
	}
}

func TestResampler_CubicCurvature(t *testing.T) {
	t.Parallel()

	// a parabola is reproduced between samples, which linear interpolation
	// would flatten into chords
	f := func(n float64) float64 { return 0.0001 * n * n }
	src := newMockSource(1000, 1, 50, func(sample int, _ int) float32 {
		return float32(f(float64(sample)))
	})

	out, err := ReadAll(NewResampler(src, 2000))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	for j := 2; j < 2*47; j++ {
		want := f(float64(j) / 2)
		if math.Abs(float64(out[j])-want) > 1e-6 {
			t.Fatalf("out[%d] = %v, want %v", j, out[j], want)
		}
	}
}

func TestResampler_SinePreserved(t *testing.T) {
	t.Parallel()

	const freq = 200.0
	out, err := ReadAll(NewResampler(newSineSource(48000, 1, 48000, freq), 44100))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	for j := range len(out) - 1 {
		want := math.Sin(2 * math.Pi * freq * float64(j) / 44100)
		if math.Abs(float64(out[j])-want) > 1e-3 {
			t.Fatalf("out[%d] = %v, want %v", j, out[j], want)
		}
	}
}

func TestResampler_EOF(t *testing.T) {
	t.Parallel()

	r := NewResampler(newSilentSource(8000, 2, 10), 8000)

	buf := make([]float32, 64)
	n, err := r.ReadSamples(buf)
	if n != 20 || !errors.Is(err, io.EOF) {
		t.Fatalf("ReadSamples() = %d, %v; want 20, io.EOF", n, err)
	}

	n, err = r.ReadSamples(buf)
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() after EOF = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	n, err := NewResampler(newSilentSource(8000, 1, 0), 16000).ReadSamples(make([]float32, 8))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() = %d, %v; want 0, io.EOF", n, err)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	_, err := NewResampler(newSilentSource(8000, 2, 10), 16000).ReadSamples(make([]float32, 3))
	if !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_ChunkingInvariant(t *testing.T) {
	t.Parallel()

	whole, err := ReadAll(NewResampler(rampSource(44100, 2, 1000), 48000))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	r := NewResampler(rampSource(44100, 2, 1000), 48000)
	var pieces []float32
	buf := make([]float32, 6)
	for {
		n, err := r.ReadSamples(buf)
		pieces = append(pieces, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	if len(pieces) != len(whole) {
		t.Fatalf("chunked len = %d, whole len = %d", len(pieces), len(whole))
	}
	for i := range whole {
		if pieces[i] != whole[i] {
			t.Fatalf("sample %d: chunked %v, whole %v", i, pieces[i], whole[i])
		}
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := newSilentSource(8000, 1, 10)
	if err := NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.closed {
		t.Error("Close() did not close the source")
	}
}

func BenchmarkResampler_Stereo(b *testing.B) {
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		r := NewResampler(newSineSource(44100, 2, 44100, 440), 48000)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
