// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/soundshader/utils"
)

// Writer encodes normalized float32 samples as integer PCM WAV.
// Samples outside [-1, 1] are clamped.
type Writer struct {
	enc      *gowav.Encoder
	buf      *goaudio.IntBuffer
	bitDepth int
}

// NewWriter prepares a PCM WAV writer. bitDepth must be 16, 24 or 32.
// The header is finalized by Close, which needs w to be seekable.
func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d: %w", bitDepth, ErrInvalidBitDepth)
	}

	return &Writer{
		enc: gowav.NewEncoder(w, sampleRate, bitDepth, channels, 1),
		buf: &goaudio.IntBuffer{
			Format: &goaudio.Format{
				NumChannels: channels,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: bitDepth,
		},
		bitDepth: bitDepth,
	}, nil
}

// Write appends interleaved samples.
func (w *Writer) Write(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]

	for i, v := range samples {
		w.buf.Data[i] = utils.Float32ToInt(v, w.bitDepth)
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// Close writes the final chunk sizes. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// WriteFile writes samples to a new WAV file at path.
func WriteFile(path string, sampleRate, channels, bitDepth int, samples []float32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	defer f.Close()

	w, err := NewWriter(f, sampleRate, channels, bitDepth)
	if err != nil {
		return err
	}

	if err := w.Write(samples); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	return f.Close()
}
