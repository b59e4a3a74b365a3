// SPDX-License-Identifier: EPL-2.0

package soundshader

import (
	"fmt"

	"github.com/ik5/soundshader/audio"
	"github.com/ik5/soundshader/formats/wav"
)

// DefaultBitDepth is the PCM width of exported WAV files.
const DefaultBitDepth = 16

// ExportOptions shape a rendered stereo buffer on its way to disk.
type ExportOptions struct {
	// SampleRate of the file. Zero keeps the render rate.
	SampleRate int
	// Mono averages both channels into one.
	Mono bool
	// BitDepth is 16, 24 or 32. Zero means DefaultBitDepth.
	BitDepth int
}

// Export writes interleaved stereo samples rendered at sampleRate to a WAV
// file at path, resampling and downmixing as opts request.
func Export(path string, samples []float32, sampleRate int, opts ExportOptions) error {
	var src audio.Source = audio.NewSliceSource(sampleRate, 2, samples)

	if opts.SampleRate != 0 && opts.SampleRate != sampleRate {
		src = audio.NewResampler(src, opts.SampleRate)
	}
	if opts.Mono {
		src = audio.NewMonoMixer(src)
	}

	out, err := audio.ReadAll(src)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}

	depth := opts.BitDepth
	if depth == 0 {
		depth = DefaultBitDepth
	}

	if err := wav.WriteFile(path, src.SampleRate(), src.Channels(), depth, out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
