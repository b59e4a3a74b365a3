// SPDX-License-Identifier: EPL-2.0

// Package audio defines the sample source contract shared by every decoder
// and the sample encodings they may carry.
//
// # Source
//
// A Source yields interleaved float32 samples normalized to [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    Encoding() Encoding
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples returns io.EOF together with the final samples or on its own
// once the stream is drained.
//
// # Encodings
//
// Encoding is a closed set. Integer PCM of b bits is divided by 2^(b-1), so
// full-scale negative is exactly -1. Unsigned 8-bit WAV is re-centred first.
// Float PCM passes through untouched:
//
//	enc, _ := audio.EncodingFor(audio.FormatPCM, 24)
//	n := enc.Decode(raw, dst)
//
// # Registry
//
// Registry maps file extensions to decoders. Open decodes a file and ties
// the file handle to the returned Source:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	src, err := reg.Open("loop.wav")
//
// # Conversion
//
// Resampler and MonoMixer wrap a Source for export. ReadAll drains any
// Source and SliceSource replays samples already in memory:
//
//	src := audio.NewSliceSource(48000, 2, rendered)
//	mono, err := audio.ReadAll(audio.NewMonoMixer(audio.NewResampler(src, 44100)))
package audio
