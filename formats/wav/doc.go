// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Headers are parsed with github.com/go-audio/wav. Sample bytes of the data
// chunk are normalized by the matching audio.Encoding, so every layout the
// decoder accepts shares one conversion path.
//
// # Supported Formats
//
// Decoding:
//   - integer PCM at 8 (unsigned), 16, 24 and 32 bits; packed depths such
//     as 12 or 20 bits decode through their byte-wide container
//   - IEEE float at 32 and 64 bits
//   - WAVE_FORMAT_EXTENSIBLE with a PCM or IEEE float SubFormat GUID
//   - any channel count and sample rate
//
// Integer samples are divided by 2^(bits-1). Float samples pass through
// unchanged and may exceed [-1, 1].
//
// Encoding writes integer PCM at 16, 24 or 32 bits.
//
// # Decoding WAV Files
//
//	file, _ := os.Open("audio.wav")
//	source, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Non-seekable readers are buffered in memory before parsing.
//
// # Writing WAV Files
//
//	err := wav.WriteFile("out.wav", 44100, 2, 16, samples)
//
// For incremental output use NewWriter with an io.WriteSeeker and call
// Close to patch the chunk sizes.
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a valid WAV file
//   - ErrUnsupportedWavLayout: the fmt chunk has no decode variant; it also
//     wraps audio.ErrUnsupportedEncoding
//   - ErrUnsupportedWavChunks: no data chunk could be located
//   - ErrInvalidBitDepth: NewWriter was asked for an unsupported depth
package wav
