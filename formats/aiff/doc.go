// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// Parsing is done by github.com/go-audio/aiff, which yields sign-extended
// integers. They are normalized with the matching audio.Encoding, so a full
// scale negative sample maps to -1.0.
//
// # Supported Formats
//
//   - signed integer PCM at 8, 16, 24 and 32 bits
//   - any channel count and sample rate
//
// Other sample sizes fail with ErrUnsupportedAiffLayout, which also wraps
// audio.ErrUnsupportedEncoding.
//
// # Decoding AIFF Files
//
//	file, _ := os.Open("audio.aif")
//	source, err := aiff.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// The final read returns the remaining samples together with io.EOF.
package aiff
