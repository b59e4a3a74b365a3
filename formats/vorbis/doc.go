// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis decoding via github.com/jfreymuth/oggvorbis.
//
// Vorbis synthesis produces floats directly, so the source reports
// audio.Float32 and samples pass through without scaling. Values can
// slightly exceed [-1, 1] on clipped material.
//
//	file, _ := os.Open("audio.ogg")
//	source, err := vorbis.Decoder{}.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Reads always cover whole frames. A buffer shorter than one frame fails with
// audio.ErrInvalidDstSize.
package vorbis
