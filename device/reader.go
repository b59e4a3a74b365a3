// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"io"
	"math"
)

// frameBytes is one stereo float32 frame.
const frameBytes = 2 * 4

// Reader adapts a sample pull function to the byte stream oto consumes.
type Reader struct {
	pull func(n int) []float32
}

var _ io.Reader = (*Reader)(nil)

func NewReader(pull func(n int) []float32) *Reader {
	return &Reader{pull: pull}
}

// Read fills p with whole little-endian float32 stereo frames. It never
// returns io.EOF; the stream lasts until the player is closed.
func (r *Reader) Read(p []byte) (int, error) {
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	samples := r.pull(frames * 2)
	n := min(len(samples), frames*2)
	for i := range n {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(samples[i]))
	}

	// a short pull is padded with silence
	clear(p[4*n : frames*frameBytes])

	return frames * frameBytes, nil
}
