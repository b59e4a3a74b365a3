// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/soundshader/utils"
)

// Resampler converts src to another sample rate by Catmull-Rom cubic
// interpolation over a four-frame window. Output frame j sits at source
// position j*srcRate/dstRate; the first and last source frames are repeated
// past the edges. Channel count is preserved.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64
	channels int

	// window[1] is the frame at the integer part of pos, window[0] the one
	// before it and window[2], window[3] the two after.
	window         [4][]float32
	live           [4]bool
	primed, srcEOF bool
	pos            float64
}

func NewResampler(src Source, dstRate int) *Resampler {
	ch := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: ch,
	}
	for i := range r.window {
		r.window[i] = make([]float32, ch)
	}
	return r
}

func (r *Resampler) SampleRate() int    { return r.dstRate }
func (r *Resampler) Channels() int      { return r.channels }
func (r *Resampler) Encoding() Encoding { return Float32 }
func (r *Resampler) BufSize() int       { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame fills frame with the next source frame. A short read is zero
// padded. It reports false once the source has nothing left.
func (r *Resampler) readFrame(frame []float32) (bool, error) {
	if r.srcEOF {
		return false, nil
	}

	n, err := r.src.ReadSamples(frame)
	if errors.Is(err, io.EOF) {
		r.srcEOF = true
	} else if err != nil {
		return false, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return false, nil
	}
	clear(frame[n:])
	return true, nil
}

// load reads window slot i, repeating slot i-1 once the source is done.
func (r *Resampler) load(i int) error {
	ok, err := r.readFrame(r.window[i])
	if err != nil {
		return err
	}
	r.live[i] = ok
	if !ok {
		copy(r.window[i], r.window[i-1])
	}
	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.readFrame(r.window[1])
	if err != nil {
		return err
	}
	r.live[1] = ok
	copy(r.window[0], r.window[1])

	for i := 2; i < len(r.window); i++ {
		if err := r.load(i); err != nil {
			return err
		}
	}
	return nil
}

// advance slides the window one source frame forward.
func (r *Resampler) advance() error {
	first := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = first
	copy(r.live[:], r.live[1:])

	return r.load(3)
}

// ReadSamples fills dst with frames at the target rate.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		r.primed = true
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	want := len(dst) / r.channels
	written := 0

	for written < want {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}
		if !r.live[1] {
			break
		}

		alpha := float32(r.pos)
		w := &r.window
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(w[0][c], w[1][c], w[2][c], w[3][c], alpha)
		}

		written++
		r.pos += r.step
	}

	if written < want {
		return written * r.channels, io.EOF
	}
	return written * r.channels, nil
}
