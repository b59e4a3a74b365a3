// SPDX-License-Identifier: EPL-2.0

package soundshader

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDuration rejects non-positive render lengths.
var ErrInvalidDuration = errors.New("duration must be positive")

// Frames is the number of frames in duration at sampleRate, rounded to the
// nearest frame.
func Frames(sampleRate int, duration time.Duration) int {
	return int((int64(duration)*int64(sampleRate) + int64(time.Second)/2) / int64(time.Second))
}

// RenderBuffer renders duration of audio without a device, in the same
// one-second batches a live stream uses, and returns interleaved stereo
// floats.
func RenderBuffer(desc StreamDescriptor, sampleRate int, duration time.Duration) ([]float32, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%v: %w", duration, ErrInvalidDuration)
	}

	s, err := NewSession(desc, sampleRate)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	total := Frames(sampleRate, duration)
	out := make([]float32, 0, 2*total)

	for done := 0; done < total; {
		n := min(sampleRate, total-done)
		s.topUp()
		chunk, err := s.Director().Render(uint32(sampleRate), uint32(2*n))
		if err != nil {
			return nil, fmt.Errorf("render at frame %d: %w", done, err)
		}
		out = append(out, chunk...)
		done += n
	}

	return out, nil
}
