// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// SliceSource is a Source over interleaved samples already held in memory.
type SliceSource struct {
	sampleRate int
	channels   int
	samples    []float32
	pos        int
}

func NewSliceSource(sampleRate, channels int, samples []float32) *SliceSource {
	return &SliceSource{sampleRate: sampleRate, channels: channels, samples: samples}
}

func (s *SliceSource) SampleRate() int    { return s.sampleRate }
func (s *SliceSource) Channels() int      { return s.channels }
func (s *SliceSource) Encoding() Encoding { return Float32 }
func (s *SliceSource) BufSize() int       { return 4096 }
func (s *SliceSource) Close() error       { return nil }

func (s *SliceSource) ReadSamples(dst []float32) (int, error) {
	if len(dst)%s.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	n := copy(dst, s.samples[s.pos:])
	n -= n % s.channels
	s.pos += n

	if s.pos >= len(s.samples)-len(s.samples)%s.channels {
		return n, io.EOF
	}
	return n, nil
}

// ReadAll drains src and returns every sample it produced.
func ReadAll(src Source) ([]float32, error) {
	size := src.BufSize()
	size -= size % src.Channels()
	if size == 0 {
		size = src.Channels()
	}

	buf := make([]float32, size)
	var out []float32

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
}
