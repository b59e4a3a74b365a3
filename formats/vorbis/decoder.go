// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/ik5/soundshader/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is the subset of oggvorbis.Reader used by source.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// source passes through the float output of the Vorbis synthesis.
type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int          { return s.sampleRate }
func (s *source) Channels() int            { return s.channels }
func (s *source) Encoding() audio.Encoding { return audio.Float32 }
func (s *source) Close() error             { return nil }
func (s *source) BufSize() int             { return 4096 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	// oggvorbis reads whole frames only
	whole := len(dst) - len(dst)%s.channels
	if whole == 0 {
		if len(dst) == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("%d samples for %d channels: %w", len(dst), s.channels, audio.ErrInvalidDstSize)
	}

	n, err := s.dec.Read(dst[:whole])
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("%w", err)
	}

	return n, err
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}
