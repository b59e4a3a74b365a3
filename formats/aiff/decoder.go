// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/soundshader/audio"
)

// aiffReader is the subset of aiff.Decoder used by source.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source wraps go-audio aiff.Decoder to implement audio.Source.
// go-audio hands out sign-extended ints, normalized through audio.Encoding.FromInt.
type source struct {
	dec        aiffReader
	sampleRate int
	channels   int
	enc        audio.Encoding
	intBuf     *goaudio.IntBuffer
	eof        bool
}

func (s *source) SampleRate() int          { return s.sampleRate }
func (s *source) Channels() int            { return s.channels }
func (s *source) Encoding() audio.Encoding { return s.enc }
func (s *source) Close() error             { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}

	for i := range n {
		dst[i] = s.enc.FromInt(s.intBuf.Data[i])
	}

	// a short read means the sound data chunk is exhausted
	if n < len(dst) || err == io.EOF {
		s.eof = true
		return n, io.EOF
	}

	return n, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	enc, err := encodingFor(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		enc:        enc,
	}, nil
}

// encodingFor maps an AIFF sample size to the signed integer variant.
func encodingFor(bitDepth int) (audio.Encoding, error) {
	switch bitDepth {
	case 8:
		return audio.PCM8, nil
	case 16:
		return audio.PCM16, nil
	case 24:
		return audio.PCM24, nil
	case 32:
		return audio.PCM32, nil
	}

	return audio.EncodingUnknown, fmt.Errorf("%d bits: %w: %w", bitDepth, ErrUnsupportedAiffLayout, audio.ErrUnsupportedEncoding)
}
