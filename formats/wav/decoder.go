// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/soundshader/audio"
)

// source streams the data chunk of a WAV file. Headers are parsed by
// go-audio/wav; the sample bytes are decoded by the audio.Encoding variant
// matching the fmt chunk, so every integer width and float share one path.
type source struct {
	pcm        io.Reader
	sampleRate int
	channels   int
	enc        audio.Encoding
	buf        []byte
	eof        bool
}

func (s *source) SampleRate() int          { return s.sampleRate }
func (s *source) Channels() int            { return s.channels }
func (s *source) Encoding() audio.Encoding { return s.enc }
func (s *source) Close() error             { return nil }
func (s *source) BufSize() int             { return cap(s.buf) / s.enc.BytesPerSample() }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	need := len(dst) * s.enc.BytesPerSample()
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := io.ReadFull(s.pcm, s.buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		// a trailing partial sample is dropped
		s.eof = true
	default:
		return 0, fmt.Errorf("%w", err)
	}

	samples := s.enc.Decode(s.buf[:n], dst)
	if s.eof {
		return samples, io.EOF
	}

	return samples, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	var err error

	format := int(dec.WavAudioFormat)
	if format == audio.FormatExtensible {
		format, err = extensibleFormat(rs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
		}
	}

	enc, err := audio.EncodingFor(format, int(dec.BitDepth))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavLayout, err)
	}

	if err = dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrUnsupportedWavChunks
	}

	return &source{
		pcm:        io.LimitReader(dec.PCMChunk, int64(dec.PCMChunk.Size)),
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		enc:        enc,
		buf:        make([]byte, 0, 4096),
	}, nil
}

// extensibleFormat walks the RIFF chunks of rs for the fmt chunk and
// resolves its SubFormat GUID. The reader is rewound before and after,
// leaving go-audio's own cursor handling untouched.
func extensibleFormat(rs io.ReadSeeker) (int, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	defer rs.Seek(pos, io.SeekStart)

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("%w", err)
	}

	p := riff.New(rs)
	if err := p.ParseHeaders(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}

	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("%w: no fmt chunk: %w", ErrUnsupportedWavChunks, err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}

		// cbSize(2) validBits(2) channelMask(4) SubFormat(16) follow the
		// 16 byte base header
		if ch.Size < 40 {
			return 0, fmt.Errorf("extensible fmt chunk of %d bytes: %w", ch.Size, audio.ErrUnsupportedEncoding)
		}

		var ext [40]byte
		if _, err := io.ReadFull(ch, ext[:]); err != nil {
			return 0, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
		}

		return audio.ExtensibleFormat([16]byte(ext[24:40]))
	}
}
