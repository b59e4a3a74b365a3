// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPeriod is the producer wake interval.
const DefaultPeriod = 200 * time.Millisecond

// Renderer produces the next bufferLength interleaved stereo floats of the
// timeline. director.Director implements it.
type Renderer interface {
	Render(sampleRate, bufferLength uint32) ([]float32, error)
}

// Stream couples one producer, which renders ahead of real time, with one
// consumer pulling fixed-size chunks from the audio callback.
type Stream struct {
	r          Renderer
	sampleRate int
	period     time.Duration
	logger     *slog.Logger
	record     *RecordSink

	buf Buffer

	underruns atomic.Int64
	dropped   atomic.Int64

	errMu sync.Mutex
	err   error
}

type options struct {
	period time.Duration
	logger *slog.Logger
	record *RecordSink
}

// Option configures a Stream.
type Option func(*options)

// WithPeriod overrides DefaultPeriod.
func WithPeriod(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.period = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecordSink mirrors every pulled chunk into sink.
func WithRecordSink(sink *RecordSink) Option {
	return func(o *options) { o.record = sink }
}

func NewStream(r Renderer, sampleRate int, opts ...Option) (*Stream, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%d: %w", sampleRate, ErrInvalidRate)
	}

	o := options{period: DefaultPeriod, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Stream{
		r:          r,
		sampleRate: sampleRate,
		period:     o.period,
		logger:     o.logger,
		record:     o.record,
	}, nil
}

// Watermark is the occupancy, in floats, below which the producer renders:
// one second of stereo audio. Each render adds the same amount.
func (s *Stream) Watermark() int { return s.sampleRate * 2 }

// Fill runs one producer step. It renders one second when occupancy is below
// the watermark and reports whether it did.
func (s *Stream) Fill() (bool, error) {
	if s.buf.Len() >= s.Watermark() {
		return false, nil
	}

	n := s.Watermark()
	chunk, err := s.r.Render(uint32(s.sampleRate), uint32(n))
	if err != nil {
		return false, fmt.Errorf("render: %w", err)
	}
	if len(chunk) != n {
		return false, fmt.Errorf("got %d floats, want %d: %w", len(chunk), n, ErrInvalidLength)
	}

	s.buf.Append(chunk)
	return true, nil
}

// Run is the producer loop. It fills once immediately, then every period,
// until ctx is done or a render fails. A failure is kept for Err; the
// consumer keeps running on silence.
func (s *Stream) Run(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		if _, err := s.Fill(); err != nil {
			s.logger.Error("producer stopped", "error", err)
			s.setErr(err)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Pull is the consumer. It never waits for the producer: missing samples
// are replaced by silence and counted as an underrun.
func (s *Stream) Pull(n int) []float32 {
	out, short := s.buf.Pull(n)
	if short > 0 {
		s.underruns.Add(1)
		s.logger.Warn("playback underrun", "requested", n, "missing", short)
	}

	if s.record != nil && len(out) > 0 {
		if !s.record.TryAppend(out) {
			s.dropped.Add(1)
			s.logger.Warn("record sink busy, chunk dropped", "samples", len(out))
		}
	}

	return out
}

// Buffered is the current occupancy in floats.
func (s *Stream) Buffered() int { return s.buf.Len() }

func (s *Stream) SampleRate() int { return s.sampleRate }

// Underruns counts pulls that had to be padded.
func (s *Stream) Underruns() int64 { return s.underruns.Load() }

// Dropped counts chunks missing from the record sink.
func (s *Stream) Dropped() int64 { return s.dropped.Load() }

// Err is the render error that stopped the producer, if any.
func (s *Stream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	return s.err
}

func (s *Stream) setErr(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
}
