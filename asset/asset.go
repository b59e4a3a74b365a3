// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/ik5/soundshader/audio"
)

// Spec describes the decoded stream of an asset.
type Spec struct {
	SampleRate int
	Channels   int
	Encoding   audio.Encoding
}

// Texel is one asset frame as uploaded to the GPU: the stereo amplitude pair
// followed by the spectral bin aligned to the same frame. Mono assets carry
// their channel in L and silence in R.
type Texel struct {
	L, R   float32
	Re, Im float32
}

// Asset streams a decoded audio source into a FIFO of normalized samples and
// keeps a short-time spectral view aligned to it.
//
// Reserve may be called from a refill goroutine while NextBuffer is called
// from the render goroutine. Source reads and spectral analysis are
// serialized by decodeMu; the queues are guarded by mu, which is only held
// while slicing, copying or appending.
type Asset struct {
	src    audio.Source
	spec   Spec
	window int // analysis window in frames
	logger *slog.Logger

	decodeMu sync.Mutex
	eof      bool
	scratch  []float32
	tail     []float32 // decoded samples not yet covered by an analysis window
	analyzed int64     // absolute frame where tail starts

	mu       sync.Mutex
	samples  []float32   // interleaved, starting at frame head
	spectrum []complex64 // one bin per frame, starting at frame head
	head     int64
}

type options struct {
	logger *slog.Logger
}

// Option configures an Asset.
type Option func(*options)

// WithLogger sets the logger used for degraded reads. nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open decodes the file at path with the decoder registered for its extension.
func Open(path string, reg *audio.Registry, opts ...Option) (*Asset, error) {
	src, err := reg.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrAssetMissing)
		}
		return nil, fmt.Errorf("%w", err)
	}

	a, err := New(src, opts...)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return a, nil
}

// New wraps an already decoded source. Only mono and stereo sources are
// accepted. The Asset owns src from here on.
func New(src audio.Source, opts ...Option) (*Asset, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	ch := src.Channels()
	if ch != 1 && ch != 2 {
		return nil, fmt.Errorf("%d channels: %w", ch, audio.ErrUnsupportedChannels)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("sample rate %d: %w", src.SampleRate(), audio.ErrUnsupportedEncoding)
	}

	spec := Spec{
		SampleRate: src.SampleRate(),
		Channels:   ch,
		Encoding:   src.Encoding(),
	}

	o.logger.Info("asset ready",
		"sample_rate", spec.SampleRate,
		"channels", spec.Channels,
		"encoding", spec.Encoding.String(),
	)

	return &Asset{
		src:    src,
		spec:   spec,
		window: max(1, spec.SampleRate/10),
		logger: o.logger,
	}, nil
}

func (a *Asset) Spec() Spec { return a.spec }

// WindowFrames is the length of one spectral analysis window.
func (a *Asset) WindowFrames() int { return a.window }

// Close releases the underlying source.
func (a *Asset) Close() error {
	a.decodeMu.Lock()
	defer a.decodeMu.Unlock()

	if err := a.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// QueuedFrames reports how many decoded frames wait in the FIFO.
func (a *Asset) QueuedFrames() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.samples) / a.spec.Channels
}

// SpectralFrames reports how many queued frames already have a spectral bin.
func (a *Asset) SpectralFrames() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.spectrum)
}

// Reserve decodes up to n more interleaved samples and appends them to the
// FIFO, rounded up to whole frames. After the source is exhausted silence is
// appended instead, so the asset never runs out.
func (a *Asset) Reserve(n int) {
	if n <= 0 {
		return
	}

	ch := a.spec.Channels
	n = (n + ch - 1) / ch * ch

	a.decodeMu.Lock()
	defer a.decodeMu.Unlock()

	if cap(a.scratch) < n {
		a.scratch = make([]float32, n)
	}
	buf := a.scratch[:n]

	got := 0
	for got < n && !a.eof {
		m, err := a.src.ReadSamples(buf[got:])
		got += m
		switch {
		case err == nil:
			if m == 0 {
				// a source that makes no progress is treated as exhausted
				a.eof = true
			}
		case errors.Is(err, io.EOF):
			a.eof = true
		default:
			a.logger.Warn("asset read failed, continuing with silence", "error", err)
			a.eof = true
		}
	}

	// partial trailing frame from a truncated source
	got -= got % ch
	clear(buf[got:])

	a.mu.Lock()
	a.samples = append(a.samples, buf...)
	a.mu.Unlock()

	a.tail = append(a.tail, buf...)
	a.analyze()
}

// NextBuffer removes frames frames from the front of the FIFO and returns
// them with their spectral bins. A FIFO that is behind is an underrun: the
// missing frames are decoded on the caller's goroutine, silence past the end
// of the source, and their count is returned as shortfall.
func (a *Asset) NextBuffer(frames int) ([]Texel, int) {
	if frames <= 0 {
		return nil, 0
	}

	short := 0
	if queued := a.QueuedFrames(); queued < frames {
		short = frames - queued
		a.logger.Warn("asset underrun, decoding on the render path",
			"queued", queued,
			"needed", frames,
		)
		a.Reserve(short * a.spec.Channels)
	}

	out := make([]Texel, frames)

	a.mu.Lock()
	defer a.mu.Unlock()

	taken := a.fill(out)

	ch := a.spec.Channels
	a.samples = a.samples[taken*ch:]
	a.spectrum = a.spectrum[min(taken, len(a.spectrum)):]
	a.head += int64(taken)

	return out, short
}

// Lookahead returns the n frames NextBuffer would return next without
// removing them. Interpolating fetches read past the end of a batch.
func (a *Asset) Lookahead(n int) []Texel {
	if n <= 0 {
		return nil
	}

	if queued := a.QueuedFrames(); queued < n {
		a.Reserve((n - queued) * a.spec.Channels)
	}

	out := make([]Texel, n)

	a.mu.Lock()
	a.fill(out)
	a.mu.Unlock()

	return out
}

// fill copies queued frames into out without consuming them. mu must be held.
func (a *Asset) fill(out []Texel) int {
	ch := a.spec.Channels
	n := min(len(out), len(a.samples)/ch)

	for i := range n {
		out[i].L = a.samples[i*ch]
		if ch == 2 {
			out[i].R = a.samples[i*ch+1]
		}
		if i < len(a.spectrum) {
			out[i].Re, out[i].Im = real(a.spectrum[i]), imag(a.spectrum[i])
		}
	}

	return n
}
