// SPDX-License-Identifier: EPL-2.0

package soundshader

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/soundshader/asset"
	"github.com/ik5/soundshader/director"
	"github.com/ik5/soundshader/playback"
)

// Session is one assembled stream: its assets, the director rendering the
// shader over them and the playback buffer fed by the director.
type Session struct {
	id      string
	gpu     *director.Context
	ownsGPU bool
	assets  []*asset.Asset
	dir     *director.Director
	stream  *playback.Stream
	logger  *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession opens the assets and compiles the shader for sampleRate.
// Nothing runs until Start.
func NewSession(desc StreamDescriptor, sampleRate int, opts ...playback.Option) (*Session, error) {
	if desc.Source == "" {
		return nil, ErrNoSource
	}

	id := uuid.NewString()
	logger := desc.logger().With("session", id)
	s := &Session{id: id, gpu: desc.GPU, logger: logger}

	if s.gpu == nil {
		gpu, err := director.NewContext()
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		s.gpu, s.ownsGPU = gpu, true
	}

	assets, err := OpenAssets(desc.Assets, desc.registry(), logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.assets = assets

	dir, err := director.New(s.gpu, desc.Source, assets,
		director.WithLogger(logger),
		director.WithAssetNames(desc.Assets...),
	)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w", err)
	}
	s.dir = dir

	opts = append([]playback.Option{playback.WithLogger(logger)}, opts...)
	if desc.Record != nil {
		opts = append(opts, playback.WithRecordSink(desc.Record))
	}

	stream, err := playback.NewStream(dir, sampleRate, opts...)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w", err)
	}
	s.stream = stream

	return s, nil
}

// ID tags every log record of the session.
func (s *Session) ID() string { return s.id }

func (s *Session) Stream() *playback.Stream { return s.stream }

func (s *Session) Director() *director.Director { return s.dir }

// Start fills the asset queues and renders the first second synchronously,
// then launches the producer and, when assets are bound, the refill loop.
func (s *Session) Start(ctx context.Context) error {
	s.topUp()
	if _, err := s.stream.Fill(); err != nil {
		return fmt.Errorf("prefill: %w", err)
	}

	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.stream.Run(ctx)
	}()

	if len(s.assets) > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			asset.Refill(ctx, s.assets, asset.DefaultRefillPeriod)
		}()
	}

	return nil
}

// topUp brings every asset queue to its high watermark ahead of a render
// that runs without the refill loop.
func (s *Session) topUp() {
	for _, a := range s.assets {
		a.TopUp()
	}
}

// Stop ends the background goroutines and waits for them.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Close stops the session and releases everything it owns.
func (s *Session) Close() {
	s.Stop()

	if s.dir != nil {
		s.dir.Release()
		s.dir = nil
	}
	closeAssets(s.assets)
	s.assets = nil
	if s.ownsGPU {
		s.gpu.Release()
		s.gpu = nil
	}
}

// wait blocks until d elapses or ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
