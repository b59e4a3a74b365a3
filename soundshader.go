// SPDX-License-Identifier: EPL-2.0

package soundshader

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/soundshader/asset"
	"github.com/ik5/soundshader/audio"
	"github.com/ik5/soundshader/device"
	"github.com/ik5/soundshader/director"
	"github.com/ik5/soundshader/formats/aiff"
	"github.com/ik5/soundshader/formats/mp3"
	"github.com/ik5/soundshader/formats/vorbis"
	"github.com/ik5/soundshader/formats/wav"
	"github.com/ik5/soundshader/playback"
)

// ErrNoSource is returned for a descriptor without shader source.
var ErrNoSource = errors.New("shader source is empty")

// StreamDescriptor is everything needed to build a stream.
type StreamDescriptor struct {
	// Source is the GLSL body defining mainSound.
	Source string
	// Assets are file paths bound in order as asset 0, 1, ...
	Assets []string

	// Registry picks decoders by extension. nil means DefaultRegistry.
	Registry *audio.Registry
	// GPU is reused when set; otherwise a context is created and released
	// by the call.
	GPU *director.Context
	// Device is the output format requested by Play.
	Device device.Config
	// Record, when set, receives every sample Play sends to the device.
	Record *playback.RecordSink
	Logger *slog.Logger
}

func (d StreamDescriptor) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d StreamDescriptor) registry() *audio.Registry {
	if d.Registry != nil {
		return d.Registry
	}
	return DefaultRegistry()
}

// DefaultRegistry knows every bundled decoder.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("wave", wav.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	return reg
}

// OpenAssets opens paths in order. On failure the assets opened so far are
// closed.
func OpenAssets(paths []string, reg *audio.Registry, logger *slog.Logger) ([]*asset.Asset, error) {
	assets := make([]*asset.Asset, 0, len(paths))
	for _, p := range paths {
		a, err := asset.Open(p, reg, asset.WithLogger(logger.With("asset", p)))
		if err != nil {
			closeAssets(assets)
			return nil, fmt.Errorf("%w", err)
		}
		assets = append(assets, a)
	}
	return assets, nil
}

func closeAssets(assets []*asset.Asset) {
	for _, a := range assets {
		a.Close()
	}
}
