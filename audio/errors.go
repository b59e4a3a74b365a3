// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnsupportedChannels rejects sources that are neither mono nor stereo.
	ErrUnsupportedChannels = errors.New("unsupported channel count")

	// ErrUnsupportedEncoding rejects sample formats with no decode variant.
	ErrUnsupportedEncoding = errors.New("unsupported sample encoding")

	// ErrUnknownFormat is returned by Registry.Open when no decoder matches the file extension.
	ErrUnknownFormat = errors.New("no decoder registered for format")
)
