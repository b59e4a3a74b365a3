// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrInvalidLength is returned when a renderer hands back a chunk of the
	// wrong size, which would break the contiguity of the timeline.
	ErrInvalidLength = errors.New("rendered chunk has wrong length")

	// ErrInvalidRate rejects non-positive sample rates.
	ErrInvalidRate = errors.New("sample rate must be positive")
)
