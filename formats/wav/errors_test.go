// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrNotWavFile", ErrNotWavFile, "not a WAV file"},
		{"ErrUnsupportedWavLayout", ErrUnsupportedWavLayout, "unsupported WAV layout"},
		{"ErrUnsupportedWavChunks", ErrUnsupportedWavChunks, "unsupported WAV chunks"},
		{"ErrInvalidBitDepth", ErrInvalidBitDepth, "bit depth must be 16, 24 or 32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.err.Error() != tt.want {
				t.Errorf("%s.Error() = %q, want %q", tt.name, tt.err.Error(), tt.want)
			}
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	all := []error{ErrNotWavFile, ErrUnsupportedWavLayout, ErrUnsupportedWavChunks, ErrInvalidBitDepth}

	for i, err := range all {
		wrapped := fmt.Errorf("context: %w", err)
		if !errors.Is(wrapped, err) {
			t.Errorf("errors.Is(wrapped, %v) = false, want true", err)
		}

		for j, other := range all {
			if i != j && errors.Is(wrapped, other) {
				t.Errorf("errors.Is(wrapped %v, %v) = true, want false", err, other)
			}
		}
	}
}
