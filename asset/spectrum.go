// SPDX-License-Identifier: EPL-2.0

package asset

import (
	"github.com/mjibson/go-dsp/fft"
)

// analyze transforms every complete window held in tail. Windows start at
// absolute multiples of the window length. decodeMu must be held.
func (a *Asset) analyze() {
	ch := a.spec.Channels
	size := a.window * ch

	for len(a.tail) >= size {
		bins := transform(a.tail[:size], ch)
		start := a.analyzed

		a.tail = a.tail[size:]
		a.analyzed += int64(a.window)

		a.mu.Lock()
		// bins before head belong to frames already handed out
		if skip := a.head - start; skip < int64(len(bins)) {
			if skip > 0 {
				bins = bins[skip:]
			}
			a.spectrum = append(a.spectrum, bins...)
		}
		a.mu.Unlock()
	}
}

// transform computes the forward DFT of one interleaved window. Stereo frames
// become L + iR; mono frames have a zero imaginary part.
func transform(window []float32, channels int) []complex64 {
	frames := len(window) / channels
	in := make([]complex128, frames)

	for i := range frames {
		re := float64(window[i*channels])
		var im float64
		if channels == 2 {
			im = float64(window[i*channels+1])
		}
		in[i] = complex(re, im)
	}

	out := fft.FFT(in)

	bins := make([]complex64, frames)
	for i, c := range out {
		bins[i] = complex64(c)
	}
	return bins
}
