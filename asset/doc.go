// SPDX-License-Identifier: EPL-2.0

// Package asset streams decoded audio files into the FIFO the render loop
// pulls from.
//
// An Asset starts empty. Reserve decodes more samples from the source and
// normalizes them through the source's audio.Encoding; once the source is
// exhausted it appends silence, so an asset behaves as an infinite stream
// with a zero tail. NextBuffer removes frames from the front.
//
// Every completed window of SampleRate/10 frames is transformed with a
// forward FFT (github.com/mjibson/go-dsp/fft). Stereo windows are analyzed
// as L + iR. The resulting bins are stored one per frame, so the spectral
// queue is always a prefix of the sample queue:
//
//	SpectralFrames() <= QueuedFrames()
//
// Refill runs the background top-up loop: every period, each asset with
// less than LowWatermark seconds queued is decoded up to HighWatermark
// seconds.
package asset
