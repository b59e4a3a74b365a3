// SPDX-License-Identifier: EPL-2.0

// Package device plays interleaved stereo float32 through
// github.com/ebitengine/oto/v3.
//
// Open negotiates the output format; only stereo is accepted. Start wraps a
// pull function, normally playback.Stream.Pull, in a Reader and hands it to
// an oto player, whose goroutine then acts as the real-time consumer.
package device
