// SPDX-License-Identifier: EPL-2.0

// Package playback decouples batch rendering from the real-time pull of an
// audio device.
//
// A Stream owns a Buffer of interleaved stereo floats. The producer (Run)
// wakes every period and, when less than one second is buffered, renders one
// more second and appends it. The consumer (Pull) removes exactly the
// requested number of samples; when the producer has fallen behind the rest
// is filled with silence and an underrun is logged. Pull never blocks on the
// producer.
//
// An optional RecordSink receives every chunk handed to the consumer. It is
// appended with TryLock, so a busy sink loses that chunk instead of delaying
// playback.
package playback
