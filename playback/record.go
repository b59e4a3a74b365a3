// SPDX-License-Identifier: EPL-2.0

package playback

import "sync"

// RecordSink mirrors the samples released to the consumer. Appends never
// wait: a chunk that arrives while the sink is busy is dropped.
type RecordSink struct {
	mu      sync.Mutex
	samples []float32
}

func NewRecordSink() *RecordSink { return &RecordSink{} }

// TryAppend appends samples unless the sink is locked by another goroutine.
func (r *RecordSink) TryAppend(samples []float32) bool {
	if !r.mu.TryLock() {
		return false
	}
	r.samples = append(r.samples, samples...)
	r.mu.Unlock()
	return true
}

// Samples returns a copy of everything recorded so far.
func (r *RecordSink) Samples() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]float32(nil), r.samples...)
}

func (r *RecordSink) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.samples)
}
