// SPDX-License-Identifier: EPL-2.0

package playback

import "sync"

// Buffer is the FIFO between the producer and the consumer of a stream.
// Only the producer appends and only the consumer removes from the front.
type Buffer struct {
	mu      sync.Mutex
	samples []float32
}

func (b *Buffer) Append(samples []float32) {
	b.mu.Lock()
	b.samples = append(b.samples, samples...)
	b.mu.Unlock()
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.samples)
}

// Pull removes up to n samples and returns exactly n, zero-padded at the end
// when fewer were buffered. shortfall is the number of padded samples.
func (b *Buffer) Pull(n int) (out []float32, shortfall int) {
	if n <= 0 {
		return []float32{}, 0
	}

	out = make([]float32, n)

	b.mu.Lock()
	got := copy(out, b.samples)
	b.samples = b.samples[got:]
	if len(b.samples) == 0 {
		// drop the consumed backing array
		b.samples = nil
	}
	b.mu.Unlock()

	return out, n - got
}
