package ledger

import (
	"sync"

	"veritrust/internal/ledger/models"
)

// DefaultFallbackCapacity bounds the in-memory buffer used while the durable
// backend is unavailable.
const DefaultFallbackCapacity = 100_000

// fallbackBuffer is a fixed-size ring of records. When full, appending
// overwrites the oldest entry.
type fallbackBuffer struct {
	mu       sync.RWMutex
	records  []models.Record
	capacity int
	start    int
}

func newFallbackBuffer(capacity int) *fallbackBuffer {
	if capacity <= 0 {
		capacity = DefaultFallbackCapacity
	}
	return &fallbackBuffer{capacity: capacity}
}

// append stores rec and reports whether an older record was evicted.
func (b *fallbackBuffer) append(rec models.Record) (evicted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) < b.capacity {
		b.records = append(b.records, rec)
		return false
	}
	b.records[b.start] = rec
	b.start = (b.start + 1) % b.capacity
	return true
}

// find returns matching records oldest first.
func (b *fallbackBuffer) find(field, value string) []models.Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []models.Record
	n := len(b.records)
	for i := range n {
		rec := b.records[(b.start+i)%n]
		if rec.Matches(field, value) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (b *fallbackBuffer) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}
