package chain

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const (
	seenEstimate  = 10000
	falsePositive = 0.01
)

// seenFilter answers "definitely not in the chain" without touching the hash
// index. Positive answers must be confirmed against the index.
type seenFilter struct {
	b *bloom.BloomFilter
}

func newSeenFilter() *seenFilter {
	return &seenFilter{b: bloom.NewWithEstimates(seenEstimate, falsePositive)}
}

func (f *seenFilter) add(hash string) {
	f.b.AddString(hash)
}

func (f *seenFilter) mayContain(hash string) bool {
	return f.b.TestString(hash)
}

func (f *seenFilter) reset() {
	f.b.ClearAll()
}
