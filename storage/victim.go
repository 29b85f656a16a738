package storage

import (
	"math"

	"github.com/vpastaria-del/buffer-manager/common"
)

// pickVictim selects the frame to evict, or -1 if every resident frame is
// pinned. Only unpinned resident frames are candidates; among them FIFO
// takes the minimum arrival and LRU the minimum lastUsed. Any unrecognized
// strategy falls back to LRU semantics. Ties break to the lowest frame
// index, which keeps eviction order reproducible.
//
// Pure function: no mutation, no I/O.
func pickVictim(frames []frame, strategy common.ReplacementStrategy) int {
	victim := -1
	bestKey := uint64(math.MaxUint64)

	for i := range frames {
		fr := &frames[i]
		if !fr.resident || fr.pinCount > 0 {
			continue
		}

		var key uint64
		switch strategy {
		case common.FIFO:
			key = fr.arrival
		default:
			key = fr.lastUsed
		}

		if key < bestKey {
			bestKey = key
			victim = i
		}
	}
	return victim
}
