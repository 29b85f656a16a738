package storage

import (
	"github.com/vpastaria-del/buffer-manager/common"
)

// frame is one cache slot of a Pool. A frame is either empty or holds
// exactly one page; resident is the tag. An empty frame is never dirty and
// never pinned.
type frame struct {
	resident bool
	pageNum  common.PageNumber
	// dirty is true iff buf has been modified since it was last written to
	// the block store.
	dirty bool
	// pinCount is the number of outstanding references. A frame with
	// pinCount > 0 is ineligible for eviction.
	pinCount int
	// arrival is the pool clock value at the moment the page was loaded
	// into this frame. It is never updated on later hits, so FIFO evicts
	// by time of most recent load.
	arrival uint64
	// lastUsed is the pool clock value of the most recent pin of this
	// page, including cache-hit re-pins. LRU evicts the minimum.
	lastUsed uint64
	// buf holds exactly one block's worth of bytes. It is owned by the
	// frame for the lifetime of the pool; page handles alias it but never
	// free or relocate it.
	buf [common.PageSize]byte
}

// reset returns the frame to the empty state. The buffer contents are left
// as-is; occupancy is what matters.
func (fr *frame) reset() {
	fr.resident = false
	fr.pageNum = common.NoPage
	fr.dirty = false
	fr.pinCount = 0
	fr.arrival = 0
	fr.lastUsed = 0
}
