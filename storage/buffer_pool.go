package storage

import (
	"github.com/tidwall/btree"
	"github.com/vpastaria-del/buffer-manager/common"
)

// Pool is a fixed-capacity in-memory page cache over a BlockFile. It owns
// the frame table outright: every frame mutation and every block-store call
// goes through the pool, and eviction refuses any frame that is still
// pinned, so a returned PageHandle stays valid until its owner unpins it.
//
// The pool is designed for a single logical actor issuing synchronous
// calls; each operation completes fully before the next begins. If shared
// between goroutines, all operations must run under one mutual-exclusion
// domain, because victim selection reads pin counts pool-wide while
// eviction mutates a frame.
type Pool struct {
	store    BlockFile
	frames   []frame
	strategy common.ReplacementStrategy
	// pageTable maps each resident page to its frame index. The ordered
	// map gives O(log n) lookup and ascending-page iteration for
	// ResidentPages.
	pageTable btree.Map[common.PageNumber, int]
	// tick is the single monotonic clock behind both arrival and lastUsed.
	// It advances once per load and once per pin, so a freshly loaded
	// page's arrival and recency always differ.
	tick       uint64
	readCount  int
	writeCount int
	closed     bool
}

// PageHandle is returned to the client by Pin. Data aliases the frame's
// buffer: it is valid until the frame is evicted or the pool is closed,
// and the client never frees or relocates it.
type PageHandle struct {
	PageNumber common.PageNumber
	Data       []byte
}

// NewPool creates a pool of capacity empty frames over the given store.
// All frames start empty and all counters at zero.
func NewPool(capacity int, strategy common.ReplacementStrategy, store BlockFile) (*Pool, error) {
	if capacity <= 0 {
		return nil, common.NewError(common.InvalidArgument, "pool capacity must be positive, got %d", capacity)
	}
	if store == nil {
		return nil, common.NewError(common.InvalidArgument, "pool requires a block store")
	}

	p := &Pool{
		store:    store,
		frames:   make([]frame, capacity),
		strategy: strategy,
	}
	for i := range p.frames {
		p.frames[i].reset()
	}
	return p, nil
}

// recordArrival stamps fr with a fresh clock value as its load time. The
// same value seeds lastUsed so a never-pinned frame still has a recency.
func (p *Pool) recordArrival(fr *frame) {
	p.tick++
	fr.arrival = p.tick
	fr.lastUsed = p.tick
}

// recordUse stamps fr with a fresh clock value as its most recent use.
func (p *Pool) recordUse(fr *frame) {
	p.tick++
	fr.lastUsed = p.tick
}

func (p *Pool) findEmptyFrame() int {
	for i := range p.frames {
		if !p.frames[i].resident {
			return i
		}
	}
	return -1
}

// flushFrame writes fr back to the store if it is dirty. A failed write
// leaves the dirty flag set so the content is not silently dropped.
func (p *Pool) flushFrame(fr *frame) error {
	if !fr.resident || !fr.dirty {
		return nil
	}
	if err := p.store.WriteBlock(fr.pageNum, fr.buf[:]); err != nil {
		return err
	}
	p.writeCount++
	fr.dirty = false
	return nil
}

// evictAndLoad replaces the content of frame idx with the requested page:
// flush the old occupant if dirty, grow the store if the request lies
// beyond its extent, then read the block in. The frame's identity is only
// updated after a successful read, so no frame is ever left half-loaded.
func (p *Pool) evictAndLoad(idx int, pageNum common.PageNumber) error {
	fr := &p.frames[idx]

	if err := p.flushFrame(fr); err != nil {
		// Old occupant stays resident and dirty.
		return err
	}

	if int(pageNum) >= p.store.NumBlocks() {
		if err := p.store.EnsureCapacity(int(pageNum) + 1); err != nil {
			// Old occupant stays resident; it was flushed above.
			return err
		}
	}

	// The read below clobbers the buffer, so the old mapping must go now.
	if fr.resident {
		p.pageTable.Delete(fr.pageNum)
	}

	if err := p.store.ReadBlock(pageNum, fr.buf[:]); err != nil {
		// The buffer may hold a partial read; empty the frame rather than
		// leave an inconsistent occupant.
		fr.reset()
		return err
	}
	p.readCount++

	fr.resident = true
	fr.pageNum = pageNum
	fr.dirty = false
	fr.pinCount = 0
	p.recordArrival(fr)
	p.pageTable.Set(pageNum, idx)
	return nil
}

// Pin makes the requested page resident and returns a handle to its
// buffer, incrementing the page's pin count. A cache hit touches recency
// and performs no I/O. A miss claims the first empty frame, or asks the
// replacement strategy for a victim; if every frame is pinned the pin is
// refused with CapacityExhausted and no state changes.
func (p *Pool) Pin(pageNum common.PageNumber) (*PageHandle, error) {
	if p.closed {
		return nil, common.NewError(common.NotInitialized, "pool is closed")
	}
	if pageNum < 0 {
		return nil, common.NewError(common.InvalidArgument, "negative page number %d", pageNum)
	}

	if idx, ok := p.pageTable.Get(pageNum); ok {
		fr := &p.frames[idx]
		fr.pinCount++
		p.recordUse(fr)
		return &PageHandle{PageNumber: pageNum, Data: fr.buf[:]}, nil
	}

	idx := p.findEmptyFrame()
	if idx < 0 {
		idx = pickVictim(p.frames, p.strategy)
		if idx < 0 {
			return nil, common.NewError(common.CapacityExhausted,
				"cannot pin page %d: all %d frames are pinned", pageNum, len(p.frames))
		}
	}

	if err := p.evictAndLoad(idx, pageNum); err != nil {
		return nil, err
	}

	fr := &p.frames[idx]
	fr.pinCount = 1
	p.recordUse(fr)
	return &PageHandle{PageNumber: pageNum, Data: fr.buf[:]}, nil
}

// Unpin releases one reference to the page. Unpinning a page whose count
// is already zero is a silent no-op; the count never goes negative.
// Unpinning a page that is not resident fails with PageNotFound.
// Recency is not touched.
func (p *Pool) Unpin(pageNum common.PageNumber) error {
	if p.closed {
		return common.NewError(common.NotInitialized, "pool is closed")
	}
	idx, ok := p.pageTable.Get(pageNum)
	if !ok {
		return common.NewError(common.PageNotFound, "page %d is not resident", pageNum)
	}
	fr := &p.frames[idx]
	if fr.pinCount > 0 {
		fr.pinCount--
	}
	return nil
}

// MarkDirty records that the page's in-memory content has diverged from
// the persisted copy. No I/O.
func (p *Pool) MarkDirty(pageNum common.PageNumber) error {
	if p.closed {
		return common.NewError(common.NotInitialized, "pool is closed")
	}
	idx, ok := p.pageTable.Get(pageNum)
	if !ok {
		return common.NewError(common.PageNotFound, "page %d is not resident", pageNum)
	}
	p.frames[idx].dirty = true
	return nil
}

// Force synchronously writes the page back to the store if it is dirty,
// regardless of pin state. Forcing a clean page performs no write.
func (p *Pool) Force(pageNum common.PageNumber) error {
	if p.closed {
		return common.NewError(common.NotInitialized, "pool is closed")
	}
	idx, ok := p.pageTable.Get(pageNum)
	if !ok {
		return common.NewError(common.PageNotFound, "page %d is not resident", pageNum)
	}
	return p.flushFrame(&p.frames[idx])
}

// FlushAll writes back every dirty unpinned frame. Pinned dirty frames are
// skipped silently and stay dirty: bulk flush must not disturb in-flight
// readers and writers; forcing a pinned page is Force's job.
func (p *Pool) FlushAll() error {
	if p.closed {
		return common.NewError(common.NotInitialized, "pool is closed")
	}
	for i := range p.frames {
		fr := &p.frames[i]
		if fr.resident && fr.dirty && fr.pinCount == 0 {
			if err := p.flushFrame(fr); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close flushes every dirty unpinned frame, releases the frame arena, and
// closes the underlying store. Pinned dirty frames are left unflushed
// rather than blocking the close. A failed flush aborts the close: frames
// and the store handle remain allocated so the caller may retry. After a
// successful Close, every operation fails with NotInitialized.
func (p *Pool) Close() error {
	if p.closed {
		return common.NewError(common.NotInitialized, "pool is closed")
	}
	if err := p.FlushAll(); err != nil {
		return err
	}

	p.closed = true
	p.frames = nil
	p.pageTable = btree.Map[common.PageNumber, int]{}
	return p.store.Close()
}

// FrameContents returns, per frame slot, the resident page number or
// NoPage for empty slots. Point-in-time snapshot, non-mutating.
func (p *Pool) FrameContents() []common.PageNumber {
	contents := make([]common.PageNumber, len(p.frames))
	for i := range p.frames {
		if p.frames[i].resident {
			contents[i] = p.frames[i].pageNum
		} else {
			contents[i] = common.NoPage
		}
	}
	return contents
}

// DirtyFlags returns each frame's dirty flag. Empty frames are clean.
func (p *Pool) DirtyFlags() []bool {
	flags := make([]bool, len(p.frames))
	for i := range p.frames {
		flags[i] = p.frames[i].dirty
	}
	return flags
}

// PinCounts returns each frame's pin count. Empty frames are zero.
func (p *Pool) PinCounts() []int {
	counts := make([]int, len(p.frames))
	for i := range p.frames {
		counts[i] = p.frames[i].pinCount
	}
	return counts
}

// ResidentPages returns the resident page numbers in ascending order.
func (p *Pool) ResidentPages() []common.PageNumber {
	return p.pageTable.Keys()
}

// ReadCount returns the number of block-store reads performed since the
// pool was created.
func (p *Pool) ReadCount() int {
	return p.readCount
}

// WriteCount returns the number of block-store writes performed since the
// pool was created.
func (p *Pool) WriteCount() int {
	return p.writeCount
}

// Strategy returns the configured replacement strategy.
func (p *Pool) Strategy() common.ReplacementStrategy {
	return p.strategy
}

// Capacity returns the number of frames.
func (p *Pool) Capacity() int {
	return len(p.frames)
}

// Store returns the underlying block store.
func (p *Pool) Store() BlockFile {
	return p.store
}
