package common

// PageSize is the fixed size, in bytes, of every page and of every block in
// the backing store. Block k of a store occupies byte offset k*PageSize.
const PageSize int = 4096

// PageNumber uniquely identifies a fixed-size block within a page store.
// Valid page numbers are non-negative.
type PageNumber int32

// NoPage marks an unoccupied frame slot in introspection snapshots.
const NoPage PageNumber = -1

// ReplacementStrategy selects the victim-selection policy of a buffer pool.
type ReplacementStrategy int

const (
	// FIFO evicts the unpinned frame whose page was loaded earliest.
	FIFO ReplacementStrategy = iota
	// LRU evicts the unpinned frame whose page was used least recently.
	LRU
)

// String returns a human-readable name for the strategy.
func (s ReplacementStrategy) String() string {
	switch s {
	case FIFO:
		return "FIFO"
	case LRU:
		return "LRU"
	}
	return "unknown"
}
