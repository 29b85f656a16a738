package storage

import (
	"github.com/vpastaria-del/buffer-manager/common"
)

// BlockFile abstracts a growable file of equal-size blocks, the backing
// store behind a buffer pool. It handles block-level reads and writes as
// well as zero-filled growth; the pool consumes it without retrying or
// reinterpreting its failures.
//
// A BlockFile keeps a cursor, the block number of the most recent read or
// write, which the relative navigation helpers on DiskBlockFile build on.
type BlockFile interface {
	// ReadBlock reads the block identified by num into buf. The slice must
	// be exactly common.PageSize bytes and num must be strictly less than
	// NumBlocks(); reading beyond the extent fails with NonExistingBlock.
	// A short read at the tail of the file is zero-padded, not an error.
	ReadBlock(num common.PageNumber, buf []byte) error
	// WriteBlock writes buf to the block identified by num. The slice must
	// be exactly common.PageSize bytes. Writing beyond the current extent
	// grows the file first with zero-filled blocks.
	WriteBlock(num common.PageNumber, buf []byte) error
	// AppendEmptyBlock extends the file by one zero-filled block.
	AppendEmptyBlock() error
	// EnsureCapacity grows the file with zero-filled blocks until it holds
	// at least numBlocks blocks. A file already that large is left alone.
	EnsureCapacity(numBlocks int) error
	// NumBlocks returns the number of blocks currently in the file.
	NumBlocks() int
	// BlockPos returns the cursor: the block number of the most recent
	// read or write, or 0 for a freshly opened file.
	BlockPos() common.PageNumber
	// Sync forces any buffered writes to stable storage.
	Sync() error
	// Close closes the underlying file handle and releases resources.
	Close() error
}
