package storage

import (
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/vpastaria-del/buffer-manager/common"
)

// DiskBlockFile implements the BlockFile interface using a standard OS file.
// The file is a flat sequence of fixed-size blocks with no header; block 0
// is an ordinary data block like all others.
type DiskBlockFile struct {
	file *os.File
	// numBlocks caches the file size (in blocks) to avoid stat() syscalls
	// on every read. It is updated atomically after physical growth.
	numBlocks atomic.Int32
	// growMu serializes file expansion (Truncate) so concurrent growth
	// cannot shrink the cached count.
	growMu sync.Mutex
	// pos is the cursor: block number of the most recent read or write.
	pos atomic.Int32
}

// OpenDiskBlockFile wraps an already open OS file. The block count is
// derived from the current file size, rounding a ragged tail up to a full
// block so the trailing bytes stay reachable.
func OpenDiskBlockFile(file *os.File) (*DiskBlockFile, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, common.WrapError(common.StoreIO, err, "stat block file")
	}

	numBlocks := int32(stat.Size() / int64(common.PageSize))
	if stat.Size()%int64(common.PageSize) != 0 {
		numBlocks++
	}

	bf := &DiskBlockFile{file: file}
	bf.numBlocks.Store(numBlocks)
	return bf, nil
}

// ReadBlock reads the content of block num into buf. A short read at the
// tail of the file yields zeros for the missing bytes.
func (f *DiskBlockFile) ReadBlock(num common.PageNumber, buf []byte) error {
	common.Assert(len(buf) == common.PageSize, "read buffer must be exactly one block")
	if num < 0 || int32(num) >= f.numBlocks.Load() {
		return common.NewError(common.NonExistingBlock,
			"block %d does not exist (store has %d blocks)", num, f.numBlocks.Load())
	}

	offset := int64(num) * int64(common.PageSize)
	n, err := f.file.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return common.WrapError(common.StoreIO, err, "read block %d", num)
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}

	f.pos.Store(int32(num))
	return nil
}

// WriteBlock writes buf to block num, growing the file first if num lies
// beyond the current extent.
func (f *DiskBlockFile) WriteBlock(num common.PageNumber, buf []byte) error {
	common.Assert(len(buf) == common.PageSize, "write buffer must be exactly one block")
	if num < 0 {
		return common.NewError(common.InvalidArgument, "negative block number %d", num)
	}

	if int32(num) >= f.numBlocks.Load() {
		if err := f.EnsureCapacity(int(num) + 1); err != nil {
			return err
		}
	}

	offset := int64(num) * int64(common.PageSize)
	if _, err := f.file.WriteAt(buf, offset); err != nil {
		return common.WrapError(common.StoreIO, err, "write block %d", num)
	}

	f.pos.Store(int32(num))
	return nil
}

// AppendEmptyBlock extends the file by one zero-filled block.
func (f *DiskBlockFile) AppendEmptyBlock() error {
	f.growMu.Lock()
	defer f.growMu.Unlock()
	return f.growLocked(int(f.numBlocks.Load()) + 1)
}

// EnsureCapacity grows the file until it holds at least numBlocks blocks.
func (f *DiskBlockFile) EnsureCapacity(numBlocks int) error {
	f.growMu.Lock()
	defer f.growMu.Unlock()
	if int32(numBlocks) <= f.numBlocks.Load() {
		return nil
	}
	return f.growLocked(numBlocks)
}

// growLocked physically extends the file to numBlocks blocks. Truncate
// makes the OS report the new size immediately; reads from the new area
// return zeros, which is exactly the zero-filled growth the pool expects.
func (f *DiskBlockFile) growLocked(numBlocks int) error {
	newSize := int64(numBlocks) * int64(common.PageSize)
	if err := f.file.Truncate(newSize); err != nil {
		return common.WrapError(common.StoreIO, err, "grow store to %d blocks", numBlocks)
	}
	f.numBlocks.Store(int32(numBlocks))
	return nil
}

// NumBlocks returns the number of blocks currently in the file.
func (f *DiskBlockFile) NumBlocks() int {
	return int(f.numBlocks.Load())
}

// BlockPos returns the block number of the most recent read or write.
func (f *DiskBlockFile) BlockPos() common.PageNumber {
	return common.PageNumber(f.pos.Load())
}

// Sync flushes writes to stable storage.
func (f *DiskBlockFile) Sync() error {
	if err := f.file.Sync(); err != nil {
		return common.WrapError(common.StoreIO, err, "sync store")
	}
	return nil
}

// Close closes the underlying OS file.
func (f *DiskBlockFile) Close() error {
	if err := f.file.Close(); err != nil {
		return common.WrapError(common.StoreIO, err, "close store")
	}
	return nil
}

// Relative navigation over the cursor. These mirror the absolute ReadBlock
// with positions derived from BlockPos, so the same bounds checks apply:
// stepping before block 0 or past the last block fails with
// NonExistingBlock and leaves the cursor where it was.

// ReadFirstBlock reads block 0.
func (f *DiskBlockFile) ReadFirstBlock(buf []byte) error {
	return f.ReadBlock(0, buf)
}

// ReadPreviousBlock reads the block before the cursor.
func (f *DiskBlockFile) ReadPreviousBlock(buf []byte) error {
	return f.ReadBlock(f.BlockPos()-1, buf)
}

// ReadCurrentBlock re-reads the block at the cursor.
func (f *DiskBlockFile) ReadCurrentBlock(buf []byte) error {
	return f.ReadBlock(f.BlockPos(), buf)
}

// ReadNextBlock reads the block after the cursor.
func (f *DiskBlockFile) ReadNextBlock(buf []byte) error {
	return f.ReadBlock(f.BlockPos()+1, buf)
}

// ReadLastBlock reads the final block of the file.
func (f *DiskBlockFile) ReadLastBlock(buf []byte) error {
	return f.ReadBlock(common.PageNumber(f.NumBlocks()-1), buf)
}

// WriteCurrentBlock overwrites the block at the cursor.
func (f *DiskBlockFile) WriteCurrentBlock(buf []byte) error {
	return f.WriteBlock(f.BlockPos(), buf)
}
