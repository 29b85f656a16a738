// Package buffermanager wires a buffer pool to a disk-backed block store.
//
// The core lives in the storage package; this package only stands the
// pieces up: resolve the store through a StoreManager, create it when
// absent, and build a Pool over the open handle.
package buffermanager

import (
	"os"

	"github.com/vpastaria-del/buffer-manager/common"
	"github.com/vpastaria-del/buffer-manager/storage"
)

// Open opens the named store under dir, creating a one-block zero-filled
// store if it does not exist yet, and returns a buffer pool of the given
// capacity and replacement strategy over it.
func Open(dir, store string, capacity int, strategy common.ReplacementStrategy) (*storage.Pool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, common.WrapError(common.StoreIO, err, "create store directory %q", dir)
	}

	manager := storage.NewStoreManager(dir)
	bf, err := manager.Open(store)
	if err != nil {
		if !common.IsCode(err, common.StoreNotFound) {
			return nil, err
		}
		if err := manager.Create(store); err != nil {
			return nil, err
		}
		if bf, err = manager.Open(store); err != nil {
			return nil, err
		}
	}

	return storage.NewPool(capacity, strategy, bf)
}
