package storage

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/vpastaria-del/buffer-manager/common"
)

// StoreManager manages the lifecycle of block stores rooted at a directory.
// It is the explicit registry of open stores: every handle is obtained from
// a manager and threaded through subsequent calls, there is no hidden
// process-wide table.
type StoreManager struct {
	rootDir string
	open    *xsync.MapOf[string, *DiskBlockFile]
}

// NewStoreManager initializes a manager rooted at rootDir.
func NewStoreManager(rootDir string) *StoreManager {
	return &StoreManager{
		rootDir: rootDir,
		open:    xsync.NewMapOf[string, *DiskBlockFile](),
	}
}

func (m *StoreManager) path(name string) string {
	return filepath.Join(m.rootDir, name)
}

// Create initializes a new one-block, zero-filled store. An existing store
// of the same name is truncated.
func (m *StoreManager) Create(name string) error {
	f, err := os.OpenFile(m.path(name), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return common.WrapError(common.StoreIO, err, "create store %q", name)
	}
	if err := f.Truncate(int64(common.PageSize)); err != nil {
		_ = f.Close()
		return common.WrapError(common.StoreIO, err, "initialize store %q", name)
	}
	if err := f.Close(); err != nil {
		return common.WrapError(common.StoreIO, err, "close store %q", name)
	}
	return nil
}

// Open returns a handle to the named store, failing with StoreNotFound if
// it does not exist. If the store is already open the existing handle is
// returned, so at most one DiskBlockFile exists per physical file.
func (m *StoreManager) Open(name string) (*DiskBlockFile, error) {
	if bf, ok := m.open.Load(name); ok {
		return bf, nil
	}

	f, err := os.OpenFile(m.path(name), os.O_RDWR, 0666)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, common.NewError(common.StoreNotFound, "store %q does not exist", name)
		}
		return nil, common.WrapError(common.StoreIO, err, "open store %q", name)
	}

	bf, err := OpenDiskBlockFile(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	actual, loaded := m.open.LoadOrStore(name, bf)
	if loaded {
		// Lost the race to another opener. Use theirs.
		_ = bf.Close()
		return actual, nil
	}
	return bf, nil
}

// CloseStore closes the named store and drops it from the registry.
// Closing a store that is not open is a no-op.
func (m *StoreManager) CloseStore(name string) error {
	bf, loaded := m.open.LoadAndDelete(name)
	if !loaded {
		return nil
	}
	return bf.Close()
}

// Destroy removes the named store, closing it first if it is open.
func (m *StoreManager) Destroy(name string) error {
	if err := m.CloseStore(name); err != nil {
		return err
	}
	if err := os.Remove(m.path(name)); err != nil {
		if os.IsNotExist(err) {
			return common.NewError(common.StoreNotFound, "store %q does not exist", name)
		}
		return common.WrapError(common.StoreIO, err, "destroy store %q", name)
	}
	return nil
}

// OpenStores returns the names of all currently open stores in sorted
// order.
func (m *StoreManager) OpenStores() []string {
	var names []string
	m.open.Range(func(name string, _ *DiskBlockFile) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)
	return names
}
