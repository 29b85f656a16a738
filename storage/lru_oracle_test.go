package storage

import (
	"math/rand"
	"sort"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpastaria-del/buffer-manager/common"
)

// Fixed RNG seed for reproducibility.
const oracleSeed = 1

// TestPool_LRUMatchesReferenceCache cross-checks the pool's LRU policy
// against hashicorp's LRU cache over a randomized access trace. Every
// access pins and immediately unpins, so all frames stay evictable and
// both caches see the identical reference stream; their resident sets
// must then agree at every checkpoint.
func TestPool_LRUMatchesReferenceCache(t *testing.T) {
	const (
		capacity = 8
		universe = 32
		numOps   = 10000
	)

	pool, faulty := setupPool(t, capacity, common.LRU, 0)
	require.NoError(t, faulty.EnsureCapacity(universe))

	oracle, err := lru.New[common.PageNumber, struct{}](capacity)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(oracleSeed))
	for op := 0; op < numOps; op++ {
		pageNum := common.PageNumber(r.Intn(universe))

		_, err := pool.Pin(pageNum)
		require.NoError(t, err)
		require.NoError(t, pool.Unpin(pageNum))
		oracle.Add(pageNum, struct{}{})

		if op%1000 == 999 {
			expected := oracle.Keys()
			sort.Slice(expected, func(i, j int) bool { return expected[i] < expected[j] })
			assert.Equal(t, expected, pool.ResidentPages(),
				"resident sets diverged after %d operations", op+1)
		}
	}
}

func randomTrace(universe, length int) []common.PageNumber {
	r := rand.New(rand.NewSource(oracleSeed))
	zipf := rand.NewZipf(r, 1.2, 1, uint64(universe-1))
	trace := make([]common.PageNumber, length)
	for i := range trace {
		trace[i] = common.PageNumber(zipf.Uint64())
	}
	return trace
}

// BenchmarkLRU compares the pool's pin/unpin hot path against hashicorp's
// LRU over a skewed access trace. The pool does real I/O on misses, so
// this measures the full cache-management cost, not just bookkeeping.
func BenchmarkLRU(b *testing.B) {
	const (
		capacity = 128
		universe = 512
	)
	trace := randomTrace(universe, 1<<16)

	b.Run("Pool", func(b *testing.B) {
		manager := NewStoreManager(b.TempDir())
		if err := manager.Create("bench.dat"); err != nil {
			b.Fatal(err)
		}
		bf, err := manager.Open("bench.dat")
		if err != nil {
			b.Fatal(err)
		}
		if err := bf.EnsureCapacity(universe); err != nil {
			b.Fatal(err)
		}
		pool, err := NewPool(capacity, common.LRU, bf)
		if err != nil {
			b.Fatal(err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			pageNum := trace[i%len(trace)]
			if _, err := pool.Pin(pageNum); err != nil {
				b.Fatal(err)
			}
			if err := pool.Unpin(pageNum); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("Reference", func(b *testing.B) {
		cache, err := lru.New[common.PageNumber, struct{}](capacity)
		if err != nil {
			b.Fatal(err)
		}

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			pageNum := trace[i%len(trace)]
			if _, ok := cache.Get(pageNum); !ok {
				cache.Add(pageNum, struct{}{})
			}
		}
	})
}
