package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vpastaria-del/buffer-manager/common"
)

func resident(pageNum common.PageNumber, pinCount int, arrival, lastUsed uint64) frame {
	return frame{
		resident: true,
		pageNum:  pageNum,
		pinCount: pinCount,
		arrival:  arrival,
		lastUsed: lastUsed,
	}
}

func TestPickVictim(t *testing.T) {
	empty := frame{}
	empty.reset()

	t.Run("SkipsPinnedAndEmptyFrames", func(t *testing.T) {
		frames := []frame{
			resident(0, 2, 1, 10),
			empty,
			resident(1, 0, 3, 8),
		}
		assert.Equal(t, 2, pickVictim(frames, common.LRU))
		assert.Equal(t, 2, pickVictim(frames, common.FIFO))
	})

	t.Run("FIFOTakesMinimumArrival", func(t *testing.T) {
		frames := []frame{
			resident(0, 0, 5, 20), // newest arrival, oldest use
			resident(1, 0, 2, 30),
			resident(2, 0, 9, 25),
		}
		assert.Equal(t, 1, pickVictim(frames, common.FIFO))
	})

	t.Run("LRUTakesMinimumLastUsed", func(t *testing.T) {
		frames := []frame{
			resident(0, 0, 5, 20),
			resident(1, 0, 2, 30),
			resident(2, 0, 9, 25),
		}
		assert.Equal(t, 0, pickVictim(frames, common.LRU))
	})

	t.Run("UnknownStrategyUsesLRU", func(t *testing.T) {
		frames := []frame{
			resident(0, 0, 5, 20),
			resident(1, 0, 2, 30),
		}
		assert.Equal(t, 0, pickVictim(frames, common.ReplacementStrategy(99)))
	})

	t.Run("TieBreaksToLowestIndex", func(t *testing.T) {
		frames := []frame{
			resident(0, 0, 4, 7),
			resident(1, 0, 4, 7),
		}
		assert.Equal(t, 0, pickVictim(frames, common.FIFO))
		assert.Equal(t, 0, pickVictim(frames, common.LRU))
	})

	t.Run("AllPinnedReturnsNone", func(t *testing.T) {
		frames := []frame{
			resident(0, 1, 1, 1),
			resident(1, 3, 2, 2),
		}
		assert.Equal(t, -1, pickVictim(frames, common.LRU))
	})

	t.Run("AllEmptyReturnsNone", func(t *testing.T) {
		frames := []frame{empty, empty}
		assert.Equal(t, -1, pickVictim(frames, common.FIFO))
	})
}
