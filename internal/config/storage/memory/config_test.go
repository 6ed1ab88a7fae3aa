package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		cfg := New(nil)
		assert.Equal(t, defaultDefaultTTL, cfg.GetLifeWindow())
		assert.Equal(t, defaultShards, cfg.GetShards())
		assert.Equal(t, defaultMaxEntries, cfg.GetMaxEntriesInWindow())
	})

	t.Run("按非零字段覆盖", func(t *testing.T) {
		cfg := New(&MemoryOptions{DefaultTTL: time.Minute, MaxEntries: 50_000})
		assert.Equal(t, time.Minute, cfg.GetLifeWindow())
		assert.Equal(t, 10000, cfg.GetMaxEntriesInWindow())
		assert.Equal(t, defaultMaxEntrySize, cfg.GetMaxEntrySize())
	})
}
