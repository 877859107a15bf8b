package diskmanager

import (
	"os"
	"sync"

	"github.com/dgraph-io/ristretto/v2"
)

// ############################################# DISK MANAGER #############################################

// DiskManager owns one page file. Page n lives at byte n*pageSize.
type DiskManager struct {
	filePath string
	file     *os.File
	pageSize int
	numPages int32 // pages allocated so far, written or not

	// page images by page id, kept in step with every write
	cache *ristretto.Cache[int32, []byte]

	mu sync.RWMutex
}

// CacheConfig sizes the page image cache. MaxCost is in bytes.
type CacheConfig struct {
	NumCounters int64
	MaxCost     int64
}

// DefaultCacheConfig holds roughly a thousand 4KB pages.
var DefaultCacheConfig = CacheConfig{
	NumCounters: 10000,
	MaxCost:     4 << 20,
}
