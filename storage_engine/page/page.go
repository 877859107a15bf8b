package page

import (
	"SlottedDB/types"
	"sync"
)

/*
Page is the raw fixed-size buffer that a slotted page is laid over.

The page knows nothing about its own layout, it only owns the bytes. Reading and
writing it to disk is done by the disk manager
(/SlottedDB/storage_engine/disk_manager), and the record layout is
implemented by the slotted page wrapper
(/SlottedDB/storage_engine/access/slotted_page).

The mutex is not taken by either of them; whoever shares a page across
goroutines holds it around a whole logical operation.
*/
type Page struct {
	ID       int32
	Data     []byte
	IsDirty  bool
	PageType types.PageType
	mu       sync.RWMutex
}

// NewPage allocates a zeroed page of the given size.
func NewPage(id int32, size int) *Page {
	return &Page{
		ID:       id,
		Data:     make([]byte, size),
		PageType: types.PageTypeUnknown,
	}
}

// Size is the length of the underlying buffer. It never changes.
func (p *Page) Size() int {
	return len(p.Data)
}

func (p *Page) Lock() {
	p.mu.Lock()
}

func (p *Page) Unlock() {
	p.mu.Unlock()
}

func (p *Page) RLock() {
	p.mu.RLock()
}

func (p *Page) RUnlock() {
	p.mu.RUnlock()
}
