package slottedpage

import (
	"math"

	"SlottedDB/storage_engine/page"
	"SlottedDB/types"

	"github.com/pkg/errors"
)

/*
This file contains the SlottedPage wrapper and its initialisation.

Slotted page binary layout (all values big-endian int32):

	Offset  Size        Field
	──────────────────────────────────────────────────────
	0       4           SlotCount     — directory entries, holes included
	4       4           PageID
	8       4           NextPageID
	12      4           PrevPageID
	16      4           FreeSpaceEnd  — last byte still free for records
	──────────────────────────────────────────────────────
	20      8*SlotCount slot directory

	[ header 20B ][ slot dir → ][ free space ][ ← records ]
	0            20            ^              ^            len(Data)
	                           dir end        FreeSpaceEnd+1

	Slot directory grows FORWARD from HeaderSize.
	Records grow BACKWARD from the end of the page.

A slot entry is 8 bytes: [ Key int32 ][ Offset int32 ]

	Key    — the record id handed out by InsertRecord, 0 = hole.
	Offset — byte offset where the record currently starts.

Key is the offset the record was first written at, so a fresh RID is the
record's address. Compaction moves records and rewrites Offset but never Key,
so a RID keeps naming the same record while others are deleted.

Records are packed with no gaps: a record runs from its Offset up to the Offset
of the nearest live entry earlier in the directory, or to the end of the page.
Directory order is therefore descending address order.
*/
const (
	offSlotCount    = 0
	offPageID       = 4
	offNextPageID   = 8
	offPrevPageID   = 12
	offFreeSpaceEnd = 16

	// HeaderSize is the fixed header size in bytes.
	HeaderSize = 20

	// SlotSize is the byte size of one directory entry: Key(4) + Offset(4).
	SlotSize = 8

	// MinPageSize fits the header, one slot and a one byte record.
	MinPageSize = HeaderSize + SlotSize + 1

	// MaxPageSize keeps every offset representable in an int32 field.
	MaxPageSize = math.MaxInt32
)

// SlottedPage lays the slotted layout over a page buffer it does not own.
// It holds nothing but the page reference; every field lives in pg.Data.
type SlottedPage struct {
	pg *page.Page
}

// NewSlottedPage wraps pg without touching its bytes. Call Init on a fresh
// buffer before using it.
func NewSlottedPage(pg *page.Page) (*SlottedPage, error) {
	if pg == nil {
		return nil, errors.Wrap(ErrPageTooSmall, "nil page")
	}
	if n := len(pg.Data); n < MinPageSize || n > MaxPageSize {
		return nil, errors.Wrapf(ErrPageTooSmall, "page of %d bytes, need [%d, %d]", n, MinPageSize, MaxPageSize)
	}
	return &SlottedPage{pg: pg}, nil
}

// Init stamps an empty slotted page into the buffer.
//
// After this call:
//   - SlotCount    == 0
//   - PageID, NextPageID, PrevPageID == InvalidPageID (unset)
//   - FreeSpaceEnd == len(Data)-1
//   - all other bytes zeroed
func (sp *SlottedPage) Init() {
	clear(sp.pg.Data)

	sp.putInt(offSlotCount, 0)
	sp.putInt(offPageID, types.InvalidPageID)
	sp.putInt(offNextPageID, types.InvalidPageID)
	sp.putInt(offPrevPageID, types.InvalidPageID)
	sp.setFreeSpaceEnd(len(sp.pg.Data) - 1)

	sp.pg.PageType = types.PageTypeSlotted
	sp.pg.IsDirty = true
}

// Page returns the wrapped page.
func (sp *SlottedPage) Page() *page.Page {
	return sp.pg
}

// Size is the page capacity in bytes.
func (sp *SlottedPage) Size() int {
	return len(sp.pg.Data)
}
