package slottedpage

import (
	"encoding/binary"
	"fmt"

	"SlottedDB/types"

	"github.com/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Raw int access. Every header field and directory entry goes through here.
// ─────────────────────────────────────────────────────────────────────────────

func (sp *SlottedPage) getInt(off int) int32 {
	sp.checkRange(off)
	return int32(binary.BigEndian.Uint32(sp.pg.Data[off:]))
}

func (sp *SlottedPage) putInt(off int, v int32) {
	sp.checkRange(off)
	binary.BigEndian.PutUint32(sp.pg.Data[off:], uint32(v))
}

func (sp *SlottedPage) checkRange(off int) {
	if off < 0 || off+4 > len(sp.pg.Data) {
		panic(fmt.Sprintf("slottedpage: int field at %d outside page of %d bytes", off, len(sp.pg.Data)))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Header accessors
// ─────────────────────────────────────────────────────────────────────────────

func (sp *SlottedPage) PageID() int32 {
	return sp.getInt(offPageID)
}

func (sp *SlottedPage) SetPageID(id int32) error {
	return sp.setID(offPageID, id, "page id")
}

func (sp *SlottedPage) NextPageID() int32 {
	return sp.getInt(offNextPageID)
}

func (sp *SlottedPage) SetNextPageID(id int32) error {
	return sp.setID(offNextPageID, id, "next page id")
}

func (sp *SlottedPage) PrevPageID() int32 {
	return sp.getInt(offPrevPageID)
}

func (sp *SlottedPage) SetPrevPageID(id int32) error {
	return sp.setID(offPrevPageID, id, "prev page id")
}

func (sp *SlottedPage) setID(off int, id int32, field string) error {
	if id == types.InvalidPageID {
		return errors.Wrapf(ErrBadPageID, "cannot set %s to %d", field, id)
	}
	sp.putInt(off, id)
	sp.pg.IsDirty = true
	return nil
}

// SlotCount is the span of the directory: every position ever handed out and
// not yet trimmed, holes included. All directory scans stop here.
func (sp *SlottedPage) SlotCount() int {
	return int(sp.getInt(offSlotCount))
}

func (sp *SlottedPage) setSlotCount(n int) {
	sp.putInt(offSlotCount, int32(n))
}

// LiveCount is the number of records stored, i.e. non-hole directory entries.
func (sp *SlottedPage) LiveCount() int {
	live := 0
	for i, n := 0, sp.SlotCount(); i < n; i++ {
		if key, _ := sp.slot(i); key != 0 {
			live++
		}
	}
	return live
}

// FreeSpaceEnd is the last byte still available for record storage.
func (sp *SlottedPage) FreeSpaceEnd() int {
	return int(sp.getInt(offFreeSpaceEnd))
}

func (sp *SlottedPage) setFreeSpaceEnd(v int) {
	sp.putInt(offFreeSpaceEnd, int32(v))
}

// ─────────────────────────────────────────────────────────────────────────────
// Free space
// ─────────────────────────────────────────────────────────────────────────────

// AvailableSpace returns the largest record InsertRecord will accept.
//
//	available = FreeSpaceEnd + 1 - (HeaderSize + (SlotCount+1)*SlotSize)
//
// Every insert takes a new directory position, so the slot it will need is
// not counted as available.
func (sp *SlottedPage) AvailableSpace() int {
	dirEnd := slotPos(sp.SlotCount() + 1)
	available := sp.FreeSpaceEnd() + 1 - dirEnd
	if available < 0 {
		return 0
	}
	return available
}

// Empty reports whether the page holds no records. The directory is trimmed
// whenever its last entry becomes a hole, so no records means no slots.
func (sp *SlottedPage) Empty() bool {
	return sp.SlotCount() == 0
}
