package slottedpage

import (
	"fmt"

	"SlottedDB/types"
)

// slotPos returns the byte offset in Data where slot i begins.
//
//	slot 0: bytes 20–27
//	slot 1: bytes 28–35
//	slot i: HeaderSize + i*SlotSize
func slotPos(i int) int {
	return HeaderSize + i*SlotSize
}

// slot reads directory entry i; i must be inside the directory.
func (sp *SlottedPage) slot(i int) (key, offset int) {
	sp.checkSlot(i, sp.SlotCount())
	base := slotPos(i)
	return int(sp.getInt(base)), int(sp.getInt(base + 4))
}

// slotOffset is the current start of the record in slot i, 0 for a hole.
func (sp *SlottedPage) slotOffset(i int) int {
	_, off := sp.slot(i)
	return off
}

// setSlot writes directory entry i; i may be one past the end when appending.
func (sp *SlottedPage) setSlot(i, key, offset int) {
	sp.checkSlot(i, sp.SlotCount()+1)
	base := slotPos(i)
	sp.putInt(base, int32(key))
	sp.putInt(base+4, int32(offset))
}

func (sp *SlottedPage) checkSlot(i, limit int) {
	if i < 0 || i >= limit {
		panic(fmt.Sprintf("slottedpage: slot %d outside directory [0, %d)", i, limit))
	}
}

// findSlot returns the directory position whose key is key, or -1.
func (sp *SlottedPage) findSlot(key int) int {
	if key <= 0 {
		return -1
	}
	for i, n := 0, sp.SlotCount(); i < n; i++ {
		if k, _ := sp.slot(i); k == key {
			return i
		}
	}
	return -1
}

// nextLive returns the first non-hole position at or after from, or -1.
func (sp *SlottedPage) nextLive(from int) int {
	for i, n := from, sp.SlotCount(); i < n; i++ {
		if k, _ := sp.slot(i); k != 0 {
			return i
		}
	}
	return -1
}

// recordEnd returns one past the last byte of the record in slot i: the start
// of the nearest live record before it in the directory, or the page end.
func (sp *SlottedPage) recordEnd(i int) int {
	for j := i - 1; j >= 0; j-- {
		if off := sp.slotOffset(j); off != 0 {
			return off
		}
	}
	return len(sp.pg.Data)
}

// newKey picks the key for a record written at start. start itself unless a
// live record that has since moved still owns it, then the nearest free value
// below start, then above it.
func (sp *SlottedPage) newKey(start int) int {
	if sp.findSlot(start) < 0 {
		return start
	}
	for k := start - 1; k > 0; k-- {
		if sp.findSlot(k) < 0 {
			return k
		}
	}
	for k := start + 1; k < len(sp.pg.Data); k++ {
		if sp.findSlot(k) < 0 {
			return k
		}
	}
	panic("slottedpage: no free record key")
}

func (sp *SlottedPage) inBounds(offset int32) bool {
	return offset >= 0 && int(offset) < len(sp.pg.Data)
}

func (sp *SlottedPage) ridAt(i int) types.RID {
	key, _ := sp.slot(i)
	return types.RID{PageID: sp.PageID(), Offset: int32(key)}
}
