package slottedpage

import (
	"SlottedDB/logger"
	"SlottedDB/types"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ─────────────────────────────────────────────────────────────────────────────
// Record operations
// ─────────────────────────────────────────────────────────────────────────────

// InsertRecord copies record into the page just below the lowest stored
// record and appends a directory entry for it. The page is left untouched on
// error.
func (sp *SlottedPage) InsertRecord(record []byte) (types.RID, error) {
	if len(record) == 0 {
		return types.RID{}, errors.Wrapf(ErrEmptyRecord, "insert on page %d", sp.PageID())
	}
	if available := sp.AvailableSpace(); len(record) > available {
		return types.RID{}, errors.Wrapf(ErrPageFull, "record of %d bytes, %d available on page %d",
			len(record), available, sp.PageID())
	}

	start := sp.FreeSpaceEnd() - len(record) + 1
	copy(sp.pg.Data[start:], record)

	key := sp.newKey(start)
	n := sp.SlotCount()
	sp.setSlot(n, key, start)
	sp.setSlotCount(n + 1)
	sp.setFreeSpaceEnd(start - 1)

	sp.pg.IsDirty = true
	return types.RID{PageID: sp.PageID(), Offset: int32(key)}, nil
}

// DeleteRecord removes the record named by rid and compacts the heap so the
// records stay contiguous. Returns false, with nothing changed, when rid does
// not name a record on this page.
//
// Every record below the deleted one slides up by its length and has the
// offset in its directory entry moved with it; keys, and so RIDs, stay put.
// The deleted slot becomes a hole, unless it is the last entry, in which case
// the directory is trimmed back to the last live entry.
func (sp *SlottedPage) DeleteRecord(rid types.RID) bool {
	if rid.PageID != sp.PageID() || !sp.inBounds(rid.Offset) {
		return false
	}
	i := sp.findSlot(int(rid.Offset))
	if i < 0 {
		return false
	}

	data := sp.pg.Data
	start := sp.slotOffset(i)
	end := sp.recordEnd(i)
	length := end - start
	low := sp.FreeSpaceEnd() + 1

	// [low, start) moves to [low+length, end); copy handles the overlap.
	copy(data[low+length:end], data[low:start])
	clear(data[low : low+length])

	n := sp.SlotCount()
	for j := i + 1; j < n; j++ {
		if key, off := sp.slot(j); key != 0 && off < start {
			sp.setSlot(j, key, off+length)
		}
	}
	sp.setSlot(i, 0, 0)
	for n > 0 && sp.slotOffset(n-1) == 0 {
		n--
	}

	sp.setSlotCount(n)
	sp.setFreeSpaceEnd(low - 1 + length)
	sp.pg.IsDirty = true

	logger.WithFields(logrus.Fields{
		"page":  rid.PageID,
		"moved": start - low,
		"slots": n,
	}).Debugf("deleted %d bytes at %d", length, start)
	return true
}

// GetRecord returns a copy of the record named by rid. found is false when
// rid is a well-formed reference to no record.
func (sp *SlottedPage) GetRecord(rid types.RID) (record []byte, found bool, err error) {
	i, err := sp.locate(rid)
	if err != nil {
		return nil, false, err
	}
	if i < 0 {
		return nil, false, nil
	}

	start := sp.slotOffset(i)
	end := sp.recordEnd(i)
	out := make([]byte, end-start)
	copy(out, sp.pg.Data[start:end])
	return out, true, nil
}

// locate validates rid for this page and returns its directory position,
// -1 when no live entry carries its key.
func (sp *SlottedPage) locate(rid types.RID) (int, error) {
	if rid.PageID != sp.PageID() {
		return -1, errors.Wrapf(ErrBadPageID, "rid %s used on page %d", rid, sp.PageID())
	}
	if !sp.inBounds(rid.Offset) {
		return -1, errors.Wrapf(ErrBadSlotID, "offset %d outside page of %d bytes", rid.Offset, len(sp.pg.Data))
	}
	return sp.findSlot(int(rid.Offset)), nil
}
