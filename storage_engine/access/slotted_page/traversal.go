package slottedpage

import (
	"SlottedDB/types"

	"github.com/pkg/errors"
)

// FirstRecord returns the RID in the first non-hole directory entry.
func (sp *SlottedPage) FirstRecord() (types.RID, bool) {
	i := sp.nextLive(0)
	if i < 0 {
		return types.RID{}, false
	}
	return sp.ridAt(i), true
}

// NextRecord returns the RID in the next non-hole directory entry after cur.
// ok is false when cur is the last record. cur must name a record on this page.
func (sp *SlottedPage) NextRecord(cur types.RID) (next types.RID, ok bool, err error) {
	i, err := sp.locate(cur)
	if err != nil {
		return types.RID{}, false, err
	}
	if i < 0 {
		return types.RID{}, false, errors.Wrapf(ErrBadSlotID, "no record at %s", cur)
	}

	j := sp.nextLive(i + 1)
	if j < 0 {
		return types.RID{}, false, nil
	}
	return sp.ridAt(j), true, nil
}

// Iterator provides a forward-only scan over the records in directory order.
// It reads the page as it is at each step; restart with Records().
type Iterator struct {
	sp      *SlottedPage
	rid     types.RID
	started bool
	valid   bool
	err     error
}

func (sp *SlottedPage) Records() *Iterator {
	return &Iterator{sp: sp}
}

// Next advances the iterator. Returns false when exhausted or on error.
func (it *Iterator) Next() bool {
	if it.err != nil || (it.started && !it.valid) {
		return false
	}
	if !it.started {
		it.started = true
		it.rid, it.valid = it.sp.FirstRecord()
		return it.valid
	}
	it.rid, it.valid, it.err = it.sp.NextRecord(it.rid)
	return it.valid
}

// RID returns the current record id.
func (it *Iterator) RID() types.RID {
	return it.rid
}

// Record returns a copy of the current record.
func (it *Iterator) Record() ([]byte, error) {
	rec, found, err := it.sp.GetRecord(it.rid)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(ErrBadSlotID, "record %s no longer on page", it.rid)
	}
	return rec, nil
}

// Err returns the error that stopped the iterator, if any.
func (it *Iterator) Err() error {
	return it.err
}
