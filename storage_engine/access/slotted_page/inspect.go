package slottedpage

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// Checksum is the xxhash64 of the whole page image.
func (sp *SlottedPage) Checksum() uint64 {
	return xxhash.Sum64(sp.pg.Data)
}

// dumpWriter keeps the first write error and drops everything after it.
type dumpWriter struct {
	w   io.Writer
	err error
}

func (d *dumpWriter) printf(format string, args ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// DumpPage writes a human-readable dump of the page to w: header, every
// directory entry, and the contents of each live record. Debugging only.
//
// A page whose header is out of range gets its header fields and the error,
// nothing more. A page that fails Validate gets its raw directory entries
// without record bytes. DumpPage returns the first write error, or the
// validation error for a corrupt page.
func (sp *SlottedPage) DumpPage(w io.Writer) error {
	d := &dumpWriter{w: w}

	d.printf("Page %d (next %d, prev %d), %s\n", sp.PageID(), sp.NextPageID(), sp.PrevPageID(),
		humanize.Bytes(uint64(sp.Size())))

	if err := sp.checkHeader(); err != nil {
		d.printf("  slots: %d\n", sp.SlotCount())
		d.printf("  free space ends at: %d\n", sp.FreeSpaceEnd())
		d.printf("  INVALID: %v\n", err)
		if d.err != nil {
			return d.err
		}
		return err
	}

	d.printf("  slots: %d (live %d)\n", sp.SlotCount(), sp.LiveCount())
	d.printf("  free space ends at: %d\n", sp.FreeSpaceEnd())
	d.printf("  available: %s\n", humanize.Bytes(uint64(sp.AvailableSpace())))

	invalid := sp.Validate()
	for i, n := 0, sp.SlotCount(); i < n; i++ {
		key, off := sp.slot(i)
		switch {
		case key == 0:
			d.printf("  [slot %d] hole\n", i)
		case invalid != nil:
			d.printf("  [slot %d] rid %d offset %d\n", i, key, off)
		default:
			end := sp.recordEnd(i)
			d.printf("  [slot %d] rid %d offset %d len %d: %v\n", i, key, off, end-off, sp.pg.Data[off:end])
		}
	}
	d.printf("  checksum: %016x\n", sp.Checksum())

	if invalid != nil {
		d.printf("  INVALID: %v\n", invalid)
	}
	if d.err != nil {
		return d.err
	}
	return invalid
}

// checkHeader checks that the slot count and FreeSpaceEnd describe a
// directory that fits inside the page. Slots may only be read once it passes.
func (sp *SlottedPage) checkHeader() error {
	size := len(sp.pg.Data)
	n := sp.SlotCount()
	free := sp.FreeSpaceEnd()

	if n < 0 || slotPos(n) > size {
		return errors.Wrapf(ErrCorruptPage, "slot count %d", n)
	}
	if free < HeaderSize-1 || free >= size {
		return errors.Wrapf(ErrCorruptPage, "free space end %d outside page of %d bytes", free, size)
	}
	if slotPos(n) > free+1 {
		return errors.Wrapf(ErrCorruptPage, "directory ends at %d past free space end %d", slotPos(n), free)
	}
	return nil
}

// Validate checks the layout invariants:
//   - the directory ends at or below FreeSpaceEnd+1
//   - FreeSpaceEnd lies inside the page
//   - live keys are unique and inside the page, holes are all zero
//   - live offsets strictly decrease in directory order and sit above FreeSpaceEnd
//   - the lowest record starts at FreeSpaceEnd+1 (the heap has no gaps)
//   - the last directory entry is live
func (sp *SlottedPage) Validate() error {
	if err := sp.checkHeader(); err != nil {
		return err
	}
	size := len(sp.pg.Data)
	n := sp.SlotCount()
	free := sp.FreeSpaceEnd()

	above := size
	keys := make(map[int]int, n)
	for i := 0; i < n; i++ {
		key, off := sp.slot(i)
		if key == 0 {
			if off != 0 {
				return errors.Wrapf(ErrCorruptPage, "hole at slot %d has offset %d", i, off)
			}
			if i == n-1 {
				return errors.Wrapf(ErrCorruptPage, "trailing hole at slot %d", i)
			}
			continue
		}
		if key < 0 || key >= size {
			return errors.Wrapf(ErrCorruptPage, "slot %d key %d outside page", i, key)
		}
		if prev, dup := keys[key]; dup {
			return errors.Wrapf(ErrCorruptPage, "slots %d and %d share key %d", prev, i, key)
		}
		keys[key] = i
		if off >= above || off <= free {
			return errors.Wrapf(ErrCorruptPage, "slot %d offset %d out of order (above %d, free end %d)",
				i, off, above, free)
		}
		above = off
	}

	if above != free+1 {
		if n == 0 {
			return errors.Wrapf(ErrCorruptPage, "empty page with free space end %d", free)
		}
		return errors.Wrapf(ErrCorruptPage, "lowest record at %d, free space end %d", above, free)
	}
	return nil
}
