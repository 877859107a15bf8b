package types

import "fmt"

const (
	PageSize = 4096 // default page size, 4KB

	// InvalidPageID marks an unset page / next / prev page id.
	InvalidPageID int32 = -1
)

type PageType uint8

const (
	PageTypeUnknown PageType = iota
	PageTypeSlotted
)

func (t PageType) String() string {
	switch t {
	case PageTypeSlotted:
		return "slotted"
	default:
		return "unknown"
	}
}

// RID identifies a record by the page it lives on and the byte offset in that
// page where the record starts. The offset is not a slot index.
type RID struct {
	PageID int32
	Offset int32
}

func (r RID) String() string {
	return fmt.Sprintf("(%d, %d)", r.PageID, r.Offset)
}
