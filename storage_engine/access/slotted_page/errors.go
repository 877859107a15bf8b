package slottedpage

import "github.com/pkg/errors"

var (
	// ErrPageFull is returned by InsertRecord when the record does not fit.
	ErrPageFull = errors.New("page full")

	// ErrBadPageID is returned when assigning InvalidPageID, or when a RID
	// from another page is used for lookup or traversal.
	ErrBadPageID = errors.New("bad page id")

	// ErrBadSlotID is returned when a RID offset lies outside the page, or
	// when traversal is asked to continue from a record that is not there.
	ErrBadSlotID = errors.New("bad slot id")

	ErrEmptyRecord  = errors.New("empty record")
	ErrPageTooSmall = errors.New("page too small")
	ErrCorruptPage  = errors.New("corrupt page")
)
