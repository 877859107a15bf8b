// sptester exercises a single in-memory slotted page: header checks, then a
// batch of inserts followed by a full traversal.
// Run: go run ./cmd/sptester [-size 4096] [-records 20] [-record-size 20]
package main

import (
	"flag"
	"os"

	"SlottedDB/logger"
	slottedpage "SlottedDB/storage_engine/access/slotted_page"
	"SlottedDB/storage_engine/page"

	"github.com/pkg/errors"
)

type test struct {
	name string
	run  func() error
}

func main() {
	size := flag.Int("size", 4096, "page size in bytes")
	records := flag.Int("records", 20, "records to insert in the traversal test")
	recordSize := flag.Int("record-size", 20, "bytes per record")
	flag.Parse()

	logger.Infof("Running page tests.")

	failed := 0
	for _, tc := range []test{
		{"page initialization checks", func() error { return initChecks(*size) }},
		{"insert and traversal of records", func() error { return insertAndTraverse(*size, *records, *recordSize) }},
	} {
		logger.Infof("--- %s ---", tc.name)
		if err := tc.run(); err != nil {
			logger.Errorf("%s: %+v", tc.name, err)
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func newPage(size int) (*slottedpage.SlottedPage, error) {
	sp, err := slottedpage.NewSlottedPage(page.NewPage(0, size))
	if err != nil {
		return nil, err
	}
	sp.Init()
	if err := sp.SetPageID(7); err != nil {
		return nil, err
	}
	if err := sp.SetNextPageID(8); err != nil {
		return nil, err
	}
	return sp, nil
}

func initChecks(size int) error {
	sp, err := newPage(size)
	if err != nil {
		return err
	}

	logger.Infof("Current Page No.: %d, Next Page Id: %d, Prev Page Id: %d, Available Space: %d",
		sp.PageID(), sp.NextPageID(), sp.PrevPageID(), sp.AvailableSpace())

	if !sp.Empty() {
		return errors.New("page should be empty")
	}
	logger.Infof("Page empty as expected.")
	return sp.DumpPage(os.Stdout)
}

func insertAndTraverse(size, count, recordSize int) error {
	sp, err := newPage(size)
	if err != nil {
		return err
	}

	buf := make([]byte, recordSize)
	for i := 0; i < count; i++ {
		buf[0] = byte(i)
		rid, err := sp.InsertRecord(buf)
		if err != nil {
			return errors.Wrapf(err, "insert %d", i)
		}
		logger.Infof("Inserted record, RID %d, %d", rid.PageID, rid.Offset)
	}

	if sp.Empty() {
		return errors.New("the page cannot be empty")
	}

	seen := 0
	it := sp.Records()
	for it.Next() {
		rec, err := it.Record()
		if err != nil {
			return err
		}
		if len(rec) != recordSize || rec[0] != byte(seen) {
			return errors.Errorf("record %d came back as %v", seen, rec)
		}
		logger.Infof("Retrieved record, RID %d, %d", it.RID().PageID, it.RID().Offset)
		seen++
	}
	if err := it.Err(); err != nil {
		return err
	}
	if seen != count {
		return errors.Errorf("traversal saw %d of %d records", seen, count)
	}
	return sp.Validate()
}
