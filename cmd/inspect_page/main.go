// Inspect a slotted page file.
// Usage: go run ./cmd/inspect_page [-page-size 4096] <pages.db>
// Example: go run ./cmd/inspect_page data/pages.db
package main

import (
	"flag"
	"fmt"
	"os"

	"SlottedDB/logger"
	slottedpage "SlottedDB/storage_engine/access/slotted_page"
	diskmanager "SlottedDB/storage_engine/disk_manager"
	"SlottedDB/types"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func main() {
	pageSize := flag.Int("page-size", types.PageSize, "page size the file was written with")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-page-size N] <pages.db>\n", os.Args[0])
		os.Exit(1)
	}
	path := flag.Arg(0)

	dm, err := diskmanager.NewDiskManager(path, *pageSize, diskmanager.DefaultCacheConfig)
	if err != nil {
		logger.Fatalf("open %s: %v", path, err)
	}
	defer dm.Close()

	n := dm.NumPages()
	fmt.Printf("Page file: %s, %d pages, %s\n", dm.Path(), n, humanize.Bytes(uint64(n)*uint64(dm.PageSize())))

	bad := 0
	for id := int32(0); id < n; id++ {
		pg, err := dm.ReadPage(id)
		if err != nil {
			fmt.Printf("[page %d] read error: %v\n", id, err)
			bad++
			continue
		}
		sp, err := slottedpage.NewSlottedPage(pg)
		if err != nil {
			fmt.Printf("[page %d] %v\n", id, err)
			bad++
			continue
		}
		fmt.Println()
		if err := sp.DumpPage(os.Stdout); err != nil {
			if errors.Cause(err) != slottedpage.ErrCorruptPage {
				logger.Fatalf("write dump: %v", err)
			}
			bad++
		}
	}

	if bad > 0 {
		os.Exit(1)
	}
}
