package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"SlottedDB/logger"
	slottedpage "SlottedDB/storage_engine/access/slotted_page"
	"SlottedDB/storage_engine/conf"
	diskmanager "SlottedDB/storage_engine/disk_manager"
	"SlottedDB/storage_engine/page"
	"SlottedDB/types"

	"github.com/pkg/errors"
)

const help = `commands:
  new               allocate a page, chain it after the current one, use it
  use <id>          switch to page <id>
  insert <text>     insert a record, prints its rid offset
  get <offset>      print the record at rid offset
  delete <offset>   delete the record at rid offset
  scan              list every record in directory order
  dump              dump the current page
  space             available bytes on the current page
  flush             write the current page and sync
  exit`

// shell holds the one page currently being worked on.
type shell struct {
	dm *diskmanager.DiskManager
	pg *page.Page
	sp *slottedpage.SlottedPage
}

func main() {
	configPath := flag.String("config", "conf/slotted.ini", "path to ini config")
	flag.Parse()

	cfg, err := conf.NewCfg().Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitLogger(cfg.LogConfig()); err != nil {
		logger.Warnf("logging to the standard streams only: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		logger.Fatalf("create data dir: %v", err)
	}
	dm, err := diskmanager.NewDiskManager(filepath.Join(cfg.DataDir, cfg.PageFile), cfg.PageSize,
		diskmanager.CacheConfig{NumCounters: cfg.CacheNumCounters, MaxCost: cfg.CacheMaxCost})
	if err != nil {
		logger.Fatalf("open page file: %v", err)
	}
	defer dm.Close()
	logger.Infof("opened %s: %d pages of %d bytes", dm.Path(), dm.NumPages(), dm.PageSize())

	sh := &shell{dm: dm}
	if dm.NumPages() == 0 {
		err = sh.newPage()
	} else {
		err = sh.use(0)
	}
	if err != nil {
		logger.Fatalf("open first page: %v", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	// REPL
	for {
		fmt.Printf("page %d> ", sh.pg.ID)

		if !scanner.Scan() { // Ctrl+D pressed
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") {
			break
		}
		if line == "" {
			continue
		}

		if err := sh.exec(line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}

	if err := sh.flush(); err != nil {
		logger.Errorf("flush on exit: %v", err)
	}
}

func (sh *shell) exec(line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	sh.pg.Lock()
	defer sh.pg.Unlock()

	switch strings.ToLower(cmd) {
	case "new":
		return sh.newPage()
	case "use":
		id, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return errors.Wrapf(err, "page id %q", arg)
		}
		return sh.use(int32(id))
	case "insert":
		if arg == "" {
			return errors.New("usage: insert <text>")
		}
		rid, err := sh.sp.InsertRecord([]byte(arg))
		if err != nil {
			return err
		}
		fmt.Printf("inserted %s\n", rid)
	case "get":
		rid, err := sh.rid(arg)
		if err != nil {
			return err
		}
		rec, found, err := sh.sp.GetRecord(rid)
		if err != nil {
			return err
		}
		if !found {
			fmt.Printf("no record at %s\n", rid)
			return nil
		}
		fmt.Printf("%s: %q\n", rid, rec)
	case "delete":
		rid, err := sh.rid(arg)
		if err != nil {
			return err
		}
		if !sh.sp.DeleteRecord(rid) {
			fmt.Printf("no record at %s\n", rid)
			return nil
		}
		fmt.Printf("deleted %s\n", rid)
	case "scan":
		it := sh.sp.Records()
		for it.Next() {
			rec, err := it.Record()
			if err != nil {
				return err
			}
			fmt.Printf("%s: %q\n", it.RID(), rec)
		}
		return it.Err()
	case "dump":
		return sh.sp.DumpPage(os.Stdout)
	case "space":
		fmt.Printf("%d bytes available, %d records\n", sh.sp.AvailableSpace(), sh.sp.LiveCount())
	case "flush":
		if err := sh.flush(); err != nil {
			return err
		}
		return sh.dm.Sync()
	case "help":
		fmt.Println(help)
	default:
		return errors.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (sh *shell) rid(arg string) (types.RID, error) {
	off, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return types.RID{}, errors.Wrapf(err, "offset %q", arg)
	}
	return types.RID{PageID: sh.sp.PageID(), Offset: int32(off)}, nil
}

// newPage allocates and initialises a page, linking it after the current one.
func (sh *shell) newPage() error {
	pg, err := sh.dm.NewPage()
	if err != nil {
		return err
	}
	sp, err := slottedpage.NewSlottedPage(pg)
	if err != nil {
		return err
	}
	sp.Init()
	if err := sp.SetPageID(pg.ID); err != nil {
		return err
	}

	if sh.sp != nil {
		if err := sh.sp.SetNextPageID(pg.ID); err != nil {
			return err
		}
		if err := sp.SetPrevPageID(sh.sp.PageID()); err != nil {
			return err
		}
		if err := sh.flush(); err != nil {
			return err
		}
	}

	sh.pg, sh.sp = pg, sp
	logger.Infof("created page %d", pg.ID)
	return sh.flush()
}

func (sh *shell) use(id int32) error {
	if err := sh.flush(); err != nil {
		return err
	}
	pg, err := sh.dm.ReadPage(id)
	if err != nil {
		return err
	}
	sp, err := slottedpage.NewSlottedPage(pg)
	if err != nil {
		return err
	}
	if err := sp.Validate(); err != nil {
		return errors.Wrapf(err, "page %d refused, run inspect_page on %s", id, sh.dm.Path())
	}
	sh.pg, sh.sp = pg, sp
	return nil
}

func (sh *shell) flush() error {
	if sh.pg == nil || !sh.pg.IsDirty {
		return nil
	}
	return sh.dm.WritePage(sh.pg)
}
