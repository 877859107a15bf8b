package diskmanager

import (
	"os"

	"SlottedDB/logger"
	"SlottedDB/storage_engine/page"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

/*
This is main file for disk manager
It owns:
The os.File of the page file
Reading/writing whole pages at pageID*pageSize (ReadAt, WriteAt)
Page allocation (the next page id)
A ristretto cache of page images, so repeated reads skip the file

It knows nothing about what is inside a page. The slotted layout is laid over
the returned page by the caller.

Reads return a private copy of the page bytes; a page is only persisted by an
explicit WritePage.
*/

var (
	ErrPageNotFound = errors.New("page not found")
	ErrPageSize     = errors.New("page size mismatch")
	ErrClosed       = errors.New("disk manager closed")
)

func NewDiskManager(filePath string, pageSize int, cacheCfg CacheConfig) (*DiskManager, error) {
	if pageSize <= 0 {
		return nil, errors.Wrapf(ErrPageSize, "page size %d", pageSize)
	}

	file, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "open page file %s", filePath)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, errors.Wrapf(err, "stat page file %s", filePath)
	}
	if rem := stat.Size() % int64(pageSize); rem != 0 {
		logger.Warnf("page file %s has %d trailing bytes past the last full page", filePath, rem)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[int32, []byte]{
		NumCounters: cacheCfg.NumCounters,
		MaxCost:     cacheCfg.MaxCost,
		BufferItems: 64,
	})
	if err != nil {
		file.Close()
		return nil, errors.Wrap(err, "create page cache")
	}

	dm := &DiskManager{
		filePath: filePath,
		file:     file,
		pageSize: pageSize,
		numPages: int32(stat.Size() / int64(pageSize)),
		cache:    cache,
	}
	logger.Debugf("opened page file %s: %d pages of %d bytes", filePath, dm.numPages, pageSize)
	return dm, nil
}

// AllocatePage reserves the next page id. Nothing is written until the
// page is passed to WritePage.
func (dm *DiskManager) AllocatePage() (int32, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return 0, ErrClosed
	}
	id := dm.numPages
	dm.numPages++
	return id, nil
}

// NewPage allocates a page id and returns a zeroed, dirty page for it.
func (dm *DiskManager) NewPage() (*page.Page, error) {
	id, err := dm.AllocatePage()
	if err != nil {
		return nil, err
	}
	pg := page.NewPage(id, dm.pageSize)
	pg.IsDirty = true
	return pg, nil
}

// ReadPage returns page pageID. Allocated pages that were never written read
// back as zeros.
func (dm *DiskManager) ReadPage(pageID int32) (*page.Page, error) {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if dm.file == nil {
		return nil, ErrClosed
	}
	if pageID < 0 || pageID >= dm.numPages {
		return nil, errors.Wrapf(ErrPageNotFound, "page %d of %d", pageID, dm.numPages)
	}

	pg := page.NewPage(pageID, dm.pageSize)
	if img, ok := dm.cache.Get(pageID); ok {
		copy(pg.Data, img)
		return pg, nil
	}

	n, err := dm.file.ReadAt(pg.Data, dm.offset(pageID))
	if err != nil && n == 0 && dm.offset(pageID) < dm.fileSize() {
		return nil, errors.Wrapf(err, "read page %d", pageID)
	}
	// Pad with zeros if partial read
	clear(pg.Data[n:])

	dm.cache.Set(pageID, append([]byte(nil), pg.Data...), int64(dm.pageSize))
	return pg, nil
}

// WritePage writes pg at its page id and clears its dirty flag.
func (dm *DiskManager) WritePage(pg *page.Page) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return ErrClosed
	}
	if len(pg.Data) != dm.pageSize {
		return errors.Wrapf(ErrPageSize, "page %d has %d bytes, file uses %d", pg.ID, len(pg.Data), dm.pageSize)
	}
	if pg.ID < 0 || pg.ID >= dm.numPages {
		return errors.Wrapf(ErrPageNotFound, "page %d was never allocated", pg.ID)
	}

	if _, err := dm.file.WriteAt(pg.Data, dm.offset(pg.ID)); err != nil {
		return errors.Wrapf(err, "write page %d", pg.ID)
	}

	dm.cache.Del(pg.ID)
	dm.cache.Set(pg.ID, append([]byte(nil), pg.Data...), int64(dm.pageSize))
	dm.cache.Wait()

	pg.IsDirty = false
	return nil
}

func (dm *DiskManager) offset(pageID int32) int64 {
	return int64(pageID) * int64(dm.pageSize)
}

func (dm *DiskManager) fileSize() int64 {
	stat, err := dm.file.Stat()
	if err != nil {
		return 0
	}
	return stat.Size()
}

// NumPages is the number of allocated pages.
func (dm *DiskManager) NumPages() int32 {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.numPages
}

func (dm *DiskManager) PageSize() int {
	return dm.pageSize
}

func (dm *DiskManager) Path() string {
	return dm.filePath
}

// Sync flushes the file to stable storage.
func (dm *DiskManager) Sync() error {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	if dm.file == nil {
		return ErrClosed
	}
	return errors.Wrapf(dm.file.Sync(), "sync page file %s", dm.filePath)
}

// Close syncs and closes the file and drops the cache. Closing twice is a no-op.
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.file == nil {
		return nil
	}
	if err := dm.file.Sync(); err != nil {
		return errors.Wrap(err, "sync before close")
	}
	if err := dm.file.Close(); err != nil {
		return errors.Wrap(err, "close page file")
	}
	dm.file = nil
	dm.cache.Close()
	return nil
}
