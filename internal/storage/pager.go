package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.rowdb/internal/logger"
)

// Pager owns the database file and a fixed array of cached page buffers
// indexed by page number. Pages are read on first access and written back
// only on Close; the pager never interprets page contents.
type Pager struct {
	file       *os.File
	fileLength int64
	numPages   uint32
	pages      [MaxPages]*Page
	log        *logger.Logger
}

func OpenPager(path string, log *logger.Logger) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open db file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat db file %s: %w", path, err)
	}

	size := info.Size()
	if size%PageSize != 0 {
		f.Close()
		return nil, fmt.Errorf("%s (%d bytes): %w", path, size, ErrCorruptFile)
	}

	return &Pager{
		file:       f,
		fileLength: size,
		numPages:   uint32(size / PageSize),
		log:        log,
	}, nil
}

// NumPages is the count of pages known to the pager, in memory or on
// disk.
func (p *Pager) NumPages() uint32 {
	return p.numPages
}

// GetPage returns the cached buffer for pageNum, reading it from disk on
// first access. Asking for a page at or past numPages extends the table;
// the returned buffer is zeroed and numPages is raised.
func (p *Pager) GetPage(pageNum uint32) (*Page, error) {
	if pageNum >= MaxPages {
		return nil, fmt.Errorf("page %d out of bounds (max %d): %w", pageNum, MaxPages, ErrTableFull)
	}

	if p.pages[pageNum] == nil {
		page := NewPage(pageNum)

		if pageNum < uint32(p.fileLength/PageSize) {
			n, err := p.file.ReadAt(page.Data, int64(pageNum)*PageSize)
			if err != nil && !(errors.Is(err, io.EOF) && n == PageSize) {
				return nil, fmt.Errorf("read page %d: %w", pageNum, err)
			}
			p.log.Debugf("page %d read from disk", pageNum)
		}

		p.pages[pageNum] = page
		if pageNum >= p.numPages {
			p.numPages = pageNum + 1
		}
	}

	return p.pages[pageNum], nil
}

// AllocatePage returns the next unused page number. The caller is
// expected to populate it via GetPage right away.
func (p *Pager) AllocatePage() uint32 {
	return p.numPages
}

// Flush writes one cached page back to its slot in the file.
func (p *Pager) Flush(pageNum uint32) error {
	page := p.pages[pageNum]
	if page == nil {
		return fmt.Errorf("page %d: %w", pageNum, ErrNilPage)
	}

	n, err := p.file.WriteAt(page.Data, int64(pageNum)*PageSize)
	if err != nil {
		return fmt.Errorf("write page %d: %w", pageNum, err)
	}
	if n != PageSize {
		return fmt.Errorf("write page %d: wrote %d of %d bytes", pageNum, n, PageSize)
	}
	return nil
}

// Close flushes every populated cache slot and releases the file. All
// durability happens here; a process exit that skips Close loses every
// mutation since open.
func (p *Pager) Close() error {
	flushed := 0
	for i := uint32(0); i < p.numPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(i); err != nil {
			return err
		}
		p.pages[i] = nil
		flushed++
	}
	p.log.Debugf("flushed %d of %d pages", flushed, p.numPages)

	if err := p.file.Close(); err != nil {
		return fmt.Errorf("close db file: %w", err)
	}

	for i := range p.pages {
		p.pages[i] = nil
	}
	return nil
}
