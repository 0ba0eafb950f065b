package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.rowdb/internal/storage"
)

func TestOpenPagerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.db")

	pager, err := storage.OpenPager(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer pager.Close()

	if pager.NumPages() != 0 {
		t.Fatalf("fresh file has %d pages, want 0", pager.NumPages())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file was not created: %v", err)
	}
}

func TestOpenPagerRejectsTornFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torn.db")
	if err := os.WriteFile(path, make([]byte, storage.PageSize+1), 0o666); err != nil {
		t.Fatal(err)
	}

	_, err := storage.OpenPager(path, testLogger())
	if !errors.Is(err, storage.ErrCorruptFile) {
		t.Fatalf("got %v, want ErrCorruptFile", err)
	}
}

func TestGetPageExtendsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grow.db")
	pager, err := storage.OpenPager(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer pager.Close()

	if got := pager.AllocatePage(); got != 0 {
		t.Fatalf("AllocatePage on empty file = %d, want 0", got)
	}

	if _, err := pager.GetPage(2); err != nil {
		t.Fatal(err)
	}
	if pager.NumPages() != 3 {
		t.Fatalf("NumPages = %d after touching page 2, want 3", pager.NumPages())
	}
	if got := pager.AllocatePage(); got != 3 {
		t.Fatalf("AllocatePage = %d, want 3", got)
	}
}

func TestGetPageBeyondCapacity(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.db")
	pager, err := storage.OpenPager(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer pager.Close()

	_, err = pager.GetPage(storage.MaxPages)
	if !errors.Is(err, storage.ErrTableFull) {
		t.Fatalf("got %v, want ErrTableFull", err)
	}
}

func TestFlushNeverLoadedPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flush.db")
	pager, err := storage.OpenPager(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer pager.Close()

	if err := pager.Flush(0); !errors.Is(err, storage.ErrNilPage) {
		t.Fatalf("got %v, want ErrNilPage", err)
	}
}

func TestCloseWritesWholePages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.db")
	pager, err := storage.OpenPager(path, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	page, err := pager.GetPage(0)
	if err != nil {
		t.Fatal(err)
	}
	page.Data[100] = 0xAB

	if _, err := pager.GetPage(1); err != nil {
		t.Fatal(err)
	}

	if err := pager.Close(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 2*storage.PageSize {
		t.Fatalf("file size = %d, want %d", info.Size(), 2*storage.PageSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if data[100] != 0xAB {
		t.Fatal("page 0 mutation did not reach disk")
	}
}
