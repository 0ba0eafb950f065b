package storage_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"go.rowdb/internal/logger"
	"go.rowdb/internal/storage"
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.ERROR)
}

func openTree(t *testing.T, path string) (*storage.BTree, *storage.Pager) {
	t.Helper()

	pager, err := storage.OpenPager(path, testLogger())
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	tree, err := storage.NewBTree(pager, testLogger())
	if err != nil {
		t.Fatalf("NewBTree: %v", err)
	}
	return tree, pager
}

func newTree(t *testing.T) (*storage.BTree, *storage.Pager) {
	t.Helper()
	return openTree(t, filepath.Join(t.TempDir(), "test.db"))
}

// rowForKey builds a RowSize value the tree can store; the tree never
// interprets it, so stamping the key at the front is enough to verify
// round trips.
func rowForKey(key uint32) []byte {
	row := make([]byte, storage.RowSize)
	binary.LittleEndian.PutUint32(row, key)
	return row
}

func mustInsert(t *testing.T, tree *storage.BTree, keys ...uint32) {
	t.Helper()
	for _, k := range keys {
		if err := tree.Insert(k, rowForKey(k)); err != nil {
			t.Fatalf("Insert %d: %v", k, err)
		}
	}
}

// treeChecker walks the whole tree verifying the structural invariants:
// ascending keys, the separator law, parent linkage and root placement.
type treeChecker struct {
	t      *testing.T
	pager  *storage.Pager
	keys   []uint32
	leaves []uint32
}

func checkTree(t *testing.T, pager *storage.Pager) *treeChecker {
	t.Helper()

	tc := &treeChecker{t: t, pager: pager}
	tc.checkNode(storage.RootPage, 0, true)
	tc.checkSiblingChain()
	return tc
}

func (tc *treeChecker) checkNode(pageNum, wantParent uint32, wantRoot bool) uint32 {
	tc.t.Helper()

	page, err := tc.pager.GetPage(pageNum)
	if err != nil {
		tc.t.Fatalf("GetPage %d: %v", pageNum, err)
	}

	if page.IsRoot() != wantRoot {
		tc.t.Fatalf("page %d: is_root = %v, want %v", pageNum, page.IsRoot(), wantRoot)
	}
	if page.Parent() != wantParent {
		tc.t.Fatalf("page %d: parent = %d, want %d", pageNum, page.Parent(), wantParent)
	}

	if page.NodeType() == storage.NodeLeaf {
		leaf := storage.WrapLeafPage(page)
		numCells := leaf.NumCells()

		var last uint32
		for i := uint32(0); i < numCells; i++ {
			k := leaf.Key(i)
			if i > 0 && k <= last {
				tc.t.Fatalf("leaf %d: keys not strictly ascending at cell %d (%d after %d)", pageNum, i, k, last)
			}
			last = k
			tc.keys = append(tc.keys, k)
		}
		tc.leaves = append(tc.leaves, pageNum)
		return last
	}

	internal := storage.WrapInternalPage(page)
	numKeys := internal.NumKeys()

	var lastSep uint32
	for i := uint32(0); i < numKeys; i++ {
		childNum, err := internal.Child(i)
		if err != nil {
			tc.t.Fatalf("internal %d: child %d: %v", pageNum, i, err)
		}
		childMax := tc.checkNode(childNum, pageNum, false)

		sep := internal.KeyAt(i)
		if childMax != sep {
			tc.t.Fatalf("internal %d: separator %d is %d, child max is %d", pageNum, i, sep, childMax)
		}
		if i > 0 && sep <= lastSep {
			tc.t.Fatalf("internal %d: separators not strictly ascending at %d", pageNum, i)
		}
		lastSep = sep
	}

	rightNum, err := internal.Child(numKeys)
	if err != nil {
		tc.t.Fatalf("internal %d: right child: %v", pageNum, err)
	}
	rightMax := tc.checkNode(rightNum, pageNum, false)
	if numKeys > 0 && rightMax <= lastSep {
		tc.t.Fatalf("internal %d: right child max %d not above last separator %d", pageNum, rightMax, lastSep)
	}
	return rightMax
}

// checkSiblingChain verifies that next-leaf links visit every leaf once,
// left to right, and end at 0.
func (tc *treeChecker) checkSiblingChain() {
	tc.t.Helper()

	pageNum := tc.leaves[0]
	for i, want := range tc.leaves {
		if pageNum != want {
			tc.t.Fatalf("sibling chain: leaf %d is page %d, want %d", i, pageNum, want)
		}
		page, err := tc.pager.GetPage(pageNum)
		if err != nil {
			tc.t.Fatalf("GetPage %d: %v", pageNum, err)
		}
		pageNum = storage.WrapLeafPage(page).NextLeaf()
	}
	if pageNum != 0 {
		tc.t.Fatalf("sibling chain: rightmost leaf points at %d, want 0", pageNum)
	}
}

// scanKeys walks a cursor across the whole table.
func scanKeys(t *testing.T, tree *storage.BTree) []uint32 {
	t.Helper()

	cur, err := tree.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var keys []uint32
	for !cur.EndOfTable() {
		k, err := cur.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		keys = append(keys, k)
		if err := cur.Advance(); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}
	return keys
}

func wantAscending(t *testing.T, got []uint32, want []uint32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("scan returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scan key %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEmptyTreeScan(t *testing.T) {
	tree, _ := newTree(t)

	cur, err := tree.Start()
	if err != nil {
		t.Fatal(err)
	}
	if !cur.EndOfTable() {
		t.Fatal("cursor on empty tree should be at end of table")
	}
}

func TestInsertAndFind(t *testing.T) {
	tree, pager := newTree(t)
	mustInsert(t, tree, 3, 1, 2)

	for _, k := range []uint32{1, 2, 3} {
		row, found, err := tree.FindRow(k)
		if err != nil {
			t.Fatalf("FindRow %d: %v", k, err)
		}
		if !found {
			t.Fatalf("FindRow %d: not found", k)
		}
		if got := binary.LittleEndian.Uint32(row); got != k {
			t.Fatalf("FindRow %d: row stamped %d", k, got)
		}
	}

	if _, found, _ := tree.FindRow(99); found {
		t.Fatal("FindRow 99 should not find anything")
	}

	checkTree(t, pager)
}

func TestDuplicateInsertLeavesTreeUnchanged(t *testing.T) {
	tree, pager := newTree(t)
	mustInsert(t, tree, 1)

	page, err := pager.GetPage(storage.RootPage)
	if err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), page.Data...)

	err = tree.Insert(1, rowForKey(1))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("duplicate insert: got %v, want ErrDuplicateKey", err)
	}

	if !bytes.Equal(before, page.Data) {
		t.Fatal("duplicate insert modified the root page")
	}
}

func TestLeafSplitAscending(t *testing.T) {
	tree, pager := newTree(t)

	// One past leaf capacity forces the first split and a fresh internal
	// root at page 0.
	want := make([]uint32, 0, storage.LeafMaxCells+1)
	for k := uint32(1); k <= storage.LeafMaxCells+1; k++ {
		mustInsert(t, tree, k)
		want = append(want, k)
	}

	root, err := pager.GetPage(storage.RootPage)
	if err != nil {
		t.Fatal(err)
	}
	if root.NodeType() != storage.NodeInternal {
		t.Fatal("root should be internal after the first leaf split")
	}

	tc := checkTree(t, pager)
	if len(tc.leaves) != 2 {
		t.Fatalf("got %d leaves, want 2", len(tc.leaves))
	}
	wantAscending(t, scanKeys(t, tree), want)
}

func TestInternalSplitOutOfOrder(t *testing.T) {
	tree, pager := newTree(t)

	// 37 is coprime with 100, so this visits 60 distinct keys in a
	// scattered order and forces internal splits at max 3 keys per node.
	const n = 60
	inserted := make(map[uint32]bool)
	for i := 0; i < n; i++ {
		k := uint32((i*37)%100 + 1)
		mustInsert(t, tree, k)
		inserted[k] = true
	}

	want := make([]uint32, 0, n)
	for k := uint32(1); k <= 100; k++ {
		if inserted[k] {
			want = append(want, k)
		}
	}

	checkTree(t, pager)
	wantAscending(t, scanKeys(t, tree), want)
}

func TestDelete(t *testing.T) {
	tree, pager := newTree(t)
	mustInsert(t, tree, 1, 2, 3, 4, 5)

	if err := tree.Delete(3); err != nil {
		t.Fatalf("Delete 3: %v", err)
	}
	if err := tree.Delete(3); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second Delete 3: got %v, want ErrNotFound", err)
	}
	if err := tree.Delete(99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Delete 99: got %v, want ErrNotFound", err)
	}

	if _, found, _ := tree.FindRow(3); found {
		t.Fatal("FindRow 3 after delete should not find anything")
	}

	checkTree(t, pager)
	wantAscending(t, scanKeys(t, tree), []uint32{1, 2, 4, 5})
}

func TestDeleteLastRowOfRightmostLeaf(t *testing.T) {
	tree, _ := newTree(t)

	keys := make([]uint32, 0, storage.LeafMaxCells+1)
	for k := uint32(1); k <= storage.LeafMaxCells+1; k++ {
		mustInsert(t, tree, k)
		keys = append(keys, k)
	}

	// The highest key lives in the rightmost leaf; the scan must still
	// terminate at the chain sentinel afterwards.
	if err := tree.Delete(storage.LeafMaxCells + 1); err != nil {
		t.Fatal(err)
	}
	wantAscending(t, scanKeys(t, tree), keys[:len(keys)-1])
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	tree, pager := openTree(t, path)

	want := make([]uint32, 0, 50)
	for i := 0; i < 50; i++ {
		k := uint32((i*37)%50 + 1)
		mustInsert(t, tree, k)
	}
	for k := uint32(1); k <= 50; k++ {
		want = append(want, k)
	}

	if err := pager.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tree, pager = openTree(t, path)
	checkTree(t, pager)
	wantAscending(t, scanKeys(t, tree), want)

	row, found, err := tree.FindRow(17)
	if err != nil || !found {
		t.Fatalf("FindRow 17 after reopen: found=%v err=%v", found, err)
	}
	if binary.LittleEndian.Uint32(row) != 17 {
		t.Fatal("row bytes did not survive reopen")
	}
}

func TestDumpShowsSplitTree(t *testing.T) {
	tree, _ := newTree(t)
	for k := uint32(1); k <= storage.LeafMaxCells+1; k++ {
		mustInsert(t, tree, k)
	}

	var buf bytes.Buffer
	if err := tree.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "- internal (size 1)") {
		t.Fatalf("dump missing internal root:\n%s", out)
	}
	if strings.Count(out, "- leaf (size 7)") != 2 {
		t.Fatalf("dump should show two half-full leaves:\n%s", out)
	}
	if !strings.Contains(out, "- key 7") {
		t.Fatalf("dump missing separator key:\n%s", out)
	}
}
