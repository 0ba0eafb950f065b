package storage

import (
	"fmt"

	"go.rowdb/internal/logger"
)

// BTree - each page is a node, all rows live in leaves sorted by key,
// and the root is always page 0.
type BTree struct {
	pager *Pager
	log   *logger.Logger
}

// NewBTree binds a tree to a pager. A zero-page file gets page 0
// formatted as an empty leaf root.
func NewBTree(pager *Pager, log *logger.Logger) (*BTree, error) {
	bt := &BTree{
		pager: pager,
		log:   log,
	}

	if pager.NumPages() == 0 {
		root, err := pager.GetPage(RootPage)
		if err != nil {
			return nil, err
		}
		InitLeafPage(root)
		root.SetRoot(true)
	}

	return bt, nil
}

// Find descends from the root to the leaf that contains key, returning a
// cursor at the match or at the slot where key would be inserted.
func (bt *BTree) Find(key uint32) (*Cursor, error) {
	pageNum := uint32(RootPage)

	for {
		page, err := bt.pager.GetPage(pageNum)
		if err != nil {
			return nil, err
		}

		if page.NodeType() == NodeLeaf {
			leaf := WrapLeafPage(page)
			return &Cursor{
				tree:    bt,
				pageNum: pageNum,
				cellNum: leaf.FindCell(key),
			}, nil
		}

		internal := WrapInternalPage(page)
		childNum, err := internal.Child(internal.FindChildIndex(key))
		if err != nil {
			return nil, err
		}
		pageNum = childNum
	}
}

// maxKey is the largest key under a node: the last cell of a leaf, or
// recursively the max of an internal node's right child.
func (bt *BTree) maxKey(page *Page) (uint32, error) {
	if page.NodeType() == NodeLeaf {
		leaf := WrapLeafPage(page)
		numCells := leaf.NumCells()
		if numCells == 0 {
			return 0, nil
		}
		return leaf.Key(numCells - 1), nil
	}

	right := WrapInternalPage(page).RightChild()
	if right == InvalidPageNum {
		return 0, fmt.Errorf("max key of page %d: %w", page.ID, ErrInvalidPointer)
	}

	rightPage, err := bt.pager.GetPage(right)
	if err != nil {
		return 0, err
	}
	return bt.maxKey(rightPage)
}

// Insert adds a (key, row) cell, splitting the leaf and propagating up
// the tree as needed. The row must be exactly RowSize bytes.
func (bt *BTree) Insert(key uint32, row []byte) error {
	cur, err := bt.Find(key)
	if err != nil {
		return err
	}

	page, err := bt.pager.GetPage(cur.pageNum)
	if err != nil {
		return err
	}

	leaf := WrapLeafPage(page)
	if cur.cellNum < leaf.NumCells() && leaf.Key(cur.cellNum) == key {
		return fmt.Errorf("key %d: %w", key, ErrDuplicateKey)
	}

	return bt.leafInsert(cur, key, row)
}

// FindRow returns a borrowed view of the row stored under key. The slice
// aliases the page buffer and must not be retained across operations.
func (bt *BTree) FindRow(key uint32) ([]byte, bool, error) {
	cur, err := bt.Find(key)
	if err != nil {
		return nil, false, err
	}

	page, err := bt.pager.GetPage(cur.pageNum)
	if err != nil {
		return nil, false, err
	}

	leaf := WrapLeafPage(page)
	if cur.cellNum >= leaf.NumCells() || leaf.Key(cur.cellNum) != key {
		return nil, false, nil
	}
	return leaf.Value(cur.cellNum), true, nil
}

// Delete removes the cell holding key by shifting the following cells
// left. It never rebalances and never frees pages; scans stay correct
// because they follow sibling links, not fill counts.
func (bt *BTree) Delete(key uint32) error {
	cur, err := bt.Find(key)
	if err != nil {
		return err
	}

	page, err := bt.pager.GetPage(cur.pageNum)
	if err != nil {
		return err
	}

	leaf := WrapLeafPage(page)
	numCells := leaf.NumCells()
	if cur.cellNum >= numCells || leaf.Key(cur.cellNum) != key {
		return fmt.Errorf("key %d: %w", key, ErrNotFound)
	}

	for i := cur.cellNum; i+1 < numCells; i++ {
		copy(leaf.Cell(i), leaf.Cell(i+1))
	}
	leaf.SetNumCells(numCells - 1)
	return nil
}

func (bt *BTree) leafInsert(cur *Cursor, key uint32, row []byte) error {
	page, err := bt.pager.GetPage(cur.pageNum)
	if err != nil {
		return err
	}

	leaf := WrapLeafPage(page)
	numCells := leaf.NumCells()
	if numCells >= LeafMaxCells {
		return bt.leafSplitInsert(cur, key, row)
	}

	for i := numCells; i > cur.cellNum; i-- {
		copy(leaf.Cell(i), leaf.Cell(i-1))
	}

	leaf.SetNumCells(numCells + 1)
	leaf.SetKey(cur.cellNum, key)
	copy(leaf.Value(cur.cellNum), row)
	return nil
}

// leafSplitInsert redistributes the full leaf's cells plus the new one
// across the old leaf and a fresh sibling, then hands the sibling to the
// parent.
func (bt *BTree) leafSplitInsert(cur *Cursor, key uint32, row []byte) error {
	oldPage, err := bt.pager.GetPage(cur.pageNum)
	if err != nil {
		return err
	}
	old := WrapLeafPage(oldPage)

	oldMax, err := bt.maxKey(oldPage)
	if err != nil {
		return err
	}

	newPageNum := bt.pager.AllocatePage()
	newPage, err := bt.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}

	newLeaf := InitLeafPage(newPage)
	newPage.SetParent(oldPage.Parent())
	newLeaf.SetNextLeaf(old.NextLeaf())
	old.SetNextLeaf(newPageNum)

	// Walk the LeafMaxCells+1 virtual slots from the top. Slots at or
	// above the left count land in the new leaf, the rest stay. The slot
	// at the cursor takes the new cell, slots above it come from one cell
	// lower.
	for i := LeafMaxCells; i >= 0; i-- {
		dst := old
		if i >= LeafLeftSplitCount {
			dst = newLeaf
		}
		idx := uint32(i % LeafLeftSplitCount)

		switch {
		case uint32(i) == cur.cellNum:
			dst.SetKey(idx, key)
			copy(dst.Value(idx), row)
		case uint32(i) > cur.cellNum:
			copy(dst.Cell(idx), old.Cell(uint32(i-1)))
		default:
			copy(dst.Cell(idx), old.Cell(uint32(i)))
		}
	}

	old.SetNumCells(LeafLeftSplitCount)
	newLeaf.SetNumCells(LeafRightSplitCount)

	bt.log.Debugf("leaf %d split, new sibling %d", cur.pageNum, newPageNum)

	if oldPage.IsRoot() {
		return bt.createNewRoot(newPageNum)
	}

	parentPageNum := oldPage.Parent()
	newMax, err := bt.maxKey(oldPage)
	if err != nil {
		return err
	}
	parentPage, err := bt.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	WrapInternalPage(parentPage).UpdateKey(oldMax, newMax)
	return bt.internalInsert(parentPageNum, newPageNum)
}

// createNewRoot handles a root split: the old root is copied into a
// fresh left-child page and page 0 becomes a one-key internal node over
// the copy and rightChildPageNum.
func (bt *BTree) createNewRoot(rightChildPageNum uint32) error {
	rootPage, err := bt.pager.GetPage(RootPage)
	if err != nil {
		return err
	}
	rightPage, err := bt.pager.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}

	leftPageNum := bt.pager.AllocatePage()
	leftPage, err := bt.pager.GetPage(leftPageNum)
	if err != nil {
		return err
	}

	// On an internal root split the caller redistributes into both sides
	// afterwards, so the right child starts as a fresh internal node.
	if rootPage.NodeType() == NodeInternal {
		InitInternalPage(rightPage)
		InitInternalPage(leftPage)
	}

	copy(leftPage.Data, rootPage.Data)
	leftPage.SetRoot(false)

	// The copy carries the old root's children; retarget their parent
	// pointers at the copy's page.
	if leftPage.NodeType() == NodeInternal {
		left := WrapInternalPage(leftPage)
		for i := uint32(0); i <= left.NumKeys(); i++ {
			childNum, err := left.Child(i)
			if err != nil {
				return err
			}
			childPage, err := bt.pager.GetPage(childNum)
			if err != nil {
				return err
			}
			childPage.SetParent(leftPageNum)
		}
	}

	root := InitInternalPage(rootPage)
	rootPage.SetRoot(true)
	root.SetNumKeys(1)
	root.SetChildAt(0, leftPageNum)

	leftMax, err := bt.maxKey(leftPage)
	if err != nil {
		return err
	}
	root.SetKeyAt(0, leftMax)
	root.SetRightChild(rightChildPageNum)

	leftPage.SetParent(RootPage)
	rightPage.SetParent(RootPage)

	bt.log.Debugf("root split, children %d and %d", leftPageNum, rightChildPageNum)
	return nil
}

// internalInsert adds childPageNum under parentPageNum, keyed by the
// child's max key.
func (bt *BTree) internalInsert(parentPageNum, childPageNum uint32) error {
	parentPage, err := bt.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	childPage, err := bt.pager.GetPage(childPageNum)
	if err != nil {
		return err
	}

	parent := WrapInternalPage(parentPage)
	childMax, err := bt.maxKey(childPage)
	if err != nil {
		return err
	}

	index := parent.FindChildIndex(childMax)
	originalNumKeys := parent.NumKeys()

	if originalNumKeys >= InternalMaxKeys {
		return bt.internalSplitInsert(parentPageNum, childPageNum)
	}

	rightChildNum := parent.RightChild()
	if rightChildNum == InvalidPageNum {
		// Just-initialized empty node: the first child becomes the right
		// child with no keys to manipulate.
		parent.SetRightChild(childPageNum)
		childPage.SetParent(parentPageNum)
		return nil
	}

	rightPage, err := bt.pager.GetPage(rightChildNum)
	if err != nil {
		return err
	}
	rightMax, err := bt.maxKey(rightPage)
	if err != nil {
		return err
	}

	parent.SetNumKeys(originalNumKeys + 1)

	if childMax > rightMax {
		// Demote the old right child into the last positional slot and
		// promote the new child.
		parent.SetChildAt(originalNumKeys, rightChildNum)
		parent.SetKeyAt(originalNumKeys, rightMax)
		parent.SetRightChild(childPageNum)
	} else {
		for i := originalNumKeys; i > index; i-- {
			copy(parent.Cell(i), parent.Cell(i-1))
		}
		parent.SetChildAt(index, childPageNum)
		parent.SetKeyAt(index, childMax)
	}

	childPage.SetParent(parentPageNum)
	return nil
}

// internalSplitInsert splits a full parent so childPageNum can be added.
// Intermediate states transiently break the separator law; only the
// completed state is valid.
func (bt *BTree) internalSplitInsert(parentPageNum, childPageNum uint32) error {
	oldPageNum := parentPageNum
	oldPage, err := bt.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldMax, err := bt.maxKey(oldPage)
	if err != nil {
		return err
	}

	childPage, err := bt.pager.GetPage(childPageNum)
	if err != nil {
		return err
	}
	childMax, err := bt.maxKey(childPage)
	if err != nil {
		return err
	}

	newPageNum := bt.pager.AllocatePage()

	// Splitting the root installs the new sibling while the new root is
	// created. Otherwise the sibling must be inserted into the
	// grandparent after the old node's keys have been transferred, since
	// the grandparent may hold keys besides the one covering the old
	// node.
	splittingRoot := oldPage.IsRoot()

	var parentPage *Page
	if splittingRoot {
		if err := bt.createNewRoot(newPageNum); err != nil {
			return err
		}
		parentPage, err = bt.pager.GetPage(RootPage)
		if err != nil {
			return err
		}

		// Redistribution works with the pre-split node, which is now the
		// new root's left child.
		oldPageNum, err = WrapInternalPage(parentPage).Child(0)
		if err != nil {
			return err
		}
		oldPage, err = bt.pager.GetPage(oldPageNum)
		if err != nil {
			return err
		}
	} else {
		parentPage, err = bt.pager.GetPage(oldPage.Parent())
		if err != nil {
			return err
		}
		newPage, err := bt.pager.GetPage(newPageNum)
		if err != nil {
			return err
		}
		InitInternalPage(newPage)
	}

	old := WrapInternalPage(oldPage)

	// Move the old right child over first and leave the slot unwired
	// until the post-loop promotion refills it.
	if err := bt.internalInsert(newPageNum, old.RightChild()); err != nil {
		return err
	}
	old.SetRightChild(InvalidPageNum)

	for i := uint32(InternalMaxKeys - 1); i > InternalMaxKeys/2; i-- {
		if err := bt.internalInsert(newPageNum, old.ChildAt(i)); err != nil {
			return err
		}
		old.SetNumKeys(old.NumKeys() - 1)
	}

	// The highest remaining child becomes the old node's right child.
	old.SetNumKeys(old.NumKeys() - 1)
	old.SetRightChild(old.ChildAt(old.NumKeys()))

	maxAfterSplit, err := bt.maxKey(oldPage)
	if err != nil {
		return err
	}

	destPageNum := newPageNum
	if childMax < maxAfterSplit {
		destPageNum = oldPageNum
	}
	if err := bt.internalInsert(destPageNum, childPageNum); err != nil {
		return err
	}

	newOldMax, err := bt.maxKey(oldPage)
	if err != nil {
		return err
	}
	WrapInternalPage(parentPage).UpdateKey(oldMax, newOldMax)

	if !splittingRoot {
		// internalInsert leaves the sibling's parent pointer correct even
		// when the grandparent itself has to split.
		if err := bt.internalInsert(oldPage.Parent(), newPageNum); err != nil {
			return err
		}
	}

	bt.log.Debugf("internal %d split, new sibling %d", oldPageNum, newPageNum)
	return nil
}
