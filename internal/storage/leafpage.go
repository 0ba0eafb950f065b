package storage

import "encoding/binary"

// LeafPage is a typed view over a page holding row cells. The view
// borrows the page from the pager for the scope of one operation.
type LeafPage struct {
	Page *Page
}

func WrapLeafPage(page *Page) *LeafPage {
	return &LeafPage{Page: page}
}

// InitLeafPage formats a page as an empty non-root leaf with no sibling.
func InitLeafPage(page *Page) *LeafPage {
	page.SetNodeType(NodeLeaf)
	page.SetRoot(false)
	page.SetParent(0)

	lp := &LeafPage{Page: page}
	lp.SetNumCells(0)
	lp.SetNextLeaf(0)
	return lp
}

func (lp *LeafPage) NumCells() uint32 {
	return binary.LittleEndian.Uint32(lp.Page.Data[leafNumCellsOffset : leafNumCellsOffset+leafNumCellsSize])
}

func (lp *LeafPage) SetNumCells(n uint32) {
	binary.LittleEndian.PutUint32(lp.Page.Data[leafNumCellsOffset:leafNumCellsOffset+leafNumCellsSize], n)
}

func (lp *LeafPage) NextLeaf() uint32 {
	return binary.LittleEndian.Uint32(lp.Page.Data[leafNextLeafOffset : leafNextLeafOffset+leafNextLeafSize])
}

func (lp *LeafPage) SetNextLeaf(pageNum uint32) {
	binary.LittleEndian.PutUint32(lp.Page.Data[leafNextLeafOffset:leafNextLeafOffset+leafNextLeafSize], pageNum)
}

func cellOffset(cellNum uint32) int {
	return LeafHeaderSize + int(cellNum)*LeafCellSize
}

// Cell returns the full (key, row) slot.
func (lp *LeafPage) Cell(cellNum uint32) []byte {
	off := cellOffset(cellNum)
	return lp.Page.Data[off : off+LeafCellSize]
}

func (lp *LeafPage) Key(cellNum uint32) uint32 {
	off := cellOffset(cellNum)
	return binary.LittleEndian.Uint32(lp.Page.Data[off : off+leafKeySize])
}

func (lp *LeafPage) SetKey(cellNum uint32, key uint32) {
	off := cellOffset(cellNum)
	binary.LittleEndian.PutUint32(lp.Page.Data[off:off+leafKeySize], key)
}

// Value returns the row region of a cell.
func (lp *LeafPage) Value(cellNum uint32) []byte {
	off := cellOffset(cellNum) + leafKeySize
	return lp.Page.Data[off : off+RowSize]
}

// FindCell returns the index of the first cell whose key is >= key,
// which is num cells when every key is smaller.
func (lp *LeafPage) FindCell(key uint32) uint32 {
	low := uint32(0)
	high := lp.NumCells()

	for low != high {
		mid := (low + high) / 2
		midKey := lp.Key(mid)
		if midKey == key {
			return mid
		}
		if key < midKey {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return low
}
