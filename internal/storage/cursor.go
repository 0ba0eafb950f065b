package storage

// Cursor is a position inside the tree, possibly one past the last cell.
// Cursors hold no locks; the tree is single-access.
type Cursor struct {
	tree       *BTree
	pageNum    uint32
	cellNum    uint32
	endOfTable bool
}

// Start positions a cursor at the leftmost cell of the table, which is
// wherever key 0 would live.
func (bt *BTree) Start() (*Cursor, error) {
	cur, err := bt.Find(0)
	if err != nil {
		return nil, err
	}

	page, err := bt.pager.GetPage(cur.pageNum)
	if err != nil {
		return nil, err
	}

	cur.endOfTable = WrapLeafPage(page).NumCells() == 0
	return cur, nil
}

func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// Key returns the key at the cursor position.
func (c *Cursor) Key() (uint32, error) {
	page, err := c.tree.pager.GetPage(c.pageNum)
	if err != nil {
		return 0, err
	}
	return WrapLeafPage(page).Key(c.cellNum), nil
}

// Value returns a borrowed view of the row at the cursor position. The
// slice aliases the page buffer; copy it out before the next operation.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.tree.pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	return WrapLeafPage(page).Value(c.cellNum), nil
}

// Advance steps to the next cell, hopping to the right sibling when the
// current leaf runs out. The rightmost leaf's sibling pointer is 0.
func (c *Cursor) Advance() error {
	page, err := c.tree.pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}

	leaf := WrapLeafPage(page)
	c.cellNum++
	if c.cellNum >= leaf.NumCells() {
		next := leaf.NextLeaf()
		if next == 0 {
			c.endOfTable = true
		} else {
			c.pageNum = next
			c.cellNum = 0
		}
	}
	return nil
}
