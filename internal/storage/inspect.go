package storage

import (
	"fmt"
	"io"
	"strings"
)

// Read-only structure introspection backing the shell's .btree and
// .constant commands.

// Dump writes an indented recursive view of the tree to w: each node's
// type and fill, leaf keys, and the separator keys between children.
func (bt *BTree) Dump(w io.Writer) error {
	return bt.dumpNode(w, RootPage, 0)
}

func (bt *BTree) dumpNode(w io.Writer, pageNum uint32, depth int) error {
	page, err := bt.pager.GetPage(pageNum)
	if err != nil {
		return err
	}

	pad := strings.Repeat("  ", depth)

	switch page.NodeType() {
	case NodeLeaf:
		leaf := WrapLeafPage(page)
		numCells := leaf.NumCells()
		fmt.Fprintf(w, "%s- leaf (size %d)\n", pad, numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s  - %d\n", pad, leaf.Key(i))
		}

	case NodeInternal:
		internal := WrapInternalPage(page)
		numKeys := internal.NumKeys()
		fmt.Fprintf(w, "%s- internal (size %d)\n", pad, numKeys)
		if numKeys == 0 {
			break
		}
		for i := uint32(0); i < numKeys; i++ {
			childNum, err := internal.Child(i)
			if err != nil {
				return err
			}
			if err := bt.dumpNode(w, childNum, depth+1); err != nil {
				return err
			}
			fmt.Fprintf(w, "%s  - key %d\n", pad, internal.KeyAt(i))
		}
		childNum, err := internal.Child(numKeys)
		if err != nil {
			return err
		}
		if err := bt.dumpNode(w, childNum, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DumpConstants writes the layout constants that define the file format.
func DumpConstants(w io.Writer) {
	fmt.Fprintf(w, "row size: %d\n", RowSize)
	fmt.Fprintf(w, "common node header size: %d\n", CommonHeaderSize)
	fmt.Fprintf(w, "leaf node header size: %d\n", LeafHeaderSize)
	fmt.Fprintf(w, "leaf node cell size: %d\n", LeafCellSize)
	fmt.Fprintf(w, "leaf node space for cells: %d\n", LeafSpaceForCells)
	fmt.Fprintf(w, "leaf node max cells: %d\n", LeafMaxCells)
	fmt.Fprintf(w, "internal node max keys: %d\n", InternalMaxKeys)
}
