package storage

// On-disk layout. A database file is a flat sequence of PageSize pages
// and page 0 is always the tree root. Every width below is part of the
// file format - files are re-opened across runs, so these are the wire
// contract, not tuning knobs.

const (
	PageSize = 4096

	// MaxPages bounds both the page cache and the file.
	MaxPages = 100

	// RootPage never moves; re-open relies on it.
	RootPage = 0

	// InvalidPageNum marks a child slot that exists but is not wired up
	// yet, which happens transiently during internal splits.
	InvalidPageNum = ^uint32(0)
)

// Row field widths. Username and email are fixed buffers carrying a NUL
// terminator byte.
const (
	UsernameMax = 32
	EmailMax    = 255

	rowIDSize       = 4
	rowUsernameSize = UsernameMax + 1
	rowEmailSize    = EmailMax + 1

	RowIDOffset       = 0
	RowUsernameOffset = RowIDOffset + rowIDSize
	RowEmailOffset    = RowUsernameOffset + rowUsernameSize

	RowSize = rowIDSize + rowUsernameSize + rowEmailSize
)

// Common node header: node type, root flag, parent page number.
const (
	nodeTypeOffset = 0
	nodeTypeSize   = 1
	isRootOffset   = nodeTypeOffset + nodeTypeSize
	isRootSize     = 1
	parentOffset   = isRootOffset + isRootSize
	parentSize     = 4

	CommonHeaderSize = parentOffset + parentSize
)

// Leaf node: common header, cell count, right-sibling page number, then
// NumCells packed (key, row) cells. A next-leaf of 0 means no sibling;
// page 0 is the root so it can never be a sibling.
const (
	leafNumCellsOffset = CommonHeaderSize
	leafNumCellsSize   = 4
	leafNextLeafOffset = leafNumCellsOffset + leafNumCellsSize
	leafNextLeafSize   = 4

	LeafHeaderSize = leafNextLeafOffset + leafNextLeafSize

	leafKeySize = 4

	LeafCellSize      = leafKeySize + RowSize
	LeafSpaceForCells = PageSize - LeafHeaderSize
	LeafMaxCells      = LeafSpaceForCells / LeafCellSize

	LeafRightSplitCount = (LeafMaxCells + 1) / 2
	LeafLeftSplitCount  = (LeafMaxCells + 1) - LeafRightSplitCount
)

// Internal node: common header, key count, right-child page number, then
// NumKeys packed (child, key) entries. Every key is the max key of the
// child to its left; the right child holds everything greater.
const (
	internalNumKeysOffset    = CommonHeaderSize
	internalNumKeysSize      = 4
	internalRightChildOffset = internalNumKeysOffset + internalNumKeysSize
	internalRightChildSize   = 4

	InternalHeaderSize = internalRightChildOffset + internalRightChildSize

	internalChildSize = 4
	internalKeySize   = 4

	InternalCellSize = internalChildSize + internalKeySize

	// Kept deliberately small so splits happen early. A page could hold
	// far more, but the split algorithm is the same at any bound.
	InternalMaxKeys = 3
)
