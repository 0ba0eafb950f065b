package storage

import "encoding/binary"

type NodeType uint8

const (
	NodeInternal NodeType = iota
	NodeLeaf
)

// Page is a fixed-size buffer borrowed from the pager. The first byte of
// Data is the node type, so a page read back from disk knows what it is.
type Page struct {
	ID   uint32
	Data []byte
}

func NewPage(id uint32) *Page {
	return &Page{
		ID:   id,
		Data: make([]byte, PageSize),
	}
}

func (p *Page) NodeType() NodeType {
	return NodeType(p.Data[nodeTypeOffset])
}

func (p *Page) SetNodeType(t NodeType) {
	p.Data[nodeTypeOffset] = byte(t)
}

func (p *Page) IsRoot() bool {
	return p.Data[isRootOffset] != 0
}

func (p *Page) SetRoot(isRoot bool) {
	if isRoot {
		p.Data[isRootOffset] = 1
	} else {
		p.Data[isRootOffset] = 0
	}
}

func (p *Page) Parent() uint32 {
	return binary.LittleEndian.Uint32(p.Data[parentOffset : parentOffset+parentSize])
}

func (p *Page) SetParent(pageNum uint32) {
	binary.LittleEndian.PutUint32(p.Data[parentOffset:parentOffset+parentSize], pageNum)
}
