package db

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	blockHeaderSize  = 12
	attributeSize    = MaxAttNameLength + 1 + 4
	tupleSlotSize    = 12
	headerAreaOffset = blockHeaderSize
	tupleDictOffset  = headerAreaOffset + MaxAttributes*attributeSize
	dataAreaOffset   = tupleDictOffset + DataBlockSize*tupleSlotSize
	BlockSize        = dataAreaOffset + DataAreaSize
)

type BlockID int32

// Attribute is one entry of a table header.
type Attribute struct {
	Name string
	Type DataType
}

// TupleSlot describes where one field lives in the data area.
type TupleSlot struct {
	Address int32
	Size    int32
	Type    DataType
}

// Block is the decoded form of one storage block. Header and TupleDict hold
// only the used entries; the sentinels that terminate them on disk are
// implied by their lengths.
type Block struct {
	ID          BlockID
	Type        int32
	ChainedWith int32

	// FreeSpace is the offset of the first unused byte of Data. Rows made only
	// of zero-length fields leave it at zero, so it alone does not tell an
	// empty block from a used one.
	FreeSpace int32
	Header    []Attribute
	TupleDict []TupleSlot
	Data      []byte

	dirty bool
}

func newBlock(id BlockID) *Block {
	return &Block{
		ID:          id,
		Type:        BlockTypeFree,
		ChainedWith: NotChained,
		Data:        make([]byte, DataAreaSize),
	}
}

// AttributeCount returns the number of attributes in the block's header.
func (b *Block) AttributeCount() int {
	return len(b.Header)
}

// HasData reports whether the block holds row data.
func (b *Block) HasData() bool {
	return b.FreeSpace != 0 || len(b.TupleDict) > 0
}

// HasMoreRows reports whether a row starts at tuple dictionary index rowStart.
func (b *Block) HasMoreRows(rowStart int) bool {
	return rowStart >= 0 && rowStart < len(b.TupleDict) && b.TupleDict[rowStart].Type != TypeFree
}

// RowField returns the type and bytes of column of the row starting at
// rowStart. The returned slice aliases the block's data area.
func (b *Block) RowField(rowStart, column int) (DataType, []byte) {
	i := rowStart + column
	if i < 0 || i >= len(b.TupleDict) {
		return TypeFree, nil
	}
	slot := b.TupleDict[i]
	return slot.Type, b.Data[slot.Address : slot.Address+slot.Size]
}

// NumRows returns how many complete rows the block holds.
func (b *Block) NumRows() int {
	n := b.AttributeCount()
	if n == 0 {
		return 0
	}
	return len(b.TupleDict) / n
}

func (b *Block) hasRoom(sizes []int) bool {
	total := 0
	for _, s := range sizes {
		total += s
	}
	return len(b.TupleDict)+len(sizes) <= DataBlockSize && int(b.FreeSpace)+total <= DataAreaSize
}

// appendRow packs one row's fields at the end of the data area. The values
// must already be in header order.
func (b *Block) appendRow(types []DataType, values [][]byte) error {
	sizes := make([]int, len(values))
	for i, v := range values {
		sizes[i] = len(v)
	}
	if !b.hasRoom(sizes) {
		return ErrNoEmptySpace
	}
	for i, v := range values {
		off := b.FreeSpace
		copy(b.Data[off:], v)
		b.TupleDict = append(b.TupleDict, TupleSlot{
			Address: off,
			Size:    int32(len(v)),
			Type:    types[i],
		})
		b.FreeSpace += int32(len(v))
	}
	b.dirty = true
	return nil
}

// reset turns b into an empty block of a segment with the given header.
func (b *Block) reset(blockType int32, header []Attribute) {
	b.Type = blockType
	b.ChainedWith = NotChained
	b.FreeSpace = 0
	b.Header = append([]Attribute(nil), header...)
	b.TupleDict = nil
	for i := range b.Data {
		b.Data[i] = 0
	}
	b.dirty = true
}

func (b *Block) encode() []byte {
	buf := make([]byte, BlockSize)
	le := binary.LittleEndian
	le.PutUint32(buf[0:], uint32(b.Type))
	le.PutUint32(buf[4:], uint32(b.ChainedWith))
	le.PutUint32(buf[8:], uint32(b.FreeSpace))

	for i := 0; i < MaxAttributes; i++ {
		off := headerAreaOffset + i*attributeSize
		typ := TypeFree
		if i < len(b.Header) {
			copy(buf[off:off+MaxAttNameLength], b.Header[i].Name)
			typ = b.Header[i].Type
		}
		le.PutUint32(buf[off+MaxAttNameLength+1:], uint32(typ))
	}

	for i := 0; i < DataBlockSize; i++ {
		off := tupleDictOffset + i*tupleSlotSize
		slot := TupleSlot{Address: FreeInt, Size: FreeInt, Type: TypeFree}
		if i < len(b.TupleDict) {
			slot = b.TupleDict[i]
		}
		le.PutUint32(buf[off:], uint32(slot.Address))
		le.PutUint32(buf[off+4:], uint32(slot.Type))
		le.PutUint32(buf[off+8:], uint32(slot.Size))
	}

	copy(buf[dataAreaOffset:], b.Data)
	return buf
}

func decodeBlock(id BlockID, buf []byte) (*Block, error) {
	if len(buf) < BlockSize {
		return nil, errors.Wrapf(ErrCorruptBlock, "block %d: short buffer of %d bytes", id, len(buf))
	}
	le := binary.LittleEndian
	b := newBlock(id)
	b.Type = int32(le.Uint32(buf[0:]))
	b.ChainedWith = int32(le.Uint32(buf[4:]))
	b.FreeSpace = int32(le.Uint32(buf[8:]))
	if b.FreeSpace < 0 || b.FreeSpace > DataAreaSize {
		return nil, errors.Wrapf(ErrCorruptBlock, "block %d: free space %d", id, b.FreeSpace)
	}

	for i := 0; i < MaxAttributes; i++ {
		off := headerAreaOffset + i*attributeSize
		name := cString(buf[off : off+MaxAttNameLength+1])
		if name == "" {
			break
		}
		typ := DataType(int32(le.Uint32(buf[off+MaxAttNameLength+1:])))
		b.Header = append(b.Header, Attribute{Name: name, Type: typ})
	}

	for i := 0; i < DataBlockSize; i++ {
		off := tupleDictOffset + i*tupleSlotSize
		slot := TupleSlot{
			Address: int32(le.Uint32(buf[off:])),
			Type:    DataType(int32(le.Uint32(buf[off+4:]))),
			Size:    int32(le.Uint32(buf[off+8:])),
		}
		if slot.Type == TypeFree {
			break
		}
		if slot.Address < 0 || slot.Size < 0 || slot.Address+slot.Size > DataAreaSize {
			return nil, errors.Wrapf(ErrCorruptBlock, "block %d: slot %d out of data area", id, i)
		}
		b.TupleDict = append(b.TupleDict, slot)
	}

	copy(b.Data, buf[dataAreaOffset:dataAreaOffset+DataAreaSize])
	return b, nil
}

func cString(buf []byte) string {
	for i, c := range buf {
		if c == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

