package db

import (
	"encoding/binary"
	"testing"

	"gotest.tools/assert"
)

var personHeader = []Attribute{
	{Name: "name", Type: TypeVarchar},
	{Name: "age", Type: TypeInt},
}

func TestBlock(t *testing.T) {
	b := newBlock(3)
	assert.Equal(t, int32(BlockTypeFree), b.Type)
	assert.Equal(t, int32(NotChained), b.ChainedWith)
	assert.Assert(t, !b.HasData())

	b.reset(BlockTypeNormal, personHeader)
	assert.Equal(t, 2, b.AttributeCount())

	fixture := []struct {
		name string
		age  int32
	}{
		{"aaa", 1},
		{"bbbbbbbb", -2},
		{"cccc", 300},
	}
	dataLen := 0
	for _, f := range fixture {
		err := b.appendRow([]DataType{TypeVarchar, TypeInt}, [][]byte{[]byte(f.name), IntBytes(f.age)})
		assert.NilError(t, err)
		dataLen += len(f.name) + 4
	}
	for i, f := range fixture {
		row := i * b.AttributeCount()
		assert.Assert(t, b.HasMoreRows(row))
		typ, name := b.RowField(row, 0)
		assert.Equal(t, TypeVarchar, typ)
		assert.Equal(t, f.name, string(name))
		typ, age := b.RowField(row, 1)
		assert.Equal(t, TypeInt, typ)
		assert.Equal(t, f.age, BytesInt(age))
	}
	assert.Assert(t, !b.HasMoreRows(len(fixture)*2))
	assert.Equal(t, len(fixture), b.NumRows())
	assert.Equal(t, int32(dataLen), b.FreeSpace)
	assert.Assert(t, b.HasData())
}

func TestBlockZeroLengthRows(t *testing.T) {
	b := newBlock(4)
	b.reset(BlockTypeNormal, []Attribute{{Name: "e", Type: TypeVarchar}})
	assert.Assert(t, !b.HasData())

	assert.NilError(t, b.appendRow([]DataType{TypeVarchar}, [][]byte{{}}))
	assert.NilError(t, b.appendRow([]DataType{TypeVarchar}, [][]byte{{}}))
	assert.Equal(t, int32(0), b.FreeSpace)
	assert.Assert(t, b.HasData())
	assert.Equal(t, 2, b.NumRows())

	decoded, err := decodeBlock(b.ID, b.encode())
	assert.NilError(t, err)
	assert.Assert(t, decoded.HasData())
	assert.Equal(t, 2, decoded.NumRows())
}

func TestBlockFull(t *testing.T) {
	b := newBlock(0)
	b.reset(BlockTypeNormal, []Attribute{{Name: "n", Type: TypeInt}})
	for i := 0; i < DataBlockSize; i++ {
		assert.NilError(t, b.appendRow([]DataType{TypeInt}, [][]byte{IntBytes(int32(i))}))
	}
	err := b.appendRow([]DataType{TypeInt}, [][]byte{IntBytes(1)})
	assert.Equal(t, ErrNoEmptySpace, err)

	big := newBlock(1)
	big.reset(BlockTypeNormal, []Attribute{{Name: "s", Type: TypeBlob}})
	err = big.appendRow([]DataType{TypeBlob}, [][]byte{make([]byte, DataAreaSize+1)})
	assert.Equal(t, ErrNoEmptySpace, err)
}

func TestBlockEncoding(t *testing.T) {
	b := newBlock(7)
	b.reset(BlockTypeNormal, personHeader)
	assert.NilError(t, b.appendRow([]DataType{TypeVarchar, TypeInt}, [][]byte{[]byte("Smith"), IntBytes(42)}))

	buf := b.encode()
	assert.Equal(t, BlockSize, len(buf))

	got, err := decodeBlock(7, buf)
	assert.NilError(t, err)
	assert.DeepEqual(t, personHeader, got.Header)
	assert.DeepEqual(t, b.TupleDict, got.TupleDict)
	assert.Equal(t, b.FreeSpace, got.FreeSpace)
	_, name := got.RowField(0, 0)
	assert.Equal(t, "Smith", string(name))
}

func TestDecodeStopsAtFreeSlot(t *testing.T) {
	b := newBlock(0)
	b.reset(BlockTypeNormal, personHeader)
	assert.NilError(t, b.appendRow([]DataType{TypeVarchar, TypeInt}, [][]byte{[]byte("x"), IntBytes(1)}))
	buf := b.encode()

	// stale slot behind the terminating free slot
	off := tupleDictOffset + 3*tupleSlotSize
	binary.LittleEndian.PutUint32(buf[off:], 0)
	binary.LittleEndian.PutUint32(buf[off+4:], uint32(TypeInt))
	binary.LittleEndian.PutUint32(buf[off+8:], 4)

	got, err := decodeBlock(0, buf)
	assert.NilError(t, err)
	assert.Equal(t, 2, len(got.TupleDict))
	assert.Assert(t, got.HasMoreRows(0))
	assert.Assert(t, !got.HasMoreRows(2))
	assert.Equal(t, 1, got.NumRows())
}

func TestDecodeRejectsCorruptSlot(t *testing.T) {
	b := newBlock(0)
	b.reset(BlockTypeNormal, personHeader)
	assert.NilError(t, b.appendRow([]DataType{TypeVarchar, TypeInt}, [][]byte{[]byte("x"), IntBytes(1)}))
	buf := b.encode()
	binary.LittleEndian.PutUint32(buf[tupleDictOffset:], uint32(DataAreaSize))

	_, err := decodeBlock(0, buf)
	assert.ErrorContains(t, err, "out of data area")
}
