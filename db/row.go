package db

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Field is one staged value of a row: its type, the attribute it belongs to
// in the target table, and its encoded bytes.
type Field struct {
	Type  DataType
	Name  string
	Value []byte
}

// Row is an ordered list of staged fields.
type Row []Field

// Add stages a copy of value under the attribute name.
func (r *Row) Add(typ DataType, name string, value []byte) {
	v := make([]byte, len(value))
	copy(v, value)
	*r = append(*r, Field{Type: typ, Name: name, Value: v})
}

// Get returns the field staged for name.
func (r Row) Get(name string) (Field, bool) {
	for _, f := range r {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ordered returns the row's types and values in header order.
func (r Row) ordered(header []Attribute) ([]DataType, [][]byte, error) {
	if len(r) != len(header) {
		return nil, nil, errors.Wrapf(ErrTypeMismatch, "row has %d fields, table has %d attributes", len(r), len(header))
	}
	types := make([]DataType, len(header))
	values := make([][]byte, len(header))
	for i, attr := range header {
		f, ok := r.Get(attr.Name)
		if !ok {
			return nil, nil, errors.Wrapf(ErrTypeMismatch, "no value for attribute %q", attr.Name)
		}
		if f.Type != attr.Type {
			return nil, nil, errors.Wrapf(ErrTypeMismatch, "attribute %q is %s, got %s", attr.Name, attr.Type, f.Type)
		}
		if size := f.Type.Size(); size != 0 && len(f.Value) != size {
			return nil, nil, errors.Wrapf(ErrTypeMismatch, "attribute %q needs %d bytes, got %d", attr.Name, size, len(f.Value))
		}
		types[i] = f.Type
		values[i] = f.Value
	}
	return types, values, nil
}

func IntBytes(v int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(v))
	return buf
}

func FloatBytes(v float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
	return buf
}

func NumberBytes(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func BoolBytes(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// BytesInt decodes an int field. Short input is zero-extended.
func BytesInt(b []byte) int32 {
	var buf [4]byte
	copy(buf[:], b)
	return int32(binary.LittleEndian.Uint32(buf[:]))
}

func BytesFloat(b []byte) float32 {
	var buf [4]byte
	copy(buf[:], b)
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:]))
}

func BytesNumber(b []byte) float64 {
	var buf [8]byte
	copy(buf[:], b)
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))
}
