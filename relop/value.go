package relop

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/aita/blockjoin/db"
)

// Value is a typed field value as it is stored in a block.
type Value struct {
	Type db.DataType
	Raw  []byte
}

func Int(v int32) Value { return Value{Type: db.TypeInt, Raw: db.IntBytes(v)} }
func Float(v float32) Value { return Value{Type: db.TypeFloat, Raw: db.FloatBytes(v)} }
func Number(v float64) Value { return Value{Type: db.TypeNumber, Raw: db.NumberBytes(v)} }
func Varchar(v string) Value { return Value{Type: db.TypeVarchar, Raw: []byte(v)} }
func Bool(v bool) Value { return Value{Type: db.TypeBool, Raw: db.BoolBytes(v)} }
func Date(v string) Value { return Value{Type: db.TypeDate, Raw: []byte(v)} }
func Datetime(v string) Value { return Value{Type: db.TypeDatetime, Raw: []byte(v)} }
func Time(v string) Value { return Value{Type: db.TypeTime, Raw: []byte(v)} }

// verdict is the 0/1 integer an operator leaves on the stack.
func verdict(ok bool) Value {
	if ok {
		return Int(1)
	}
	return Int(0)
}

// Truth interprets v as a logical operand.
func (v Value) Truth() bool {
	switch v.Type {
	case db.TypeInt:
		return db.BytesInt(v.Raw) != 0
	case db.TypeFloat:
		return db.BytesFloat(v.Raw) != 0
	case db.TypeNumber:
		return db.BytesNumber(v.Raw) != 0
	}
	for _, c := range v.Raw {
		if c != 0 {
			return true
		}
	}
	return false
}

func (v Value) String() string {
	switch v.Type {
	case db.TypeInt:
		return fmt.Sprintf("%d", db.BytesInt(v.Raw))
	case db.TypeFloat:
		return fmt.Sprintf("%g", db.BytesFloat(v.Raw))
	case db.TypeNumber:
		return fmt.Sprintf("%g", db.BytesNumber(v.Raw))
	case db.TypeBool:
		return fmt.Sprintf("%t", v.Truth())
	case db.TypeVarchar, db.TypeDate, db.TypeDatetime, db.TypeTime:
		return fmt.Sprintf("%q", v.Raw)
	}
	return fmt.Sprintf("%s(%x)", v.Type, v.Raw)
}

// Equal compares the bytes of a and b over the shorter of the two.
func Equal(a, b Value) bool {
	n := shorter(a, b)
	return bytes.Equal(a.Raw[:n], b.Raw[:n])
}

func shorter(a, b Value) int {
	if len(b.Raw) < len(a.Raw) {
		return len(b.Raw)
	}
	return len(a.Raw)
}

// Compare applies an ordering operator. The comparison is chosen by the type
// of b, the operand pushed last.
func Compare(op Op, a, b Value) (bool, error) {
	if !op.IsOrdering() {
		return false, errors.Wrapf(ErrInvalidExpression, "%s is not an ordering operator", op)
	}
	switch b.Type {
	case db.TypeInt:
		return ordered(op, db.BytesInt(a.Raw), db.BytesInt(b.Raw)), nil
	case db.TypeFloat:
		return ordered(op, db.BytesFloat(a.Raw), db.BytesFloat(b.Raw)), nil
	case db.TypeNumber:
		return ordered(op, db.BytesNumber(a.Raw), db.BytesNumber(b.Raw)), nil
	case db.TypeVarchar, db.TypeDate, db.TypeDatetime, db.TypeTime:
		// Only the common prefix counts, as for Equal.
		n := shorter(a, b)
		return ordered(op, bytes.Compare(a.Raw[:n], b.Raw[:n]), 0), nil
	}
	return false, errors.Wrapf(ErrUncomparable, "%s %s %s", a, op, b)
}

func ordered[T constraints.Ordered](op Op, a, b T) bool {
	switch op {
	case OpLess:
		return a < b
	case OpGreater:
		return a > b
	case OpLessEqual:
		return a <= b
	case OpGreaterEqual:
		return a >= b
	}
	return false
}
