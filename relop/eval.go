package relop

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/aita/blockjoin/db"
)

// Source is one input of a binary operator.
type Source struct {
	Name   string
	Header []db.Attribute
}

// column finds name in the header, either as is or qualified with the
// source's table name.
func (s Source) column(name string) (int, bool) {
	for i, attr := range s.Header {
		if attr.Name == name {
			return i, true
		}
	}
	if table, attr, ok := strings.Cut(name, "."); ok && table == s.Name {
		return s.column(attr)
	}
	return -1, false
}

// Fields gives the evaluator access to the columns of one candidate row.
type Fields interface {
	Field(column int) Value
}

// Values is a row held in memory.
type Values []Value

func (v Values) Field(column int) Value {
	return v[column]
}

// blockRow is the row starting at tuple dictionary index start of a block.
type blockRow struct {
	block *db.Block
	start int
}

func (r *blockRow) Field(column int) Value {
	typ, raw := r.block.RowField(r.start, column)
	return Value{Type: typ, Raw: raw}
}

const (
	leftSide = iota
	rightSide
)

type step struct {
	kind   ElementKind
	side   int
	column int
	op     Op
	value  Value
}

// Program is a constraint expression bound to the headers of two inputs.
// It keeps its evaluation stack between calls and is not safe for
// concurrent use.
type Program struct {
	expr  Expression
	steps []step
	stack []Value
}

// Compile binds the attribute references of expr to columns of left and
// right, preferring left when both have the name, and checks that the
// expression leaves exactly one value on the stack.
func Compile(expr Expression, left, right Source) (*Program, error) {
	p := &Program{expr: expr, steps: make([]step, 0, len(expr))}
	depth, maxDepth := 0, 0
	for i, el := range expr {
		switch el.Kind {
		case ElementAttribute:
			s := step{kind: ElementAttribute}
			if col, ok := left.column(el.Name); ok {
				s.side, s.column = leftSide, col
			} else if col, ok := right.column(el.Name); ok {
				s.side, s.column = rightSide, col
			} else {
				return nil, errors.Wrapf(ErrUnresolvedReference, "%q is not an attribute of %s or %s", el.Name, left.Name, right.Name)
			}
			p.steps = append(p.steps, s)
			depth++
		case ElementLiteral:
			p.steps = append(p.steps, step{kind: ElementLiteral, value: el.Value})
			depth++
		case ElementOperator:
			if _, ok := opSymbols[el.Op]; !ok {
				return nil, errors.Wrapf(ErrInvalidExpression, "unknown operator at position %d", i)
			}
			if depth < 2 {
				return nil, errors.Wrapf(ErrInvalidExpression, "%s at position %d needs two operands", el.Op, i)
			}
			p.steps = append(p.steps, step{kind: ElementOperator, op: el.Op})
			depth--
		default:
			return nil, errors.Wrapf(ErrInvalidExpression, "unknown element at position %d", i)
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	if depth != 1 {
		return nil, errors.Wrapf(ErrInvalidExpression, "%q leaves %d values on the stack", expr.String(), depth)
	}
	p.stack = make([]Value, 0, maxDepth)
	return p, nil
}

func (p *Program) String() string {
	return p.expr.String()
}

// Eval runs the program against one pair of candidate rows.
func (p *Program) Eval(left, right Fields) (bool, error) {
	defer func() { p.stack = p.stack[:0] }()
	for _, s := range p.steps {
		switch s.kind {
		case ElementAttribute:
			if s.side == leftSide {
				p.stack = append(p.stack, left.Field(s.column))
			} else {
				p.stack = append(p.stack, right.Field(s.column))
			}
		case ElementLiteral:
			p.stack = append(p.stack, s.value)
		case ElementOperator:
			n := len(p.stack)
			a, b := p.stack[n-2], p.stack[n-1]
			v, err := apply(s.op, a, b)
			if err != nil {
				return false, err
			}
			p.stack = append(p.stack[:n-2], v)
		}
	}
	return p.stack[0].Truth(), nil
}

func apply(op Op, a, b Value) (Value, error) {
	switch op {
	case OpEqual:
		return verdict(Equal(a, b)), nil
	case OpNotEqual:
		return verdict(!Equal(a, b)), nil
	case OpAnd:
		return verdict(a.Truth() && b.Truth()), nil
	case OpOr:
		return verdict(a.Truth() || b.Truth()), nil
	}
	ok, err := Compare(op, a, b)
	if err != nil {
		return Value{}, err
	}
	return verdict(ok), nil
}

// Evaluate compiles expr and runs it once.
func Evaluate(expr Expression, left Source, l Fields, right Source, r Fields) (bool, error) {
	p, err := Compile(expr, left, right)
	if err != nil {
		return false, err
	}
	return p.Eval(l, r)
}
