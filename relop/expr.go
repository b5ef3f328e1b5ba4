package relop

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Op is one of the operators a constraint expression may contain.
type Op int

const (
	OpLess Op = iota + 1
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
)

var opSymbols = map[Op]string{
	OpLess:         "<",
	OpGreater:      ">",
	OpLessEqual:    "<=",
	OpGreaterEqual: ">=",
	OpEqual:        "=",
	OpNotEqual:     "<>",
	OpAnd:          "AND",
	OpOr:           "OR",
}

func (op Op) String() string {
	if s, ok := opSymbols[op]; ok {
		return s
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// ParseOp maps an operator symbol to its Op. AND and OR are case-insensitive.
func ParseOp(symbol string) (Op, bool) {
	s := strings.ToUpper(symbol)
	for op, sym := range opSymbols {
		if sym == s {
			return op, true
		}
	}
	return 0, false
}

func (op Op) IsOrdering() bool {
	return op >= OpLess && op <= OpGreaterEqual
}

func (op Op) IsEquality() bool {
	return op == OpEqual || op == OpNotEqual
}

func (op Op) IsLogical() bool {
	return op == OpAnd || op == OpOr
}

// ElementKind tags an element of a postfix expression.
type ElementKind int

const (
	ElementAttribute ElementKind = iota + 1
	ElementOperator
	ElementLiteral
)

// Element is one token of a postfix constraint expression.
type Element struct {
	Kind  ElementKind
	Name  string
	Op    Op
	Value Value
}

func (e Element) String() string {
	switch e.Kind {
	case ElementAttribute:
		return e.Name
	case ElementOperator:
		return e.Op.String()
	case ElementLiteral:
		return e.Value.String()
	}
	return "?"
}

// Expression is a constraint in postfix (operator last) order.
type Expression []Element

func Attr(name string) Element {
	return Element{Kind: ElementAttribute, Name: name}
}

func Operator(op Op) Element {
	return Element{Kind: ElementOperator, Op: op}
}

func Literal(v Value) Element {
	return Element{Kind: ElementLiteral, Value: v}
}

func (e Expression) String() string {
	parts := make([]string, len(e))
	for i, el := range e {
		parts[i] = el.String()
	}
	return strings.Join(parts, " ")
}

// ParseExpression reads a whitespace separated postfix expression. Tokens
// are operator symbols, typed literals (int:5, float:1.5, number:2.25,
// date:2012-01-31, 'text', true, false) or attribute names.
func ParseExpression(s string) (Expression, error) {
	var expr Expression
	for _, tok := range tokenize(s) {
		el, err := parseToken(tok)
		if err != nil {
			return nil, err
		}
		expr = append(expr, el)
	}
	if len(expr) == 0 {
		return nil, errors.Wrap(ErrInvalidExpression, "empty expression")
	}
	return expr, nil
}

func tokenize(s string) []string {
	var toks []string
	var cur strings.Builder
	quoted := false
	for _, r := range s {
		switch {
		case r == '\'':
			quoted = !quoted
			cur.WriteRune(r)
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			if cur.Len() > 0 {
				toks = append(toks, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		toks = append(toks, cur.String())
	}
	return toks
}

func parseToken(tok string) (Element, error) {
	if op, ok := ParseOp(tok); ok {
		return Operator(op), nil
	}
	if len(tok) >= 2 && tok[0] == '\'' && tok[len(tok)-1] == '\'' {
		return Literal(Varchar(tok[1 : len(tok)-1])), nil
	}
	switch tok {
	case "true":
		return Literal(Bool(true)), nil
	case "false":
		return Literal(Bool(false)), nil
	}
	kind, text, ok := strings.Cut(tok, ":")
	if !ok {
		return Attr(tok), nil
	}
	switch kind {
	case "int":
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Element{}, errors.Wrapf(ErrInvalidExpression, "literal %q", tok)
		}
		return Literal(Int(int32(v))), nil
	case "float":
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return Element{}, errors.Wrapf(ErrInvalidExpression, "literal %q", tok)
		}
		return Literal(Float(float32(v))), nil
	case "number":
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Element{}, errors.Wrapf(ErrInvalidExpression, "literal %q", tok)
		}
		return Literal(Number(v)), nil
	case "date":
		return Literal(Date(text)), nil
	case "datetime":
		return Literal(Datetime(text)), nil
	case "time":
		return Literal(Time(text)), nil
	}
	return Attr(tok), nil
}
