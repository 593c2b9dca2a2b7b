package ast

import (
	"strconv"
	"strings"
)

// Root is the root of a program's syntax tree.
type Root struct {
	Exprs []Expr // top-level expressions in source order
}

func (x *Root) String() string {
	parts := make([]string, 0, len(x.Exprs))
	for _, expr := range x.Exprs {
		parts = append(parts, expr.String())
	}
	return strings.Join(parts, "\n")
}

// SExpr is an S-expression: function application or a special form such as
// if, lambda or let, selected by the operator name.
type SExpr struct {
	Operator *Name
	Operands []Expr
}

func (x *SExpr) exprNode() {}

// Keyword returns the operator name.
func (x *SExpr) Keyword() string {
	if x.Operator == nil {
		return ""
	}
	return x.Operator.Name
}

func (x *SExpr) String() string {
	var out strings.Builder
	out.WriteString("(")
	if x.Operator != nil {
		out.WriteString(x.Operator.Name)
	}
	for _, operand := range x.Operands {
		out.WriteString(" ")
		out.WriteString(operand.String())
	}
	out.WriteString(")")
	return out.String()
}

// Name is an identifier. It carries no binding information; names are
// resolved against a symbol table at compile time.
type Name struct {
	Name string
}

func (x *Name) exprNode() {}

func (x *Name) String() string { return x.Name }

// List is a list literal. Its elements are compiled as data rather than as
// an application.
type List struct {
	Elements []Expr
}

func (x *List) exprNode() {}

func (x *List) String() string {
	parts := make([]string, 0, len(x.Elements))
	for _, el := range x.Elements {
		parts = append(parts, el.String())
	}
	return "'(" + strings.Join(parts, " ") + ")"
}

// Int is a signed integer constant.
type Int struct {
	Value int64
}

func (x *Int) exprNode()   {}
func (x *Int) numberNode() {}

func (x *Int) String() string { return strconv.FormatInt(x.Value, 10) }

// UInt is an unsigned integer constant.
type UInt struct {
	Value uint64
}

func (x *UInt) exprNode()   {}
func (x *UInt) numberNode() {}

func (x *UInt) String() string { return strconv.FormatUint(x.Value, 10) + "u" }

// Float is a floating point constant.
type Float struct {
	Value float64
}

func (x *Float) exprNode()   {}
func (x *Float) numberNode() {}

func (x *Float) String() string {
	s := strconv.FormatFloat(x.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

// Bool is a boolean constant.
type Bool struct {
	Value bool
}

func (x *Bool) exprNode() {}

func (x *Bool) String() string {
	if x.Value {
		return "#t"
	}
	return "#f"
}

// Char is a character constant.
type Char struct {
	Value rune
}

func (x *Char) exprNode() {}

func (x *Char) String() string { return `#\` + string(x.Value) }

// String is a string constant.
type String struct {
	Value string
}

func (x *String) exprNode() {}

func (x *String) String() string { return strconv.Quote(x.Value) }

// NewName returns a Name node.
func NewName(name string) *Name {
	return &Name{Name: name}
}

// NewSExpr returns an S-expression applying the named operator.
func NewSExpr(operator string, operands ...Expr) *SExpr {
	return &SExpr{Operator: NewName(operator), Operands: operands}
}

// NewRoot returns a Root holding the given expressions.
func NewRoot(exprs ...Expr) *Root {
	return &Root{Exprs: exprs}
}

// NewList returns a list literal.
func NewList(elements ...Expr) *List {
	return &List{Elements: elements}
}
