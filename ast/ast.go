// Package ast defines the abstract syntax tree of Seax Scheme programs.
//
// The tree is a closed set of node types. A Root holds the top-level
// expressions of a program; every other node is an Expr. Special forms such
// as if and lambda are not distinct node types: they are SExpr nodes whose
// operator names a keyword, and the compiler selects a strategy from that
// name.
//
// Trees are built once by a parser (or decoded from JSON with Unmarshal) and
// are never modified afterwards.
package ast

import "strings"

// indent is the string used for each nesting level by PrintLevel.
const indent = "\t"

// Node represents a portion of the syntax tree.
type Node interface {
	// String returns the Scheme source rendering of the node.
	String() string

	// PrintLevel returns an indented, multi-line description of the node
	// and its children, starting at the given nesting level.
	PrintLevel(level int) string
}

// Expr represents an expression node. Every node other than Root is an
// expression and may be embedded in other expressions.
type Expr interface {
	Node
	exprNode()
}

// Number is implemented by the numeric constant nodes Int, UInt and Float.
type Number interface {
	Expr
	numberNode()
}

// Prettyprint returns the indented description of the node at level zero.
func Prettyprint(node Node) string {
	return node.PrintLevel(0)
}

func tabs(level int) string {
	return strings.Repeat(indent, level)
}
