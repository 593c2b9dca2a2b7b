// Package bytecode defines the code lists produced by the Seax compiler.
//
// A code list is an ordered sequence of cells. A cell is either an
// instruction tag, a literal atom (signed integer, unsigned integer,
// floating point or character), or a nested list. Nested lists carry
// literal list data and the sub-programs used as operands of the SEL and
// LDF instructions:
//
//	(LDC 1 SEL (LDC 1 JOIN) (LDC 2 JOIN))
//
// The same representation is used for instructions and for data, so the
// SECD machine can treat a branch body as an ordinary list value.
package bytecode
