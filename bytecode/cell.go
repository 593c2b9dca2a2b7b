package bytecode

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seax-io/seax/op"
)

// Cell is a single element of a code list.
type Cell interface {
	cell()
	String() string
}

// Atom is a literal cell: SInt, UInt, Float or Char.
type Atom interface {
	Cell
	atom()
}

// Inst is an instruction tag.
type Inst op.Code

// SInt is a signed integer literal.
type SInt int64

// UInt is an unsigned integer literal.
type UInt uint64

// Float is a floating point literal.
type Float float64

// Char is a character literal.
type Char rune

// List is a nested list of cells. It holds literal list data, or a code
// block when it appears as an operand of SEL or LDF.
type List Code

func (Inst) cell()  {}
func (SInt) cell()  {}
func (UInt) cell()  {}
func (Float) cell() {}
func (Char) cell()  {}
func (List) cell()  {}

func (SInt) atom()  {}
func (UInt) atom()  {}
func (Float) atom() {}
func (Char) atom()  {}

// Op returns the opcode of the instruction.
func (i Inst) Op() op.Code { return op.Code(i) }

func (i Inst) String() string { return op.Code(i).String() }

func (s SInt) String() string { return strconv.FormatInt(int64(s), 10) }

func (u UInt) String() string { return strconv.FormatUint(uint64(u), 10) + "u" }

func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64) + "f"
}

func (c Char) String() string { return strconv.QuoteRune(rune(c)) }

func (l List) String() string { return Code(l).String() }

// Instr returns the instruction cell for the given opcode.
func Instr(code op.Code) Inst {
	return Inst(code)
}

// ListOf returns a list cell containing the given cells. The result is
// never nil, so an empty list compares equal to List{}.
func ListOf(cells ...Cell) List {
	l := make(List, len(cells))
	copy(l, cells)
	return l
}

// Code is a compiled code list.
type Code []Cell

// Append adds cells to the end of the code list.
func (c *Code) Append(cells ...Cell) {
	*c = append(*c, cells...)
}

// Extend adds all cells of another code list to the end of this one.
func (c *Code) Extend(other Code) {
	*c = append(*c, other...)
}

// Instructions returns the opcodes of the top-level instructions in the
// code list, skipping operands. Nested lists are not descended into.
func (c Code) Instructions() []op.Code {
	var ops []op.Code
	for _, cell := range c {
		if inst, ok := cell.(Inst); ok {
			ops = append(ops, inst.Op())
		}
	}
	return ops
}

// String returns the parenthesized rendering of the code list.
func (c Code) String() string {
	var b strings.Builder
	b.WriteString("(")
	for i, cell := range c {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(cell.String())
	}
	b.WriteString(")")
	return b.String()
}

// Validate checks that every instruction in the code list is followed by
// the operands its opcode requires, and that SEL and LDF operands are
// code blocks terminated by JOIN and RET respectively.
func (c Code) Validate() error {
	for i := 0; i < len(c); i++ {
		inst, ok := c[i].(Inst)
		if !ok {
			continue
		}
		info := op.GetInfo(inst.Op())
		if info.Name == "" {
			return fmt.Errorf("invalid opcode %d at offset %d", uint8(inst), i)
		}
		if i+info.OperandCount >= len(c) {
			return fmt.Errorf("%s at offset %d: expected %d operand(s)", info.Name, i, info.OperandCount)
		}
		switch inst.Op() {
		case op.Select:
			for j := 1; j <= 2; j++ {
				if err := validateBlock(c[i+j], op.Join); err != nil {
					return fmt.Errorf("SEL at offset %d: %w", i, err)
				}
			}
		case op.LoadFunc:
			if err := validateBlock(c[i+1], op.Return); err != nil {
				return fmt.Errorf("LDF at offset %d: %w", i, err)
			}
		case op.Load:
			addr, ok := c[i+1].(List)
			if !ok || len(addr) != 2 {
				return fmt.Errorf("LD at offset %d: expected (frame slot) address", i)
			}
		}
		i += info.OperandCount
	}
	return nil
}

func validateBlock(cell Cell, terminator op.Code) error {
	block, ok := cell.(List)
	if !ok {
		return fmt.Errorf("expected code block, got %s", cell)
	}
	if len(block) == 0 {
		return fmt.Errorf("empty code block")
	}
	if last, ok := block[len(block)-1].(Inst); !ok || last.Op() != terminator {
		return fmt.Errorf("code block must end with %s", terminator)
	}
	return Code(block).Validate()
}
