// Package dis supports analysis of SECD code lists by disassembling them.
// Nested code blocks, the operands of SEL and LDF, are listed inline and
// indented beneath the instruction that owns them.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/seax-io/seax/bytecode"
	"github.com/seax-io/seax/internal/table"
	"github.com/seax-io/seax/op"
)

// Instruction represents a single instruction and its atom operands, or a
// literal data cell that appears outside of any operand position.
type Instruction struct {
	// Offset is the cell index within the enclosing code list.
	Offset int
	// Depth is the nesting level of the enclosing code list.
	Depth      int
	Name       string
	Opcode     op.Code
	Operands   []bytecode.Cell
	Annotation string
	Literal    bool
}

// Disassemble returns a flattened representation of the given code list.
func Disassemble(code bytecode.Code) ([]Instruction, error) {
	var instructions []Instruction
	if err := disassemble(code, 0, &instructions); err != nil {
		return nil, err
	}
	return instructions, nil
}

func disassemble(code bytecode.Code, depth int, out *[]Instruction) error {
	for offset := 0; offset < len(code); offset++ {
		inst, ok := code[offset].(bytecode.Inst)
		if !ok {
			*out = append(*out, Instruction{
				Offset:     offset,
				Depth:      depth,
				Operands:   []bytecode.Cell{code[offset]},
				Annotation: describeLiteral(code[offset]),
				Literal:    true,
			})
			continue
		}
		info := op.GetInfo(inst.Op())
		if info.Name == "" {
			return fmt.Errorf("invalid opcode %d at offset %d", uint8(inst), offset)
		}
		if offset+info.OperandCount >= len(code) {
			return fmt.Errorf("%s at offset %d: missing operands", info.Name, offset)
		}
		operands := code[offset+1 : offset+1+info.OperandCount]
		instr := Instruction{
			Offset: offset,
			Depth:  depth,
			Name:   info.Name,
			Opcode: inst.Op(),
		}
		var blocks []bytecode.List
		switch inst.Op() {
		case op.Select, op.LoadFunc:
			for _, operand := range operands {
				block, ok := operand.(bytecode.List)
				if !ok {
					return fmt.Errorf("%s at offset %d: expected code block, got %s", info.Name, offset, operand)
				}
				blocks = append(blocks, block)
			}
			instr.Annotation = describeBlocks(inst.Op(), blocks)
		case op.Load:
			instr.Operands = operands
			instr.Annotation = describeAddress(operands[0])
		default:
			instr.Operands = operands
			if len(operands) > 0 {
				instr.Annotation = describeLiteral(operands[0])
			}
		}
		*out = append(*out, instr)
		for _, block := range blocks {
			if err := disassemble(bytecode.Code(block), depth+1, out); err != nil {
				return err
			}
		}
		offset += info.OperandCount
	}
	return nil
}

func describeBlocks(code op.Code, blocks []bytecode.List) string {
	if code == op.LoadFunc {
		return fmt.Sprintf("closure: %d cells", len(blocks[0]))
	}
	return fmt.Sprintf("then: %d cells, else: %d cells", len(blocks[0]), len(blocks[1]))
}

func describeAddress(cell bytecode.Cell) string {
	addr, ok := cell.(bytecode.List)
	if !ok || len(addr) != 2 {
		return cell.String()
	}
	return fmt.Sprintf("frame %s slot %s",
		strings.TrimSuffix(addr[0].String(), "u"),
		strings.TrimSuffix(addr[1].String(), "u"))
}

// describeLiteral renders a constant. A list made only of characters is
// shown as the string it encodes.
func describeLiteral(cell bytecode.Cell) string {
	list, ok := cell.(bytecode.List)
	if !ok || len(list) == 0 {
		return cell.String()
	}
	var sb strings.Builder
	for _, el := range list {
		c, ok := el.(bytecode.Char)
		if !ok {
			return cell.String()
		}
		sb.WriteRune(rune(c))
	}
	return fmt.Sprintf("%q", sb.String())
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
)

func colorize(instr Instruction) string {
	if instr.Annotation == "" {
		return ""
	}
	if instr.Literal || instr.Opcode == op.LoadConst {
		switch instr.Operands[0].(type) {
		case bytecode.SInt, bytecode.UInt, bytecode.Float:
			return yellow(instr.Annotation)
		case bytecode.Char:
			return green(instr.Annotation)
		case bytecode.List:
			if strings.HasPrefix(instr.Annotation, `"`) {
				return green(instr.Annotation)
			}
		}
		return bold(instr.Annotation)
	}
	switch instr.Opcode {
	case op.Select, op.LoadFunc:
		return magenta(instr.Annotation)
	case op.Load:
		return cyan(instr.Annotation)
	}
	return instr.Annotation
}

func formatOperands(cells []bytecode.Cell) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = cell.String()
	}
	return strings.Join(parts, " ")
}

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) error {
	lines := make([][]string, 0, len(instructions))
	for _, instr := range instructions {
		indent := strings.Repeat("  ", instr.Depth)
		name := bold(instr.Name)
		if instr.Literal {
			name = faint("DATA")
		}
		lines = append(lines, []string{
			fmt.Sprintf("%d", instr.Offset),
			indent + name,
			formatOperands(instr.Operands),
			colorize(instr),
		})
	}
	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}
