package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func (x *Root) PrintLevel(level int) string {
	var out strings.Builder
	for _, expr := range x.Exprs {
		out.WriteString(expr.PrintLevel(level + 1))
	}
	return out.String()
}

func (x *SExpr) PrintLevel(level int) string {
	tab := tabs(level)
	var out strings.Builder
	out.WriteString(tab + "S-Expression:\n")
	tab += indent
	out.WriteString(tab + "Operator:\n")
	if x.Operator != nil {
		out.WriteString(x.Operator.PrintLevel(level + 2))
	}
	for _, operand := range x.Operands {
		out.WriteString(tab + "Operand:\n")
		out.WriteString(operand.PrintLevel(level + 2))
	}
	return out.String()
}

func (x *Name) PrintLevel(level int) string {
	return tabs(level) + "Name: " + x.Name + "\n"
}

func (x *List) PrintLevel(level int) string {
	var out strings.Builder
	out.WriteString(tabs(level) + "List:\n")
	for _, el := range x.Elements {
		out.WriteString(el.PrintLevel(level + 1))
	}
	return out.String()
}

func (x *Int) PrintLevel(level int) string {
	return tabs(level) + "Number: " + strconv.FormatInt(x.Value, 10) + "\n"
}

func (x *UInt) PrintLevel(level int) string {
	return tabs(level) + "Number: " + strconv.FormatUint(x.Value, 10) + "u\n"
}

func (x *Float) PrintLevel(level int) string {
	return tabs(level) + "Number: " + strconv.FormatFloat(x.Value, 'g', -1, 64) + "f\n"
}

func (x *Bool) PrintLevel(level int) string {
	return fmt.Sprintf("%sBoolean: %t\n", tabs(level), x.Value)
}

func (x *Char) PrintLevel(level int) string {
	return fmt.Sprintf("%sCharacter: '%c'\n", tabs(level), x.Value)
}

func (x *String) PrintLevel(level int) string {
	return fmt.Sprintf("%sString: %q\n", tabs(level), x.Value)
}
