// Package op defines the instruction tags emitted by the Seax compiler and
// consumed by the SECD virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Constants
	Nil       Code = 1
	LoadConst Code = 2

	// Environment
	Load Code = 10

	// Control
	Select Code = 20
	Join   Code = 21
	Stop   Code = 22

	// Functions
	LoadFunc  Code = 30
	Apply     Code = 31
	Return    Code = 32
	Dummy     Code = 33
	RecApply  Code = 34
	TailApply Code = 35

	// Lists
	Cons Code = 40
	Car  Code = 41
	Cdr  Code = 42
	Null Code = 43
	Atom Code = 44

	// Arithmetic
	Add Code = 50
	Sub Code = 51
	Mul Code = 52
	Div Code = 53
	Mod Code = 54

	// Comparison
	Eq  Code = 60
	Gt  Code = 61
	Gte Code = 62
	Lt  Code = 63
	Lte Code = 64
)

// Info contains information about an opcode. OperandCount is the number of
// cells that follow the instruction in a code list.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var (
	infos  = make([]Info, 256)
	byName = map[string]Code{}
)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Add, "ADD", 0},
		{Apply, "AP", 0},
		{Atom, "ATOM", 0},
		{Car, "CAR", 0},
		{Cdr, "CDR", 0},
		{Cons, "CONS", 0},
		{Div, "DIV", 0},
		{Dummy, "DUM", 0},
		{Eq, "EQ", 0},
		{Gt, "GT", 0},
		{Gte, "GTE", 0},
		{Join, "JOIN", 0},
		{Load, "LD", 1},
		{LoadConst, "LDC", 1},
		{LoadFunc, "LDF", 1},
		{Lt, "LT", 0},
		{Lte, "LTE", 0},
		{Mod, "MOD", 0},
		{Mul, "MUL", 0},
		{Nil, "NIL", 0},
		{Null, "NULL", 0},
		{RecApply, "RAP", 0},
		{Return, "RET", 0},
		{Select, "SEL", 2},
		{Stop, "STOP", 0},
		{Sub, "SUB", 0},
		{TailApply, "TAP", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
		byName[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// Lookup returns the opcode with the given mnemonic, e.g. "LDC".
func Lookup(name string) (Code, bool) {
	code, ok := byName[name]
	return code, ok
}

// String returns the mnemonic of the opcode, or "INVALID" if the opcode
// is not part of the instruction set.
func (c Code) String() string {
	if name := infos[c].Name; name != "" {
		return name
	}
	return "INVALID"
}
