package bytecode

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/seax-io/seax/op"
)

// Marshal converts a code list into its JSON wire representation.
func Marshal(code Code) ([]byte, error) {
	defs, err := defsFromCode(code)
	if err != nil {
		return nil, err
	}
	return json.Marshal(defs)
}

// Unmarshal converts a JSON wire representation into a code list.
func Unmarshal(data []byte) (Code, error) {
	var defs []*cellDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, err
	}
	return codeFromDefs(defs)
}

// MarshalJSON implements json.Marshaler.
func (c Code) MarshalJSON() ([]byte, error) {
	return Marshal(c)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Code) UnmarshalJSON(data []byte) error {
	code, err := Unmarshal(data)
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// Serialization types

const (
	kindInst  = "inst"
	kindSInt  = "sint"
	kindUInt  = "uint"
	kindFloat = "float"
	kindChar  = "char"
	kindList  = "list"
)

type cellDef struct {
	Kind  string          `json:"kind"`
	Op    string          `json:"op,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
	// Items is set only for lists, so that an empty list still carries an
	// items array while other kinds omit the field.
	Items *[]*cellDef     `json:"items,omitempty"`
}

func defsFromCode(code Code) ([]*cellDef, error) {
	defs := make([]*cellDef, 0, len(code))
	for _, cell := range code {
		def, err := defFromCell(cell)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func defFromCell(cell Cell) (*cellDef, error) {
	var (
		kind  string
		value any
	)
	switch cell := cell.(type) {
	case Inst:
		info := op.GetInfo(cell.Op())
		if info.Name == "" {
			return nil, fmt.Errorf("invalid opcode: %d", uint8(cell))
		}
		return &cellDef{Kind: kindInst, Op: info.Name}, nil
	case List:
		items, err := defsFromCode(Code(cell))
		if err != nil {
			return nil, err
		}
		return &cellDef{Kind: kindList, Items: &items}, nil
	case SInt:
		kind, value = kindSInt, int64(cell)
	case UInt:
		kind, value = kindUInt, uint64(cell)
	case Float:
		kind, value = kindFloat, float64(cell)
	case Char:
		kind, value = kindChar, string(rune(cell))
	default:
		return nil, fmt.Errorf("unsupported cell type: %T", cell)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &cellDef{Kind: kind, Value: data}, nil
}

func codeFromDefs(defs []*cellDef) (Code, error) {
	code := make(Code, 0, len(defs))
	for _, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("null cell")
		}
		cell, err := cellFromDef(def)
		if err != nil {
			return nil, err
		}
		code = append(code, cell)
	}
	return code, nil
}

func cellFromDef(def *cellDef) (Cell, error) {
	switch def.Kind {
	case kindInst:
		code, ok := op.Lookup(def.Op)
		if !ok {
			return nil, fmt.Errorf("unknown instruction: %q", def.Op)
		}
		return Inst(code), nil
	case kindList:
		if def.Items == nil {
			return nil, fmt.Errorf("list cell: missing items")
		}
		items, err := codeFromDefs(*def.Items)
		if err != nil {
			return nil, err
		}
		return ListOf(items...), nil
	case kindSInt:
		var v int64
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return nil, fmt.Errorf("invalid sint value: %w", err)
		}
		return SInt(v), nil
	case kindUInt:
		var v uint64
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return nil, fmt.Errorf("invalid uint value: %w", err)
		}
		return UInt(v), nil
	case kindFloat:
		var v float64
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return nil, fmt.Errorf("invalid float value: %w", err)
		}
		return Float(v), nil
	case kindChar:
		var v string
		if err := json.Unmarshal(def.Value, &v); err != nil {
			return nil, fmt.Errorf("invalid char value: %w", err)
		}
		if utf8.RuneCountInString(v) != 1 {
			return nil, fmt.Errorf("invalid char value: %q", v)
		}
		r, _ := utf8.DecodeRuneInString(v)
		return Char(r), nil
	default:
		return nil, fmt.Errorf("unknown cell kind: %q", def.Kind)
	}
}
