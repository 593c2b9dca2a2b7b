package ast

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// The JSON form of a tree is the contract with external parsers. Every node
// is an object tagged with its type:
//
//	{"type": "sexpr", "operator": "+", "operands": [
//	    {"type": "int", "value": 1},
//	    {"type": "name", "value": "x"}
//	]}

const (
	typeRoot   = "root"
	typeSExpr  = "sexpr"
	typeName   = "name"
	typeList   = "list"
	typeInt    = "int"
	typeUInt   = "uint"
	typeFloat  = "float"
	typeBool   = "bool"
	typeChar   = "char"
	typeString = "string"
)

type nodeDef struct {
	Type     string          `json:"type"`
	Operator string          `json:"operator,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
	Exprs    []*nodeDef      `json:"exprs,omitempty"`
	Operands []*nodeDef      `json:"operands,omitempty"`
	Elements []*nodeDef      `json:"elements,omitempty"`
}

// Marshal converts a tree into its JSON representation.
func Marshal(node Node) ([]byte, error) {
	def, err := defFromNode(node)
	if err != nil {
		return nil, err
	}
	return json.Marshal(def)
}

// Unmarshal decodes a tree from its JSON representation. The result is a
// *Root or an Expr.
func Unmarshal(data []byte) (Node, error) {
	var def nodeDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return nodeFromDef(&def)
}

func defsFromExprs(exprs []Expr) ([]*nodeDef, error) {
	defs := make([]*nodeDef, 0, len(exprs))
	for _, expr := range exprs {
		def, err := defFromNode(expr)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func valueDef(typ string, value any) (*nodeDef, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return &nodeDef{Type: typ, Value: data}, nil
}

func defFromNode(node Node) (*nodeDef, error) {
	switch n := node.(type) {
	case *Root:
		exprs, err := defsFromExprs(n.Exprs)
		if err != nil {
			return nil, err
		}
		return &nodeDef{Type: typeRoot, Exprs: exprs}, nil
	case *SExpr:
		if n.Operator == nil {
			return nil, fmt.Errorf("s-expression without operator")
		}
		operands, err := defsFromExprs(n.Operands)
		if err != nil {
			return nil, err
		}
		return &nodeDef{Type: typeSExpr, Operator: n.Operator.Name, Operands: operands}, nil
	case *List:
		elements, err := defsFromExprs(n.Elements)
		if err != nil {
			return nil, err
		}
		return &nodeDef{Type: typeList, Elements: elements}, nil
	case *Name:
		return valueDef(typeName, n.Name)
	case *Int:
		return valueDef(typeInt, n.Value)
	case *UInt:
		return valueDef(typeUInt, n.Value)
	case *Float:
		return valueDef(typeFloat, n.Value)
	case *Bool:
		return valueDef(typeBool, n.Value)
	case *Char:
		return valueDef(typeChar, string(n.Value))
	case *String:
		return valueDef(typeString, n.Value)
	default:
		return nil, fmt.Errorf("unsupported node type: %T", node)
	}
}

func exprsFromDefs(defs []*nodeDef) ([]Expr, error) {
	exprs := make([]Expr, 0, len(defs))
	for _, def := range defs {
		if def == nil {
			return nil, fmt.Errorf("null node")
		}
		node, err := nodeFromDef(def)
		if err != nil {
			return nil, err
		}
		expr, ok := node.(Expr)
		if !ok {
			return nil, fmt.Errorf("%s node cannot be nested", def.Type)
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeValue(def *nodeDef, target any) error {
	if len(def.Value) == 0 {
		return fmt.Errorf("%s node: missing value", def.Type)
	}
	if err := json.Unmarshal(def.Value, target); err != nil {
		return fmt.Errorf("%s node: invalid value: %w", def.Type, err)
	}
	return nil
}

func nodeFromDef(def *nodeDef) (Node, error) {
	switch def.Type {
	case typeRoot:
		exprs, err := exprsFromDefs(def.Exprs)
		if err != nil {
			return nil, err
		}
		return &Root{Exprs: exprs}, nil
	case typeSExpr:
		if def.Operator == "" {
			return nil, fmt.Errorf("sexpr node: missing operator")
		}
		operands, err := exprsFromDefs(def.Operands)
		if err != nil {
			return nil, err
		}
		return &SExpr{Operator: NewName(def.Operator), Operands: operands}, nil
	case typeList:
		elements, err := exprsFromDefs(def.Elements)
		if err != nil {
			return nil, err
		}
		return &List{Elements: elements}, nil
	case typeName:
		var v string
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		if v == "" {
			return nil, fmt.Errorf("name node: empty name")
		}
		return &Name{Name: v}, nil
	case typeInt:
		var v int64
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		return &Int{Value: v}, nil
	case typeUInt:
		var v uint64
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		return &UInt{Value: v}, nil
	case typeFloat:
		var v float64
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		return &Float{Value: v}, nil
	case typeBool:
		var v bool
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		return &Bool{Value: v}, nil
	case typeChar:
		var v string
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		if utf8.RuneCountInString(v) != 1 {
			return nil, fmt.Errorf("char node: expected a single character, got %q", v)
		}
		r, _ := utf8.DecodeRuneInString(v)
		return &Char{Value: r}, nil
	case typeString:
		var v string
		if err := decodeValue(def, &v); err != nil {
			return nil, err
		}
		return &String{Value: v}, nil
	default:
		return nil, fmt.Errorf("unknown node type: %q", def.Type)
	}
}
