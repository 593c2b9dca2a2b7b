package ast

// Equal reports whether two trees are structurally equal: same node types,
// same payloads and equal children in the same order. Float constants
// compare with ==, so NaN is never equal to itself.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Root:
		y, ok := b.(*Root)
		return ok && equalExprs(x.Exprs, y.Exprs)
	case *SExpr:
		y, ok := b.(*SExpr)
		if !ok {
			return false
		}
		if (x.Operator == nil) != (y.Operator == nil) {
			return false
		}
		if x.Operator != nil && x.Operator.Name != y.Operator.Name {
			return false
		}
		return equalExprs(x.Operands, y.Operands)
	case *Name:
		y, ok := b.(*Name)
		return ok && x.Name == y.Name
	case *List:
		y, ok := b.(*List)
		return ok && equalExprs(x.Elements, y.Elements)
	case *Int:
		y, ok := b.(*Int)
		return ok && x.Value == y.Value
	case *UInt:
		y, ok := b.(*UInt)
		return ok && x.Value == y.Value
	case *Float:
		y, ok := b.(*Float)
		return ok && x.Value == y.Value
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.Value == y.Value
	case *Char:
		y, ok := b.(*Char)
		return ok && x.Value == y.Value
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	}
	return false
}

func equalExprs(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
