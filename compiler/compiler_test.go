package compiler

import (
	"bytes"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/seax-io/seax/ast"
	"github.com/seax-io/seax/bytecode"
	"github.com/seax-io/seax/errors"
	"github.com/seax-io/seax/op"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(v int64) *ast.Int { return &ast.Int{Value: v} }

func name(s string) *ast.Name { return ast.NewName(s) }

func sexpr(operator string, operands ...ast.Expr) *ast.SExpr {
	return ast.NewSExpr(operator, operands...)
}

// compiled compiles node and returns the rendered code list, checking that
// the result is well formed.
func compiled(t *testing.T, node ast.Node, opts ...Option) string {
	t.Helper()
	code, err := Compile(node, opts...)
	require.Nil(t, err)
	require.NoError(t, code.Validate())
	return code.String()
}

func TestConstants(t *testing.T) {
	tests := []struct {
		node ast.Node
		want bytecode.Code
	}{
		{num(42), bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.SInt(42)}},
		{num(-1), bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.SInt(-1)}},
		{&ast.UInt{Value: 7}, bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.UInt(7)}},
		{&ast.UInt{Value: math.MaxUint64}, bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.UInt(math.MaxUint64)}},
		{&ast.Float{Value: 1.5}, bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.Float(1.5)}},
		{&ast.Bool{Value: true}, bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.SInt(1)}},
		{&ast.Bool{Value: false}, bytecode.Code{bytecode.Instr(op.Nil)}},
		{&ast.Char{Value: 'a'}, bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.Char('a')}},
		{&ast.String{Value: ""}, bytecode.Code{bytecode.List{}}},
		{&ast.String{Value: "ab"}, bytecode.Code{bytecode.ListOf(bytecode.Char('a'), bytecode.Char('b'))}},
		{&ast.String{Value: "λx"}, bytecode.Code{bytecode.ListOf(bytecode.Char('λ'), bytecode.Char('x'))}},
	}
	for _, tt := range tests {
		t.Run(tt.node.String(), func(t *testing.T) {
			code, err := Compile(tt.node)
			require.Nil(t, err)
			require.Equal(t, tt.want, code)
		})
	}
}

func TestNumericKindPreserved(t *testing.T) {
	code, err := Compile(&ast.UInt{Value: 3})
	require.Nil(t, err)
	require.Len(t, code, 2)
	_, ok := code[1].(bytecode.UInt)
	require.True(t, ok)

	code, err = Compile(&ast.Float{Value: 3})
	require.Nil(t, err)
	_, ok = code[1].(bytecode.Float)
	require.True(t, ok)
}

func TestListLiteral(t *testing.T) {
	require.Equal(t, "(((LDC 1) (LDC 2)))", compiled(t, ast.NewList(num(1), num(2))))
	require.Equal(t, "(())", compiled(t, ast.NewList()))
	require.Equal(t, "(((LDC 1) ((LDC 2))))",
		compiled(t, ast.NewList(num(1), ast.NewList(num(2)))))
	require.Equal(t, "(((LD (0u 0u)) (ADD)))",
		compiled(t, ast.NewList(name("x"), name("+")), WithGlobalNames("x")))
	require.Equal(t, "(((('a' 'b')) (LDC 1)))",
		compiled(t, ast.NewList(&ast.String{Value: "ab"}, num(1))))
}

func TestListLiteralElementBoundaries(t *testing.T) {
	// (1 2) and ((1 2)) used to flatten to the same cells.
	flat := compiled(t, ast.NewList(num(1), num(2)))
	nested := compiled(t, ast.NewList(ast.NewList(num(1), num(2))))
	require.NotEqual(t, flat, nested)

	code, err := Compile(ast.NewList(num(1), sexpr("+", num(2), num(3)), ast.NewList()))
	require.Nil(t, err)
	require.Len(t, code, 1)
	elements, ok := code[0].(bytecode.List)
	require.True(t, ok)
	require.Len(t, elements, 3)
	require.Equal(t, bytecode.ListOf(bytecode.Instr(op.LoadConst), bytecode.SInt(1)), elements[0])
	require.Equal(t, "(LDC 3 LDC 2 ADD)", elements[1].String())
	require.Equal(t, bytecode.ListOf(bytecode.ListOf()), elements[2])
}

func TestIf(t *testing.T) {
	node := sexpr("if", &ast.Bool{Value: true}, num(1), num(2))
	code, err := Compile(node)
	require.Nil(t, err)
	require.Equal(t, bytecode.Code{
		bytecode.Instr(op.LoadConst), bytecode.SInt(1),
		bytecode.Instr(op.Select),
		bytecode.ListOf(bytecode.Instr(op.LoadConst), bytecode.SInt(1), bytecode.Instr(op.Join)),
		bytecode.ListOf(bytecode.Instr(op.LoadConst), bytecode.SInt(2), bytecode.Instr(op.Join)),
	}, code)
	require.Equal(t, "(LDC 1 SEL (LDC 1 JOIN) (LDC 2 JOIN))", code.String())
}

func TestIfArity(t *testing.T) {
	tests := []*ast.SExpr{
		sexpr("if", name("a"), name("b")),
		sexpr("if", name("a"), name("b"), name("c"), name("d")),
		sexpr("if"),
	}
	for _, node := range tests {
		t.Run(node.String(), func(t *testing.T) {
			code, err := Compile(node)
			require.Nil(t, code)
			require.Error(t, err)
			require.ErrorIs(t, err, errors.ErrMalformed)
			var compileErr *errors.CompileError
			require.True(t, errors.As(err, &compileErr))
			require.Equal(t, errors.E2011, compileErr.Code)
			require.Equal(t, node.String(), compileErr.Form)
		})
	}
}

func TestIfBranchesShareScope(t *testing.T) {
	// (lambda (f x) (if x x 0))
	node := sexpr("lambda", sexpr("f", name("x")),
		sexpr("if", name("x"), name("x"), num(0)))
	require.Equal(t,
		"(LDF (LD (0u 1u) SEL (LD (0u 1u) JOIN) (LDC 0 JOIN) RET))",
		compiled(t, node))
}

func TestUnboundIdentifier(t *testing.T) {
	code, err := Compile(name("x"))
	require.Nil(t, code)
	require.ErrorIs(t, err, errors.ErrUnbound)
	require.Equal(t, "compile error: unbound identifier `x`", err.Error())

	var compileErr *errors.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, errors.E2001, compileErr.Code)
	require.Equal(t, "x", compileErr.Form)
}

func TestUnboundOperator(t *testing.T) {
	_, err := Compile(sexpr("frobnicate", num(1)))
	require.ErrorIs(t, err, errors.ErrUnbound)
	require.Contains(t, err.Error(), "`frobnicate`")
}

func TestUnboundSuggestions(t *testing.T) {
	_, err := Compile(name("acumulator"), WithGlobalNames("accumulator"))
	var compileErr *errors.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, "Did you mean 'accumulator'?", compileErr.Hint())

	_, err = Compile(name("car?"))
	require.True(t, errors.As(err, &compileErr))
	require.NotEmpty(t, compileErr.Suggestions)
	require.Equal(t, "car", compileErr.Suggestions[0].Value)
}

func TestPrimitiveNames(t *testing.T) {
	tests := []struct {
		name string
		want op.Code
	}{
		{"cons", op.Cons},
		{"car", op.Car},
		{"cdr", op.Cdr},
		{"nil", op.Nil},
		{"nil?", op.Null},
		{"atom?", op.Atom},
		{"+", op.Add},
		{"-", op.Sub},
		{"*", op.Mul},
		{"/", op.Div},
		{"%", op.Mod},
		{"=", op.Eq},
		{">", op.Gt},
		{">=", op.Gte},
		{"<", op.Lt},
		{"<=", op.Lte},
	}
	require.Len(t, PrimitiveNames(), len(tests))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, IsPrimitive(tt.name))
			code, err := Compile(name(tt.name))
			require.Nil(t, err)
			require.Equal(t, bytecode.Code{bytecode.Instr(tt.want)}, code)
		})
	}
	require.False(t, IsPrimitive("lambda"))
}

func TestPrimitivesCannotBeShadowed(t *testing.T) {
	require.Equal(t, "(ADD)", compiled(t, name("+"), WithGlobalNames("+")))
	// (lambda (f car) (car car))
	node := sexpr("lambda", sexpr("f", name("car")), sexpr("car", name("car")))
	require.Equal(t, "(LDF (CAR CAR RET))", compiled(t, node))
}

func TestPrimitiveApplication(t *testing.T) {
	globals := WithGlobalNames("a", "b", "c")
	tests := []struct {
		node *ast.SExpr
		want string
	}{
		{sexpr("nil"), "(NIL)"},
		{sexpr("car", name("a")), "(LD (0u 0u) CAR)"},
		{sexpr("+", num(1), num(2)), "(LDC 2 LDC 1 ADD)"},
		{sexpr("-", num(10), num(3)), "(LDC 3 LDC 10 SUB)"},
		{sexpr("cons", num(1), ast.NewList()), "(() LDC 1 CONS)"},
		{sexpr("+", name("a"), name("b"), name("c")),
			"(LD (0u 2u) LD (0u 1u) ADD LD (0u 0u) ADD)"},
		{sexpr("*", num(1), sexpr("+", num(2), num(3))),
			"(LDC 3 LDC 2 ADD LDC 1 MUL)"},
		{sexpr("<=", name("a"), num(0)), "(LDC 0 LD (0u 0u) LTE)"},
	}
	for _, tt := range tests {
		t.Run(tt.node.String(), func(t *testing.T) {
			require.Equal(t, tt.want, compiled(t, tt.node, globals))
		})
	}
}

func TestReverseFoldOrder(t *testing.T) {
	code, err := Compile(sexpr("+", name("a"), name("b"), name("c")),
		WithGlobalNames("a", "b", "c"))
	require.Nil(t, err)
	require.Equal(t, []op.Code{op.Load, op.Load, op.Add, op.Load, op.Add}, code.Instructions())
	require.Equal(t, bytecode.ListOf(bytecode.UInt(0), bytecode.UInt(2)), code[1])
	require.Equal(t, bytecode.ListOf(bytecode.UInt(0), bytecode.UInt(1)), code[3])
	require.Equal(t, bytecode.ListOf(bytecode.UInt(0), bytecode.UInt(0)), code[6])
}

func TestLambda(t *testing.T) {
	tests := []struct {
		desc string
		node *ast.SExpr
		want string
	}{
		{
			"parameter slots",
			sexpr("lambda", sexpr("f", name("x")), sexpr("+", name("x"), num(1))),
			"(LDF (LDC 1 LD (0u 1u) ADD RET))",
		},
		{
			"constant body",
			sexpr("lambda", sexpr("f"), num(7)),
			"(LDF (LDC 7 RET))",
		},
		{
			"outer frame",
			sexpr("lambda", sexpr("f", name("x")),
				sexpr("lambda", sexpr("g", name("y")), sexpr("+", name("x"), name("y")))),
			"(LDF (LDF (LD (0u 1u) LD (1u 1u) ADD RET) RET))",
		},
		{
			"recursion through the operator name",
			sexpr("lambda", sexpr("fact", name("n")),
				sexpr("if", sexpr("=", name("n"), num(0)),
					num(1),
					sexpr("*", name("n"), sexpr("fact", sexpr("-", name("n"), num(1)))))),
			"(LDF (LDC 0 LD (0u 1u) EQ SEL (LDC 1 JOIN) " +
				"(NIL LDC 1 LD (0u 1u) SUB CONS LD (0u 0u) AP LD (0u 1u) MUL JOIN) RET))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			require.Equal(t, tt.want, compiled(t, tt.node))
		})
	}
}

func TestLambdaDoesNotLeakBindings(t *testing.T) {
	c := New()
	node := ast.NewRoot(
		sexpr("lambda", sexpr("f", name("x")), name("x")),
		name("x"),
	)
	_, err := c.Compile(node)
	require.ErrorIs(t, err, errors.ErrUnbound)
	require.Equal(t, 0, c.SymbolTable().Count())
}

func TestMalformedLambda(t *testing.T) {
	tests := []*ast.SExpr{
		sexpr("lambda", sexpr("f", name("x"))),
		sexpr("lambda", sexpr("f"), num(1), num(2)),
		sexpr("lambda", name("x"), name("x")),
		sexpr("lambda", sexpr("f", num(1)), num(1)),
		sexpr("lambda", ast.NewList(name("x")), name("x")),
	}
	for _, node := range tests {
		t.Run(node.String(), func(t *testing.T) {
			code, err := Compile(node)
			require.Nil(t, code)
			require.ErrorIs(t, err, errors.ErrMalformed)
			var compileErr *errors.CompileError
			require.True(t, errors.As(err, &compileErr))
			require.Equal(t, errors.E2012, compileErr.Code)
		})
	}
}

func TestClosureCall(t *testing.T) {
	globals := WithGlobalNames("f")
	require.Equal(t, "(NIL LD (0u 0u) AP)", compiled(t, sexpr("f"), globals))
	require.Equal(t, "(NIL LDC 1 CONS LD (0u 0u) AP)", compiled(t, sexpr("f", num(1)), globals))
	require.Equal(t, "(NIL LDC 2 CONS LDC 1 CONS LD (0u 0u) AP)",
		compiled(t, sexpr("f", num(1), num(2)), globals))
}

func TestLet(t *testing.T) {
	node := sexpr("let",
		sexpr("x", num(1)),
		sexpr("y", num(2)),
		sexpr("+", name("x"), name("y")))
	require.Equal(t,
		"(NIL LDC 2 CONS LDC 1 CONS LDF (LD (0u 1u) LD (0u 0u) ADD RET) AP)",
		compiled(t, node))

	// Bindings are not visible to the values.
	_, err := Compile(sexpr("let", sexpr("x", name("x")), name("x")))
	require.ErrorIs(t, err, errors.ErrUnbound)

	// Values are compiled in the enclosing scope.
	require.Equal(t,
		"(NIL LD (0u 0u) CONS LDF (LD (0u 0u) LD (1u 0u) ADD RET) AP)",
		compiled(t, sexpr("let", sexpr("y", name("z")), sexpr("+", name("z"), name("y"))),
			WithGlobalNames("z")))

	require.Equal(t, "(NIL LDF (LDC 5 RET) AP)", compiled(t, sexpr("let", num(5))))
}

func TestLetrec(t *testing.T) {
	// (letrec (loop (lambda (self n) (loop n))) (loop 1))
	node := sexpr("letrec",
		sexpr("loop", sexpr("lambda", sexpr("self", name("n")), sexpr("loop", name("n")))),
		sexpr("loop", num(1)))
	code, err := Compile(node)
	require.Nil(t, err)
	require.NoError(t, code.Validate())
	require.Equal(t,
		"(DUM NIL LDF (NIL LD (0u 1u) CONS LD (1u 0u) AP RET) CONS "+
			"LDF (NIL LDC 1 CONS LD (0u 0u) AP RET) RAP)",
		code.String())
	require.Equal(t, []op.Code{op.Dummy, op.Nil, op.LoadFunc, op.Cons, op.LoadFunc, op.RecApply},
		code.Instructions())
}

func TestMalformedLet(t *testing.T) {
	tests := []*ast.SExpr{
		sexpr("let"),
		sexpr("letrec"),
		sexpr("let", num(1), name("x")),
		sexpr("let", sexpr("x"), name("x")),
		sexpr("let", sexpr("x", num(1), num(2)), name("x")),
	}
	for _, node := range tests {
		t.Run(node.String(), func(t *testing.T) {
			_, err := Compile(node)
			require.ErrorIs(t, err, errors.ErrMalformed)
			var compileErr *errors.CompileError
			require.True(t, errors.As(err, &compileErr))
			require.Equal(t, errors.E2013, compileErr.Code)
		})
	}
}

func TestAndOr(t *testing.T) {
	tests := []struct {
		node *ast.SExpr
		want string
	}{
		{sexpr("and"), "(LDC 1)"},
		{sexpr("or"), "(NIL)"},
		{sexpr("and", num(5)), "(LDC 5)"},
		{sexpr("or", num(5)), "(LDC 5)"},
		{sexpr("and", num(1), num(2)), "(LDC 1 SEL (LDC 2 JOIN) (NIL JOIN))"},
		{sexpr("or", num(1), num(2)), "(LDC 1 SEL (LDC 1 JOIN) (LDC 2 JOIN))"},
		{sexpr("and", num(1), num(2), num(3)),
			"(LDC 1 SEL (LDC 2 SEL (LDC 3 JOIN) (NIL JOIN) JOIN) (NIL JOIN))"},
		{sexpr("or", num(1), num(2), num(3)),
			"(LDC 1 SEL (LDC 1 JOIN) (LDC 2 SEL (LDC 1 JOIN) (LDC 3 JOIN) JOIN))"},
	}
	for _, tt := range tests {
		t.Run(tt.node.String(), func(t *testing.T) {
			require.Equal(t, tt.want, compiled(t, tt.node))
		})
	}
}

func TestUnimplementedKeywords(t *testing.T) {
	for _, keyword := range []string{"quote", "define", "cond", "begin", "set!", "let*", "do"} {
		t.Run(keyword, func(t *testing.T) {
			code, err := Compile(sexpr(keyword, name("x")))
			require.Nil(t, code)
			require.ErrorIs(t, err, errors.ErrUnimplemented)
			var compileErr *errors.CompileError
			require.True(t, errors.As(err, &compileErr))
			require.Equal(t, errors.E2099, compileErr.Code)
		})
	}
}

func TestMissingOperator(t *testing.T) {
	_, err := Compile(&ast.SExpr{Operands: []ast.Expr{num(1)}})
	var compileErr *errors.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, errors.E2015, compileErr.Code)
	require.ErrorIs(t, err, errors.ErrMalformed)
}

type unknownNode struct{}

func (unknownNode) String() string         { return "?" }
func (unknownNode) PrintLevel(int) string { return "?" }

func TestUnsupportedNode(t *testing.T) {
	_, err := Compile(unknownNode{})
	require.ErrorIs(t, err, errors.ErrUnimplemented)

	_, err = Compile(nil)
	require.ErrorIs(t, err, errors.ErrUnimplemented)
}

func TestRoot(t *testing.T) {
	require.Equal(t, "()", compiled(t, ast.NewRoot()))
	require.Equal(t, "(LDC 1 LDC 2)", compiled(t, ast.NewRoot(num(1), num(2))))
	require.Equal(t, "(LD (0u 0u) LDC 1)",
		compiled(t, ast.NewRoot(name("x"), num(1)), WithGlobalNames("x")))
}

func TestErrorsShortCircuit(t *testing.T) {
	node := ast.NewRoot(
		num(1),
		sexpr("if", sexpr("+", num(1), name("missing")), num(1), num(2)),
	)
	code, err := Compile(node)
	require.Nil(t, code)
	require.ErrorIs(t, err, errors.ErrUnbound)
	require.Contains(t, err.Error(), "missing")
}

func TestMaxDepth(t *testing.T) {
	var node ast.Expr = num(1)
	for i := 0; i < 10; i++ {
		node = sexpr("+", node)
	}
	_, err := Compile(node, WithMaxDepth(5))
	var compileErr *errors.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, errors.E2014, compileErr.Code)

	_, err = Compile(node, WithMaxDepth(20))
	require.Nil(t, err)
}

func TestMaxDepthCountsNestingNotOperands(t *testing.T) {
	operands := make([]ast.Expr, 20)
	for i := range operands {
		operands[i] = &ast.Bool{Value: true}
	}
	for _, keyword := range []string{"and", "or", "+"} {
		t.Run(keyword, func(t *testing.T) {
			_, err := Compile(sexpr(keyword, operands...), WithMaxDepth(5))
			require.Nil(t, err)
		})
	}

	// Nesting inside an operand still counts.
	var nested ast.Expr = num(1)
	for i := 0; i < 10; i++ {
		nested = sexpr("and", &ast.Bool{Value: true}, nested)
	}
	_, err := Compile(nested, WithMaxDepth(5))
	var compileErr *errors.CompileError
	require.True(t, errors.As(err, &compileErr))
	require.Equal(t, errors.E2014, compileErr.Code)
}

func TestWithSymbolTable(t *testing.T) {
	table := NewSymbolTable()
	table.Bind("a")
	table.Bind("b")
	c := New(WithSymbolTable(table), WithGlobalNames("c"))
	require.Same(t, table, c.SymbolTable())

	code, err := c.Compile(name("c"))
	require.Nil(t, err)
	require.Equal(t, "(LD (0u 2u))", code.String())

	inner := table.Fork()
	inner.Bind("d")
	code, err = c.CompileIn(name("b"), inner)
	require.Nil(t, err)
	require.Equal(t, "(LD (1u 1u))", code.String())
}

func TestCompilerReuse(t *testing.T) {
	c := New(WithGlobalNames("f"))
	node := sexpr("let", sexpr("x", num(1)), sexpr("f", name("x")))
	first, err := c.Compile(node)
	require.Nil(t, err)
	second, err := c.Compile(node)
	require.Nil(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, c.SymbolTable().Count())
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err := Compile(num(1), WithLogger(logger))
	require.Nil(t, err)
	assert.Contains(t, buf.String(), `"message":"compiled"`)

	buf.Reset()
	_, err = Compile(name("nope"), WithLogger(logger))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "compilation failed")
	assert.Contains(t, buf.String(), "nope")
}
