// Package compiler compiles a Seax abstract syntax tree (AST) into code lists
// for the SECD virtual machine.
//
// # Code Lists
//
// Each node compiles to a flat sequence of cells. Constants load with LDC,
// primitives such as + and car map to a single instruction, and names bound
// by an enclosing lambda load with LD followed by a (frame slot) address.
// Conditionals and function bodies are not laid out inline: SEL and LDF take
// nested code lists as operands, terminated by JOIN and RET respectively.
//
//	(if #t 1 2)  =>  (LDC 1 SEL (LDC 1 JOIN) (LDC 2 JOIN))
//
// # Scopes
//
// Names are resolved through a SymbolTable. A lambda forks the enclosing
// table and binds its parameters in the fork, which becomes frame 0 of the
// body; the enclosing frames are then one frame further away. Forking never
// modifies the enclosing table, so sibling subtrees compile independently.
//
// # Applications
//
// An application of a primitive is compiled as a right-to-left fold over
// its operands: (op a b c) compiles c, then b, then op, then a, then op
// again. An application of a bound name is a closure call: the operands are
// consed onto NIL from last to first, the closure is loaded and AP applies
// it.
package compiler

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/seax-io/seax/ast"
	"github.com/seax-io/seax/bytecode"
	"github.com/seax-io/seax/errors"
	"github.com/seax-io/seax/op"
)

// primitives maps the names of built-in operations to their instructions.
var primitives = map[string]op.Code{
	"cons":  op.Cons,
	"car":   op.Car,
	"cdr":   op.Cdr,
	"nil":   op.Nil,
	"nil?":  op.Null,
	"atom?": op.Atom,
	"+":     op.Add,
	"-":     op.Sub,
	"*":     op.Mul,
	"/":     op.Div,
	"%":     op.Mod,
	"=":     op.Eq,
	">":     op.Gt,
	">=":    op.Gte,
	"<":     op.Lt,
	"<=":    op.Lte,
}

// reserved lists Scheme keywords that have no compilation rule yet. Using
// one in operator position is an unimplemented-construct error rather than
// an unbound identifier.
var reserved = map[string]bool{
	"access": true, "begin": true, "bkpt": true, "case": true, "cond": true,
	"cons-stream": true, "declare": true, "default-object?": true,
	"define": true, "define-integrable": true, "define-macro": true,
	"define-structure": true, "define-syntax": true, "delay": true, "do": true,
	"fluid-let": true, "in-package": true, "let*": true, "let-syntax": true,
	"local-declare": true, "macro": true, "make-environment": true,
	"named-lambda": true, "quasiquote": true, "quote": true,
	"scode-quote": true, "sequence": true, "set!": true,
	"the-environment": true, "unassigned?": true, "using-syntax": true,
}

// IsPrimitive returns true if name is a built-in operation.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// PrimitiveNames returns the names of all built-in operations.
func PrimitiveNames() []string {
	names := make([]string, 0, len(primitives))
	for name := range primitives {
		names = append(names, name)
	}
	return names
}

// Compiler compiles AST nodes into code lists. It holds only configuration,
// so a single Compiler may be used from multiple goroutines.
type Compiler struct {
	logger      zerolog.Logger
	symbols     *SymbolTable
	globalNames []string
	maxDepth    int
}

// New creates and returns a new Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		logger:   zerolog.Nop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.symbols == nil {
		c.symbols = NewSymbolTable()
	}
	for _, name := range c.globalNames {
		c.symbols.Bind(name)
	}
	return c
}

// Compile compiles the given node against a fresh root symbol table,
// configured by the given options.
func Compile(node ast.Node, opts ...Option) (bytecode.Code, error) {
	return New(opts...).Compile(node)
}

// SymbolTable returns the table that Compile resolves names against.
func (c *Compiler) SymbolTable() *SymbolTable {
	return c.symbols
}

// Compile compiles the given node against the compiler's symbol table.
func (c *Compiler) Compile(node ast.Node) (bytecode.Code, error) {
	return c.CompileIn(node, c.symbols)
}

// CompileIn compiles the given node against the given symbol table. On
// failure no code is returned.
func (c *Compiler) CompileIn(node ast.Node, scope *SymbolTable) (bytecode.Code, error) {
	if node == nil {
		return nil, errors.NotImplemented("compiling a nil node", "")
	}
	if scope == nil {
		scope = NewSymbolTable()
	}
	code, err := c.compile(node, scope, 0)
	if err != nil {
		c.logger.Debug().Err(err).Str("node", node.String()).Msg("compilation failed")
		return nil, err
	}
	c.logger.Debug().Int("cells", len(code)).Msg("compiled")
	return code, nil
}

// compile the given node and all its children.
func (c *Compiler) compile(node ast.Node, scope *SymbolTable, depth int) (bytecode.Code, error) {
	if depth > c.maxDepth {
		return nil, errors.TooDeep(c.maxDepth, node.String())
	}
	switch node := node.(type) {
	case *ast.Root:
		return c.compileRoot(node, scope, depth)
	case *ast.SExpr:
		return c.compileSExpr(node, scope, depth)
	case *ast.Name:
		return c.compileName(node, scope)
	case *ast.List:
		return c.compileList(node, scope, depth)
	case *ast.Int:
		return bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.SInt(node.Value)}, nil
	case *ast.UInt:
		return bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.UInt(node.Value)}, nil
	case *ast.Float:
		return bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.Float(node.Value)}, nil
	case *ast.Bool:
		return c.compileBool(node), nil
	case *ast.Char:
		return bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.Char(node.Value)}, nil
	case *ast.String:
		return c.compileString(node), nil
	default:
		return nil, errors.NotImplemented(fmt.Sprintf("node type %T", node), node.String())
	}
}

// compileRoot concatenates the code of each top-level expression. All
// top-level expressions share the outermost frame.
func (c *Compiler) compileRoot(node *ast.Root, scope *SymbolTable, depth int) (bytecode.Code, error) {
	code := bytecode.Code{}
	for _, expr := range node.Exprs {
		exprCode, err := c.compile(expr, scope, depth+1)
		if err != nil {
			return nil, err
		}
		code.Extend(exprCode)
	}
	return code, nil
}

// compileBool lowers #t to the integer 1 and #f to the empty list, following
// Lisp truthiness.
func (c *Compiler) compileBool(node *ast.Bool) bytecode.Code {
	if node.Value {
		return bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.SInt(1)}
	}
	return bytecode.Code{bytecode.Instr(op.Nil)}
}

// compileString lowers a string to a literal list of its characters.
func (c *Compiler) compileString(node *ast.String) bytecode.Code {
	chars := make([]bytecode.Cell, 0, len(node.Value))
	for _, r := range node.Value {
		chars = append(chars, bytecode.Char(r))
	}
	return bytecode.Code{bytecode.ListOf(chars...)}
}

// compileList packages a list literal into a single list cell holding one
// sub-list per element, so element boundaries survive in the output.
func (c *Compiler) compileList(node *ast.List, scope *SymbolTable, depth int) (bytecode.Code, error) {
	elements := make(bytecode.Code, 0, len(node.Elements))
	for _, el := range node.Elements {
		code, err := c.compile(el, scope, depth+1)
		if err != nil {
			return nil, err
		}
		elements.Append(bytecode.ListOf(code...))
	}
	return bytecode.Code{bytecode.ListOf(elements...)}, nil
}

func (c *Compiler) compileName(node *ast.Name, scope *SymbolTable) (bytecode.Code, error) {
	if code, ok := primitives[node.Name]; ok {
		return bytecode.Code{bytecode.Instr(code)}, nil
	}
	addr, ok := scope.Lookup(node.Name)
	if !ok {
		candidates := append(scope.Names(), PrimitiveNames()...)
		return nil, errors.Unbound(node.Name, candidates)
	}
	return loadAddress(addr), nil
}

func loadAddress(addr Address) bytecode.Code {
	return bytecode.Code{
		bytecode.Instr(op.Load),
		bytecode.ListOf(bytecode.UInt(addr.Frame), bytecode.UInt(addr.Slot)),
	}
}

func (c *Compiler) compileSExpr(node *ast.SExpr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	keyword := node.Keyword()
	if keyword == "" {
		return nil, &errors.CompileError{
			Code:    errors.E2015,
			Message: "malformed application: missing operator",
			Form:    node.String(),
		}
	}
	switch keyword {
	case "if":
		return c.compileIf(node, scope, depth)
	case "lambda":
		return c.compileLambda(node, scope, depth)
	case "let":
		return c.compileLet(node, scope, depth, false)
	case "letrec":
		return c.compileLet(node, scope, depth, true)
	case "and", "or":
		return c.compileLogical(keyword, node.Operands, scope, depth)
	}
	if reserved[keyword] {
		return nil, errors.NotImplemented(fmt.Sprintf("special form `%s`", keyword), node.String())
	}
	if code, ok := primitives[keyword]; ok {
		return c.compilePrimitive(code, node.Operands, scope, depth)
	}
	addr, ok := scope.Lookup(keyword)
	if !ok {
		candidates := append(scope.Names(), PrimitiveNames()...)
		return nil, errors.Unbound(keyword, candidates)
	}
	return c.compileCall(addr, node.Operands, scope, depth)
}

// compilePrimitive folds a primitive over its operands from right to left.
func (c *Compiler) compilePrimitive(inst op.Code, operands []ast.Expr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	code := bytecode.Code{}
	if len(operands) == 0 {
		code.Append(bytecode.Instr(inst))
		return code, nil
	}
	last, err := c.compile(operands[len(operands)-1], scope, depth+1)
	if err != nil {
		return nil, err
	}
	code.Extend(last)
	if len(operands) == 1 {
		code.Append(bytecode.Instr(inst))
		return code, nil
	}
	for i := len(operands) - 2; i >= 0; i-- {
		operand, err := c.compile(operands[i], scope, depth+1)
		if err != nil {
			return nil, err
		}
		code.Extend(operand)
		code.Append(bytecode.Instr(inst))
	}
	return code, nil
}

// compileArgs builds the argument list for a closure call: the operands are
// consed onto NIL from last to first, leaving the first operand at the head.
func (c *Compiler) compileArgs(operands []ast.Expr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	code := bytecode.Code{bytecode.Instr(op.Nil)}
	for i := len(operands) - 1; i >= 0; i-- {
		operand, err := c.compile(operands[i], scope, depth+1)
		if err != nil {
			return nil, err
		}
		code.Extend(operand)
		code.Append(bytecode.Instr(op.Cons))
	}
	return code, nil
}

func (c *Compiler) compileCall(addr Address, operands []ast.Expr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	code, err := c.compileArgs(operands, scope, depth)
	if err != nil {
		return nil, err
	}
	code.Extend(loadAddress(addr))
	code.Append(bytecode.Instr(op.Apply))
	return code, nil
}

// compileIf emits the condition followed by SEL, whose two operands are the
// consequent and alternative code blocks, each terminated with JOIN.
func (c *Compiler) compileIf(node *ast.SExpr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	if len(node.Operands) != 3 {
		return nil, errors.Malformedf(errors.E2011, "if", node.String(),
			"expected 3 operands, got %d", len(node.Operands))
	}
	c.logger.Trace().Int("depth", depth).Msg("compiling if")
	cond, err := c.compile(node.Operands[0], scope, depth+1)
	if err != nil {
		return nil, err
	}
	consequent, err := c.compileBlock(node.Operands[1], scope, depth, op.Join)
	if err != nil {
		return nil, err
	}
	alternative, err := c.compileBlock(node.Operands[2], scope, depth, op.Join)
	if err != nil {
		return nil, err
	}
	return branch(cond, consequent, alternative), nil
}

func branch(cond bytecode.Code, consequent, alternative bytecode.List) bytecode.Code {
	code := bytecode.Code{}
	code.Extend(cond)
	code.Append(bytecode.Instr(op.Select), consequent, alternative)
	return code
}

// compileBlock compiles node into a nested code list ending with the given
// terminator instruction.
func (c *Compiler) compileBlock(node ast.Expr, scope *SymbolTable, depth int, terminator op.Code) (bytecode.List, error) {
	code, err := c.compile(node, scope, depth+1)
	if err != nil {
		return nil, err
	}
	code.Append(bytecode.Instr(terminator))
	return bytecode.ListOf(code...), nil
}

// lambdaParams returns the parameter names of a lambda. Parameters are
// written as an S-expression of names, (f x y), whose operator is the first
// parameter.
func lambdaParams(node *ast.SExpr, form ast.Expr) ([]string, error) {
	params, ok := form.(*ast.SExpr)
	if !ok || params.Operator == nil {
		return nil, errors.Malformedf(errors.E2012, "lambda", node.String(),
			"expected a parameter list, got %s", form)
	}
	names := []string{params.Operator.Name}
	for _, p := range params.Operands {
		name, ok := p.(*ast.Name)
		if !ok {
			return nil, errors.Malformedf(errors.E2012, "lambda", node.String(),
				"parameter %s is not a name", p)
		}
		names = append(names, name.Name)
	}
	return names, nil
}

// compileLambda emits LDF with the body code block. The body is compiled in
// a fork of the enclosing scope in which the parameters occupy slots 0..n-1.
func (c *Compiler) compileLambda(node *ast.SExpr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	if len(node.Operands) != 2 {
		return nil, errors.Malformedf(errors.E2012, "lambda", node.String(),
			"expected 2 operands, got %d", len(node.Operands))
	}
	params, err := lambdaParams(node, node.Operands[0])
	if err != nil {
		return nil, err
	}
	inner := scope.Fork()
	for _, name := range params {
		inner.Bind(name)
	}
	c.logger.Trace().Strs("params", params).Int("depth", depth).Msg("compiling lambda")
	body, err := c.compileBlock(node.Operands[1], inner, depth, op.Return)
	if err != nil {
		return nil, err
	}
	return bytecode.Code{bytecode.Instr(op.LoadFunc), body}, nil
}

type binding struct {
	name string
	init ast.Expr
}

// letBindings splits a let form into its bindings and body. The form is
// (let (x e1) (y e2) ... body): every operand but the last is a binding.
func letBindings(keyword string, node *ast.SExpr) ([]binding, ast.Expr, error) {
	if len(node.Operands) == 0 {
		return nil, nil, errors.Malformed(errors.E2013, keyword, node.String(), "missing body")
	}
	n := len(node.Operands) - 1
	bindings := make([]binding, 0, n)
	for _, operand := range node.Operands[:n] {
		b, ok := operand.(*ast.SExpr)
		if !ok || b.Operator == nil || len(b.Operands) != 1 {
			return nil, nil, errors.Malformedf(errors.E2013, keyword, node.String(),
				"binding %s must have the form (name value)", operand)
		}
		bindings = append(bindings, binding{name: b.Operator.Name, init: b.Operands[0]})
	}
	return bindings, node.Operands[n], nil
}

// compileLet compiles let as the application of a lambda to the binding
// values. For letrec, DUM installs a placeholder frame so that the values
// are compiled with the bound names in scope, and RAP replaces the
// placeholder with the evaluated values.
func (c *Compiler) compileLet(node *ast.SExpr, scope *SymbolTable, depth int, recursive bool) (bytecode.Code, error) {
	keyword := node.Keyword()
	bindings, body, err := letBindings(keyword, node)
	if err != nil {
		return nil, err
	}
	inner := scope.Fork()
	inits := make([]ast.Expr, len(bindings))
	for i, b := range bindings {
		inner.Bind(b.name)
		inits[i] = b.init
	}
	c.logger.Trace().Str("form", keyword).Int("bindings", len(bindings)).Msg("compiling let")

	code := bytecode.Code{}
	initScope, apply := scope, op.Apply
	if recursive {
		code.Append(bytecode.Instr(op.Dummy))
		initScope, apply = inner, op.RecApply
	}
	args, err := c.compileArgs(inits, initScope, depth)
	if err != nil {
		return nil, err
	}
	code.Extend(args)
	block, err := c.compileBlock(body, inner, depth, op.Return)
	if err != nil {
		return nil, err
	}
	code.Append(bytecode.Instr(op.LoadFunc), block, bytecode.Instr(apply))
	return code, nil
}

// compileLogical compiles and/or as nested conditionals that short-circuit
// on the first false (and) or true (or) operand. An or that succeeds yields
// the canonical true value 1, not the value of the operand.
func (c *Compiler) compileLogical(keyword string, operands []ast.Expr, scope *SymbolTable, depth int) (bytecode.Code, error) {
	truth := bytecode.Code{bytecode.Instr(op.LoadConst), bytecode.SInt(1)}
	falsity := bytecode.Code{bytecode.Instr(op.Nil)}
	switch len(operands) {
	case 0:
		if keyword == "and" {
			return truth, nil
		}
		return falsity, nil
	case 1:
		return c.compile(operands[0], scope, depth+1)
	}
	cond, err := c.compile(operands[0], scope, depth+1)
	if err != nil {
		return nil, err
	}
	// The remaining operands are siblings of the first, not children of it.
	rest, err := c.compileLogical(keyword, operands[1:], scope, depth)
	if err != nil {
		return nil, err
	}
	rest.Append(bytecode.Instr(op.Join))
	var short bytecode.Code
	if keyword == "and" {
		short = append(falsity, bytecode.Instr(op.Join))
		return branch(cond, bytecode.ListOf(rest...), bytecode.ListOf(short...)), nil
	}
	short = append(truth, bytecode.Instr(op.Join))
	return branch(cond, bytecode.ListOf(short...), bytecode.ListOf(rest...)), nil
}
