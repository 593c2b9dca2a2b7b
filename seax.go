// Package seax compiles Scheme syntax trees into code lists for the SECD
// virtual machine.
//
// Trees are usually produced by an external parser and exchanged as JSON:
//
//	program, err := seax.CompileJSON(data, seax.WithFilename("fact.json"))
package seax

import (
	"github.com/rs/zerolog"
	"github.com/seax-io/seax/ast"
	"github.com/seax-io/seax/bytecode"
	"github.com/seax-io/seax/compiler"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	globals  []string
	filename string
	logger   *zerolog.Logger
	maxDepth int
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerOpts() []compiler.Option {
	var opts []compiler.Option
	if len(o.globals) > 0 {
		opts = append(opts, compiler.WithGlobalNames(o.globals...))
	}
	if o.logger != nil {
		opts = append(opts, compiler.WithLogger(*o.logger))
	}
	if o.maxDepth > 0 {
		opts = append(opts, compiler.WithMaxDepth(o.maxDepth))
	}
	return opts
}

// WithGlobals declares names that the machine's initial environment binds,
// in slot order. This option is additive.
func WithGlobals(names ...string) Option {
	return func(o *options) {
		o.globals = append(o.globals, names...)
	}
}

// WithFilename sets the name recorded as the source of the compiled program.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithLogger sets the logger used for compilation diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithMaxDepth limits how deeply expressions may be nested.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// Compile compiles a syntax tree into a code list.
func Compile(node ast.Node, opts ...Option) (bytecode.Code, error) {
	o := collectOptions(opts...)
	return compiler.Compile(node, o.compilerOpts()...)
}

// CompileProgram compiles a syntax tree and wraps the result in a Program.
func CompileProgram(node ast.Node, opts ...Option) (*bytecode.Program, error) {
	o := collectOptions(opts...)
	code, err := compiler.Compile(node, o.compilerOpts()...)
	if err != nil {
		return nil, err
	}
	return bytecode.NewProgram(o.filename, code)
}

// CompileJSON decodes a JSON encoded syntax tree and compiles it.
func CompileJSON(data []byte, opts ...Option) (*bytecode.Program, error) {
	node, err := ast.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return CompileProgram(node, opts...)
}
