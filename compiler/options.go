package compiler

import "github.com/rs/zerolog"

// DefaultMaxDepth is the default limit on expression nesting.
const DefaultMaxDepth = 10000

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for compilation diagnostics. By default
// nothing is logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithSymbolTable sets the table that Compile resolves top-level names
// against. This is used when the machine's initial environment already
// holds values, or when fragments are compiled incrementally.
func WithSymbolTable(table *SymbolTable) Option {
	return func(c *Compiler) {
		c.symbols = table
	}
}

// WithGlobalNames binds the given names, in order, into the outermost frame
// of the compiler's symbol table. This option is additive.
func WithGlobalNames(names ...string) Option {
	return func(c *Compiler) {
		c.globalNames = append(c.globalNames, names...)
	}
}

// WithMaxDepth limits how deeply expressions may be nested. Trees nested
// deeper than the limit fail to compile instead of exhausting the stack.
// Only nesting counts: a form with many operands is as deep as its deepest
// operand.
func WithMaxDepth(depth int) Option {
	return func(c *Compiler) {
		c.maxDepth = depth
	}
}
