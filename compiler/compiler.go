// Package compiler contains the core of cc64: it drives the lexer,
// parser and semantic checker, then walks the resulting AST to emit
// x86-64 assembly text for a chosen backend dialect.
//
// The three-step process is: (1) parse source into a typed AST,
// populating the symbol tables as declarations are seen, (2) run the
// semantic checker over the whole tree, and (3) walk the tree once,
// generating a chunk of assembly per node.
package compiler

import (
	"fmt"
	"strings"

	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/backend"
	"github.com/skx/cc64/checker"
	"github.com/skx/cc64/parser"
	"github.com/skx/cc64/symbol"
)

// Compiler holds our object-state.
type Compiler struct {
	// file is the name of the source file, used in diagnostics.
	file string

	// source holds the program text being compiled.
	source string

	// debug holds a flag to decide if debugging "stuff" is generated
	// in the output assembly.
	debug bool

	// strictVars, when set, promotes the parser's permissive
	// auto-declaration of unknown identifiers to a semantic error
	// instead of silently accepting it.
	strictVars bool

	// backend supplies the platform-specific symbol-naming and
	// section-directive conventions; every other emitted instruction
	// is identical between dialects.
	backend backend.Backend

	// vars/funcs are populated by the parser and then only read by
	// the generator.
	vars  *symbol.Table
	funcs *symbol.Table

	// labelNo is the per-compilation monotonic label counter.
	labelNo int

	// loopLabels is a stack of (continue-label, break-label) pairs,
	// one entry per lexically enclosing loop, so break/continue know
	// where to jump.
	loopLabels []loopLabel

	// strings accumulates string-literal definitions as they're seen
	// during generation, to be emitted once in the rodata section.
	strings []stringDef

	// curFunc is the function currently being generated, used to look
	// up local variable offsets.
	curFunc string
}

type loopLabel struct {
	continueLabel string
	breakLabel    string
}

type stringDef struct {
	label string
	value string
}

// New creates a new compiler for the given source, targeting be.
func New(file, source string, be backend.Backend) *Compiler {
	return &Compiler{file: file, source: source, backend: be}
}

// SetDebug changes the debug-flag for our output.
func (c *Compiler) SetDebug(val bool) {
	c.debug = val
}

// SetStrictVars changes whether undeclared-identifier use is promoted
// to a semantic error.
func (c *Compiler) SetStrictVars(val bool) {
	c.strictVars = val
}

// Compile converts the input program into x86-64 assembly text.
func (c *Compiler) Compile() (string, error) {
	p, err := parser.New(c.file, c.source, parser.Option{StrictVars: c.strictVars})
	if err != nil {
		return "", err
	}

	defs, err := p.Parse()
	if err != nil {
		return "", err
	}

	c.vars = p.Vars()
	c.funcs = p.Funcs()

	if errs := checker.Check(defs, c.funcs, checker.Option{StrictVars: c.strictVars}); len(errs) > 0 {
		return "", combineErrors(errs)
	}

	return c.generateProgram(defs)
}

func combineErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}

// generateProgram emits every function definition, then assembles the
// header (text-section boilerplate), the accumulated rodata (string
// literals) and the generated bodies into the final program text.
func (c *Compiler) generateProgram(defs []*ast.FuncDef) (string, error) {
	c.labelNo = 0
	c.strings = nil

	var body strings.Builder

	for _, fd := range defs {
		if err := c.generateFuncDef(&body, fd); err != nil {
			return "", err
		}
	}

	var out strings.Builder

	for _, fd := range defs {
		out.WriteString(c.backend.GlobalDirective(c.backend.Symbol(fd.Name)))
		out.WriteByte('\n')
	}

	if len(c.strings) > 0 {
		out.WriteString(c.backend.RodataSection())
		out.WriteByte('\n')
		for _, s := range c.strings {
			out.WriteString(fmt.Sprintf("%s:\n\t.asciz %q\n", s.label, s.value))
		}
	}

	out.WriteString(c.backend.TextSection())
	out.WriteByte('\n')
	out.WriteString(body.String())

	return out.String(), nil
}

// newLabel returns the next unique ".L{n}" label for this compilation.
func (c *Compiler) newLabel() string {
	l := fmt.Sprintf(".L%d", c.labelNo)
	c.labelNo++
	return l
}

// funcScope returns the symbol-table scope for the function currently
// being generated.
func (c *Compiler) funcScope() symbol.Scope {
	return symbol.FuncScope(c.curFunc)
}
