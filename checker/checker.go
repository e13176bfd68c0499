// Package checker implements the minimal semantic checker: it walks
// the AST produced by the parser and accumulates diagnostics about
// undeclared names, unknown types, and malformed control flow.
//
// The checker is the only accumulating stage in the pipeline: lexing
// and parsing fail fast on the first error, but a Check pass collects
// every problem it finds across all top-level definitions before
// reporting, so a caller sees the whole picture in one shot.
package checker

import (
	"fmt"

	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/symbol"
)

// Option configures supplemental checks beyond the base two from the
// core specification.
type Option struct {
	// StrictVars must match the parser.Option of the same name: when
	// set, an ast.Variable left with symbol.Unknown type by
	// the parser's permissive auto-declaration is reported here instead
	// of silently passing through.
	StrictVars bool
}

// Check walks every FuncDef and returns the accumulated list of
// errors. A nil/empty return means the program is well-formed enough
// for the generator to run.
func Check(defs []*ast.FuncDef, funcs *symbol.Table, opt Option) []error {
	var errs []error
	for _, fd := range defs {
		errs = append(errs, checkFuncDef(fd, funcs, opt)...)
	}
	return errs
}

func checkFuncDef(fd *ast.FuncDef, funcs *symbol.Table, opt Option) []error {
	var errs []error

	if fd.ReturnType == symbol.Unknown {
		errs = append(errs, fmt.Errorf("Cannot found Type: %s", fd.TypeName))
	}

	if _, ok := funcs.Search(symbol.GlobalScope, fd.Name); !ok {
		errs = append(errs, fmt.Errorf("Cannot found function name: %s", fd.Name))
	}

	errs = append(errs, checkBlock(fd.Body, opt, false)...)

	return errs
}

// checkBlock walks a statement list; inLoop tracks whether we are
// lexically nested inside a while/for, so break/continue can be
// validated.
func checkBlock(s *ast.Statement, opt Option, inLoop bool) []error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, item := range s.Items {
		errs = append(errs, checkNode(item, opt, inLoop)...)
	}
	return errs
}

func checkNode(n ast.Node, opt Option, inLoop bool) []error {
	if n == nil {
		return nil
	}

	var errs []error

	switch node := n.(type) {
	case *ast.If:
		errs = append(errs, checkNode(node.Cond, opt, inLoop)...)
		errs = append(errs, checkBlock(node.Then, opt, inLoop)...)
		errs = append(errs, checkBlock(node.Else, opt, inLoop)...)

	case *ast.While:
		errs = append(errs, checkNode(node.Cond, opt, inLoop)...)
		errs = append(errs, checkBlock(node.Body, opt, true)...)

	case *ast.For:
		errs = append(errs, checkNode(node.Init, opt, inLoop)...)
		errs = append(errs, checkNode(node.Cond, opt, inLoop)...)
		errs = append(errs, checkNode(node.Step, opt, inLoop)...)
		errs = append(errs, checkBlock(node.Body, opt, true)...)

	case *ast.Return:
		errs = append(errs, checkNode(node.Expr, opt, inLoop)...)

	case *ast.Break:
		if !inLoop {
			errs = append(errs, fmt.Errorf("break outside of a loop"))
		}

	case *ast.Continue:
		if !inLoop {
			errs = append(errs, fmt.Errorf("continue outside of a loop"))
		}

	case *ast.BinOp:
		errs = append(errs, checkNode(node.Left, opt, inLoop)...)
		errs = append(errs, checkNode(node.Right, opt, inLoop)...)

	case *ast.UnOp:
		errs = append(errs, checkNode(node.Expr, opt, inLoop)...)

	case *ast.Condition:
		errs = append(errs, checkNode(node.Cond, opt, inLoop)...)
		errs = append(errs, checkNode(node.Then, opt, inLoop)...)
		errs = append(errs, checkNode(node.Else, opt, inLoop)...)

	case *ast.Assign:
		errs = append(errs, checkNode(node.Lhs, opt, inLoop)...)
		errs = append(errs, checkNode(node.Rhs, opt, inLoop)...)

	case *ast.CompoundAssign:
		errs = append(errs, checkNode(node.Lhs, opt, inLoop)...)
		errs = append(errs, checkNode(node.Rhs, opt, inLoop)...)

	case *ast.CallFunc:
		if node.Args != nil {
			for _, a := range node.Args.Items {
				errs = append(errs, checkNode(a, opt, inLoop)...)
			}
		}

	case *ast.Variable:
		if opt.StrictVars && node.Type == symbol.Unknown {
			errs = append(errs, fmt.Errorf("use of undeclared identifier: %s", node.Name))
		}

	case *ast.Statement:
		errs = append(errs, checkBlock(node, opt, inLoop)...)
	}

	return errs
}
