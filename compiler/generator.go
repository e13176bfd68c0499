package compiler

import (
	"fmt"
	"strings"

	"github.com/skx/cc64/ast"
	"github.com/skx/cc64/symbol"
)

// argRegs lists the System V integer argument registers, in order.
var argRegs = []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"}

// argRegsByte is the low-8-bit alias of each register in argRegs, used
// when an argument is declared char.
var argRegsByte = []string{"%dil", "%sil", "%dl", "%cl", "%r8b", "%r9b"}

// generateFuncDef emits the assembly for a single function: prologue,
// argument spill, body, and epilogue.
func (c *Compiler) generateFuncDef(buf *strings.Builder, fd *ast.FuncDef) error {
	c.curFunc = fd.Name
	c.loopLabels = nil
	scope := c.funcScope()

	sym := c.backend.Symbol(fd.Name)
	fmt.Fprintf(buf, "%s:\n", sym)
	buf.WriteString("\tpush %rbp\n")
	buf.WriteString("\tmov %rsp, %rbp\n")

	frameBytes := c.vars.Size(scope)
	frameSize := roundUp16(frameBytes)
	if frameSize > 0 {
		fmt.Fprintf(buf, "\tsub $%d, %%rsp\n", frameSize)
	}

	if c.debug {
		buf.WriteString("\t# Debug-break\n")
		buf.WriteString("\tint3\n")
	}

	for i, arg := range fd.Args {
		off, ok := c.vars.Offset(scope, arg.Name)
		if !ok {
			return fmt.Errorf("internal error: argument %q has no stack slot", arg.Name)
		}
		meta, _ := c.vars.Search(scope, arg.Name)
		disp := -(off + symbol.TypeSize(meta.Type))
		if i >= len(argRegs) {
			// Stack-passed args sit above the saved %rbp and the return
			// address; copy each into its local slot like the others.
			fmt.Fprintf(buf, "\tmovq %d(%%rbp), %%rax\n", 16+8*(i-len(argRegs)))
			fmt.Fprintf(buf, "\tmovq %%rax, %d(%%rbp)\n", disp)
			continue
		}
		if meta.Type == symbol.Char {
			fmt.Fprintf(buf, "\tmovb %s, %d(%%rbp)\n", argRegsByte[i], disp)
		} else {
			fmt.Fprintf(buf, "\tmovq %s, %d(%%rbp)\n", argRegs[i], disp)
		}
	}

	if err := c.genStatement(buf, fd.Body, scope); err != nil {
		return err
	}

	// Fall-through return: a function whose body never hits an explicit
	// return statement returns whatever the last evaluated expression
	// left in %rax (so "main(){1+2;}" exits with 3).
	buf.WriteString("\tleave\n")
	buf.WriteString("\tret\n")
	return nil
}

func roundUp16(n int) int {
	return (n + 15) &^ 15
}

// genStatement emits code for a single statement node.
func (c *Compiler) genStatement(buf *strings.Builder, n ast.Node, scope symbol.Scope) error {
	switch s := n.(type) {
	case nil:
		return nil

	case *ast.Statement:
		for _, item := range s.Items {
			if err := c.genStatement(buf, item, scope); err != nil {
				return err
			}
		}
		return nil

	case *ast.If:
		return c.genIf(buf, s, scope)

	case *ast.While:
		return c.genWhile(buf, s, scope)

	case *ast.For:
		return c.genFor(buf, s, scope)

	case *ast.Return:
		if s.Expr != nil {
			if err := c.genExpr(buf, s.Expr, scope); err != nil {
				return err
			}
		} else {
			buf.WriteString("\tmov $0, %rax\n")
		}
		buf.WriteString("\tleave\n")
		buf.WriteString("\tret\n")
		return nil

	case *ast.Break:
		if len(c.loopLabels) == 0 {
			return fmt.Errorf("internal error: break outside of a loop reached codegen")
		}
		fmt.Fprintf(buf, "\tjmp %s\n", c.loopLabels[len(c.loopLabels)-1].breakLabel)
		return nil

	case *ast.Continue:
		if len(c.loopLabels) == 0 {
			return fmt.Errorf("internal error: continue outside of a loop reached codegen")
		}
		fmt.Fprintf(buf, "\tjmp %s\n", c.loopLabels[len(c.loopLabels)-1].continueLabel)
		return nil

	default:
		// A bare expression used as a statement: evaluate and discard.
		return c.genExpr(buf, n, scope)
	}
}

func (c *Compiler) genIf(buf *strings.Builder, n *ast.If, scope symbol.Scope) error {
	elseLabel := c.newLabel()
	endLabel := c.newLabel()

	if err := c.genExpr(buf, n.Cond, scope); err != nil {
		return err
	}
	buf.WriteString("\tcmp $0, %rax\n")
	fmt.Fprintf(buf, "\tje %s\n", elseLabel)

	if err := c.genStatement(buf, n.Then, scope); err != nil {
		return err
	}
	fmt.Fprintf(buf, "\tjmp %s\n", endLabel)

	fmt.Fprintf(buf, "%s:\n", elseLabel)
	if n.Else != nil {
		if err := c.genStatement(buf, n.Else, scope); err != nil {
			return err
		}
	}
	fmt.Fprintf(buf, "%s:\n", endLabel)
	return nil
}

func (c *Compiler) genWhile(buf *strings.Builder, n *ast.While, scope symbol.Scope) error {
	startLabel := c.newLabel()
	endLabel := c.newLabel()

	c.loopLabels = append(c.loopLabels, loopLabel{continueLabel: startLabel, breakLabel: endLabel})
	defer func() { c.loopLabels = c.loopLabels[:len(c.loopLabels)-1] }()

	fmt.Fprintf(buf, "%s:\n", startLabel)
	if err := c.genExpr(buf, n.Cond, scope); err != nil {
		return err
	}
	buf.WriteString("\tcmp $0, %rax\n")
	fmt.Fprintf(buf, "\tje %s\n", endLabel)

	if err := c.genStatement(buf, n.Body, scope); err != nil {
		return err
	}
	fmt.Fprintf(buf, "\tjmp %s\n", startLabel)
	fmt.Fprintf(buf, "%s:\n", endLabel)
	return nil
}

func (c *Compiler) genFor(buf *strings.Builder, n *ast.For, scope symbol.Scope) error {
	startLabel := c.newLabel()
	stepLabel := c.newLabel()
	endLabel := c.newLabel()

	if n.Init != nil {
		if err := c.genExpr(buf, n.Init, scope); err != nil {
			return err
		}
	}

	// continue jumps to the step, not the condition test, so that
	// "for(;;i++) { ...; continue; }" still advances i.
	c.loopLabels = append(c.loopLabels, loopLabel{continueLabel: stepLabel, breakLabel: endLabel})
	defer func() { c.loopLabels = c.loopLabels[:len(c.loopLabels)-1] }()

	fmt.Fprintf(buf, "%s:\n", startLabel)
	if n.Cond != nil {
		if err := c.genExpr(buf, n.Cond, scope); err != nil {
			return err
		}
		buf.WriteString("\tcmp $0, %rax\n")
		fmt.Fprintf(buf, "\tje %s\n", endLabel)
	}

	if err := c.genStatement(buf, n.Body, scope); err != nil {
		return err
	}

	fmt.Fprintf(buf, "%s:\n", stepLabel)
	if n.Step != nil {
		if err := c.genExpr(buf, n.Step, scope); err != nil {
			return err
		}
	}
	fmt.Fprintf(buf, "\tjmp %s\n", startLabel)
	fmt.Fprintf(buf, "%s:\n", endLabel)
	return nil
}

// genExpr emits code that leaves the value of n in %rax.
func (c *Compiler) genExpr(buf *strings.Builder, n ast.Node, scope symbol.Scope) error {
	switch e := n.(type) {
	case *ast.Factor:
		fmt.Fprintf(buf, "\tmov $%d, %%rax\n", e.Value)
		return nil

	case *ast.StringLiteral:
		label := fmt.Sprintf(".LC%d", e.ID)
		c.strings = append(c.strings, stringDef{label: label, value: e.Value})
		fmt.Fprintf(buf, "\tlea %s(%%rip), %%rax\n", label)
		return nil

	case *ast.Variable:
		return c.genLoadVariable(buf, e, scope)

	case *ast.Assign:
		return c.genAssign(buf, e, scope)

	case *ast.CompoundAssign:
		return c.genCompoundAssign(buf, e, scope)

	case *ast.BinOp:
		return c.genBinOp(buf, e, scope)

	case *ast.UnOp:
		return c.genUnOp(buf, e, scope)

	case *ast.Condition:
		return c.genCondition(buf, e, scope)

	case *ast.CallFunc:
		return c.genCall(buf, e, scope)

	default:
		return fmt.Errorf("internal error: unhandled expression node %T reached codegen", n)
	}
}

// lookupVar finds a variable's metadata, checking the current function
// scope before falling back to the global scope.
func (c *Compiler) lookupVar(scope symbol.Scope, name string) (*symbol.Meta, bool) {
	if m, ok := c.vars.Search(scope, name); ok {
		return m, true
	}
	return c.vars.Search(symbol.GlobalScope, name)
}

// genVariableAddr emits code leaving the address of a named variable in
// %rax.
func (c *Compiler) genVariableAddr(buf *strings.Builder, scope symbol.Scope, name string) error {
	if m, ok := c.vars.Search(scope, name); ok {
		// The address is the lowest byte of the symbol's whole slot, so
		// an array's elements stay inside the space reserved for it.
		size := symbol.TypeSize(m.Type)
		if m.Structure == symbol.Array {
			size *= arrayElementCount(m.Dims)
		}
		disp := -(mustOffset(c.vars, scope, name) + size)
		fmt.Fprintf(buf, "\tlea %d(%%rbp), %%rax\n", disp)
		return nil
	}
	if _, ok := c.vars.Search(symbol.GlobalScope, name); ok {
		sym := c.backend.Symbol(name)
		fmt.Fprintf(buf, "\tlea %s(%%rip), %%rax\n", sym)
		return nil
	}
	return fmt.Errorf("internal error: undefined variable %q reached codegen", name)
}

func mustOffset(t *symbol.Table, scope symbol.Scope, name string) int {
	off, _ := t.Offset(scope, name)
	return off
}

// genLoadVariable emits code to load a variable's value (or, for an
// array, its decayed address) into %rax.
func (c *Compiler) genLoadVariable(buf *strings.Builder, v *ast.Variable, scope symbol.Scope) error {
	m, ok := c.lookupVar(scope, v.Name)
	if !ok {
		return fmt.Errorf("internal error: undefined variable %q reached codegen", v.Name)
	}

	if m.Structure == symbol.Array {
		return c.genVariableAddr(buf, scope, v.Name)
	}

	if _, ok := c.vars.Search(scope, v.Name); ok {
		disp := -(mustOffset(c.vars, scope, v.Name) + symbol.TypeSize(m.Type))
		if m.Type == symbol.Char {
			fmt.Fprintf(buf, "\tmovsbq %d(%%rbp), %%rax\n", disp)
		} else {
			fmt.Fprintf(buf, "\tmovq %d(%%rbp), %%rax\n", disp)
		}
		return nil
	}

	sym := c.backend.Symbol(v.Name)
	if m.Type == symbol.Char {
		fmt.Fprintf(buf, "\tmovsbq %s(%%rip), %%rax\n", sym)
	} else {
		fmt.Fprintf(buf, "\tmovq %s(%%rip), %%rax\n", sym)
	}
	return nil
}

// genLValueAddr emits code leaving the address an assignment should
// write through, in %rax.
func (c *Compiler) genLValueAddr(buf *strings.Builder, n ast.Node, scope symbol.Scope) error {
	switch e := n.(type) {
	case *ast.Variable:
		return c.genVariableAddr(buf, scope, e.Name)

	case *ast.UnOp:
		if e.Op == ast.OpDereference {
			// The dereferenced pointer's value is itself the target
			// address: "*p = x" writes through the value held by p.
			return c.genExpr(buf, e.Expr, scope)
		}
	}
	return fmt.Errorf("internal error: invalid assignment target %T reached codegen", n)
}

// lvalueType reports the storage width of an assignment target, for
// choosing between movb and movq on the store.
func (c *Compiler) lvalueType(n ast.Node, scope symbol.Scope) symbol.Type {
	switch e := n.(type) {
	case *ast.Variable:
		if m, ok := c.lookupVar(scope, e.Name); ok {
			return m.Type
		}
	case *ast.UnOp:
		if e.Op == ast.OpDereference {
			switch inner := underlyingPointerType(e.Expr); inner {
			case symbol.CharPointer:
				return symbol.Char
			}
		}
	}
	return symbol.Int
}

func underlyingPointerType(n ast.Node) symbol.Type {
	if v, ok := n.(*ast.Variable); ok {
		return v.Type
	}
	return symbol.Unknown
}

func (c *Compiler) genAssign(buf *strings.Builder, n *ast.Assign, scope symbol.Scope) error {
	if err := c.genLValueAddr(buf, n.Lhs, scope); err != nil {
		return err
	}
	buf.WriteString("\tpush %rax\n")

	if err := c.genExpr(buf, n.Rhs, scope); err != nil {
		return err
	}
	buf.WriteString("\tpop %rcx\n")

	if c.lvalueType(n.Lhs, scope) == symbol.Char {
		buf.WriteString("\tmovb %al, (%rcx)\n")
	} else {
		buf.WriteString("\tmovq %rax, (%rcx)\n")
	}
	return nil
}

func (c *Compiler) genCompoundAssign(buf *strings.Builder, n *ast.CompoundAssign, scope symbol.Scope) error {
	if err := c.genLValueAddr(buf, n.Lhs, scope); err != nil {
		return err
	}
	buf.WriteString("\tpush %rax\n") // save address

	buf.WriteString("\tmov (%rsp), %rcx\n")
	buf.WriteString("\tmovq (%rcx), %rax\n") // current value

	buf.WriteString("\tpush %rax\n") // save current value

	if err := c.genExpr(buf, n.Rhs, scope); err != nil {
		return err
	}
	buf.WriteString("\tmov %rax, %rcx\n") // rcx = rhs
	buf.WriteString("\tpop %rax\n")       // rax = current value

	switch n.Op {
	case ast.CompoundAdd:
		buf.WriteString("\tadd %rcx, %rax\n")
	case ast.CompoundSub:
		buf.WriteString("\tsub %rcx, %rax\n")
	case ast.CompoundMul:
		buf.WriteString("\timul %rcx, %rax\n")
	case ast.CompoundDiv:
		buf.WriteString("\tcqto\n")
		buf.WriteString("\tidiv %rcx\n")
	case ast.CompoundMod:
		buf.WriteString("\tcqto\n")
		buf.WriteString("\tidiv %rcx\n")
		buf.WriteString("\tmov %rdx, %rax\n")
	}

	buf.WriteString("\tpop %rcx\n") // address
	if c.lvalueType(n.Lhs, scope) == symbol.Char {
		buf.WriteString("\tmovb %al, (%rcx)\n")
	} else {
		buf.WriteString("\tmovq %rax, (%rcx)\n")
	}
	return nil
}

func (c *Compiler) genCondition(buf *strings.Builder, n *ast.Condition, scope symbol.Scope) error {
	falseLabel := c.newLabel()
	endLabel := c.newLabel()

	if err := c.genExpr(buf, n.Cond, scope); err != nil {
		return err
	}
	buf.WriteString("\tcmp $0, %rax\n")
	fmt.Fprintf(buf, "\tje %s\n", falseLabel)

	if err := c.genExpr(buf, n.Then, scope); err != nil {
		return err
	}
	fmt.Fprintf(buf, "\tjmp %s\n", endLabel)

	fmt.Fprintf(buf, "%s:\n", falseLabel)
	if err := c.genExpr(buf, n.Else, scope); err != nil {
		return err
	}
	fmt.Fprintf(buf, "%s:\n", endLabel)
	return nil
}

func (c *Compiler) genBinOp(buf *strings.Builder, n *ast.BinOp, scope symbol.Scope) error {
	// && and || short-circuit: the right-hand side must not be
	// evaluated unless the left-hand side leaves it undecided.
	if n.Op == ast.OpLogAnd {
		return c.genLogical(buf, n, scope, true)
	}
	if n.Op == ast.OpLogOr {
		return c.genLogical(buf, n, scope, false)
	}

	if err := c.genExpr(buf, n.Left, scope); err != nil {
		return err
	}
	buf.WriteString("\tpush %rax\n")

	if err := c.genExpr(buf, n.Right, scope); err != nil {
		return err
	}
	buf.WriteString("\tmov %rax, %rcx\n") // rcx = right
	buf.WriteString("\tpop %rax\n")       // rax = left

	// Shifts need their count in %cl specifically, which %rcx already
	// satisfies (the low byte of a register shares its name with %cl).
	switch n.Op {
	case ast.OpAdd:
		buf.WriteString("\tadd %rcx, %rax\n")
	case ast.OpSub:
		buf.WriteString("\tsub %rcx, %rax\n")
	case ast.OpMul:
		buf.WriteString("\timul %rcx, %rax\n")
	case ast.OpDiv:
		buf.WriteString("\tcqto\n")
		buf.WriteString("\tidiv %rcx\n")
	case ast.OpMod:
		buf.WriteString("\tcqto\n")
		buf.WriteString("\tidiv %rcx\n")
		buf.WriteString("\tmov %rdx, %rax\n")
	case ast.OpShl:
		buf.WriteString("\tshl %cl, %rax\n")
	case ast.OpShr:
		buf.WriteString("\tsar %cl, %rax\n")
	case ast.OpBitAnd:
		buf.WriteString("\tand %rcx, %rax\n")
	case ast.OpBitOr:
		buf.WriteString("\tor %rcx, %rax\n")
	case ast.OpBitXor:
		buf.WriteString("\txor %rcx, %rax\n")
	case ast.OpEq:
		c.genCompare(buf, "sete")
	case ast.OpNeq:
		c.genCompare(buf, "setne")
	case ast.OpLt:
		c.genCompare(buf, "setl")
	case ast.OpLe:
		c.genCompare(buf, "setle")
	case ast.OpGt:
		c.genCompare(buf, "setg")
	case ast.OpGe:
		c.genCompare(buf, "setge")
	}

	return nil
}

func (c *Compiler) genCompare(buf *strings.Builder, set string) {
	buf.WriteString("\tcmp %rcx, %rax\n")
	fmt.Fprintf(buf, "\t%s %%al\n", set)
	buf.WriteString("\tmovzbq %al, %rax\n")
}

// genLogical implements short-circuit && (isAnd true) and || (isAnd
// false) via a pair of labels.
func (c *Compiler) genLogical(buf *strings.Builder, n *ast.BinOp, scope symbol.Scope, isAnd bool) error {
	shortCircuit := c.newLabel()
	endLabel := c.newLabel()

	if err := c.genExpr(buf, n.Left, scope); err != nil {
		return err
	}
	buf.WriteString("\tcmp $0, %rax\n")
	if isAnd {
		fmt.Fprintf(buf, "\tje %s\n", shortCircuit) // false && _ => false
	} else {
		fmt.Fprintf(buf, "\tjne %s\n", shortCircuit) // true || _ => true
	}

	if err := c.genExpr(buf, n.Right, scope); err != nil {
		return err
	}
	buf.WriteString("\tcmp $0, %rax\n")
	buf.WriteString("\tsetne %al\n")
	buf.WriteString("\tmovzbq %al, %rax\n")
	fmt.Fprintf(buf, "\tjmp %s\n", endLabel)

	fmt.Fprintf(buf, "%s:\n", shortCircuit)
	if isAnd {
		buf.WriteString("\tmov $0, %rax\n")
	} else {
		buf.WriteString("\tmov $1, %rax\n")
	}
	fmt.Fprintf(buf, "%s:\n", endLabel)
	return nil
}

func (c *Compiler) genUnOp(buf *strings.Builder, n *ast.UnOp, scope symbol.Scope) error {
	switch n.Op {
	case ast.OpSizeOf:
		return c.genSizeOf(buf, n.Expr, scope)

	case ast.OpAddressOf:
		if v, ok := n.Expr.(*ast.Variable); ok {
			return c.genVariableAddr(buf, scope, v.Name)
		}
		return fmt.Errorf("internal error: address-of a non-variable reached codegen")

	case ast.OpDereference:
		if err := c.genExpr(buf, n.Expr, scope); err != nil {
			return err
		}
		buf.WriteString("\tmovq (%rax), %rax\n")
		return nil

	case ast.OpUnPlus:
		return c.genExpr(buf, n.Expr, scope)

	case ast.OpUnMinus:
		if err := c.genExpr(buf, n.Expr, scope); err != nil {
			return err
		}
		buf.WriteString("\tneg %rax\n")
		return nil

	case ast.OpNot:
		if err := c.genExpr(buf, n.Expr, scope); err != nil {
			return err
		}
		buf.WriteString("\tcmp $0, %rax\n")
		buf.WriteString("\tsete %al\n")
		buf.WriteString("\tmovzbq %al, %rax\n")
		return nil

	case ast.OpBitReverse:
		if err := c.genExpr(buf, n.Expr, scope); err != nil {
			return err
		}
		buf.WriteString("\tnot %rax\n")
		return nil

	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		return c.genIncDec(buf, n, scope)
	}
	return fmt.Errorf("internal error: unhandled unary operator reached codegen")
}

func (c *Compiler) genIncDec(buf *strings.Builder, n *ast.UnOp, scope symbol.Scope) error {
	if err := c.genLValueAddr(buf, n.Expr, scope); err != nil {
		return err
	}
	buf.WriteString("\tmov %rax, %rcx\n")    // rcx = address
	buf.WriteString("\tmovq (%rcx), %rax\n") // rax = old value
	buf.WriteString("\tmov %rax, %rdx\n")    // rdx = old value (postfix result)

	delta := "inc"
	if n.Op == ast.OpPreDec || n.Op == ast.OpPostDec {
		delta = "dec"
	}

	switch n.Op {
	case ast.OpPreInc, ast.OpPreDec:
		fmt.Fprintf(buf, "\t%s %%rax\n", delta)
		buf.WriteString("\tmovq %rax, (%rcx)\n")
		// rax already holds the new value, the correct result for prefix.
	case ast.OpPostInc, ast.OpPostDec:
		buf.WriteString("\tmov %rdx, %rax\n")
		fmt.Fprintf(buf, "\t%s %%rax\n", delta)
		buf.WriteString("\tmovq %rax, (%rcx)\n")
		buf.WriteString("\tmov %rdx, %rax\n") // restore old value as the result
	}
	return nil
}

// genSizeOf resolves sizeof(...) entirely at compile time: the operand
// is never evaluated, only its static type inspected.
func (c *Compiler) genSizeOf(buf *strings.Builder, n ast.Node, scope symbol.Scope) error {
	size := 8
	switch e := n.(type) {
	case *ast.Variable:
		if m, ok := c.lookupVar(scope, e.Name); ok {
			if m.Structure == symbol.Array {
				size = symbol.TypeSize(m.Type) * arrayElementCount(m.Dims)
			} else {
				size = symbol.TypeSize(m.Type)
			}
		}
	}
	fmt.Fprintf(buf, "\tmov $%d, %%rax\n", size)
	return nil
}

func arrayElementCount(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}

func (c *Compiler) genCall(buf *strings.Builder, n *ast.CallFunc, scope symbol.Scope) error {
	items := n.Args.Items
	nArgs := len(items)

	stackArgs := 0
	if nArgs > len(argRegs) {
		stackArgs = nArgs - len(argRegs)
	}

	// Stack-passed arguments (beyond the sixth) are pushed first, in
	// reverse order, so the leftmost of them ends up nearest the top
	// of the stack at call time.
	for i := nArgs - 1; i >= len(argRegs); i-- {
		if err := c.genExpr(buf, items[i], scope); err != nil {
			return err
		}
		buf.WriteString("\tpush %rax\n")
	}

	// Register-passed arguments are call-argument expressions with no
	// side effects (restricted to numbers and variables), so they can
	// be evaluated and moved into their registers in any order.
	regCount := nArgs
	if regCount > len(argRegs) {
		regCount = len(argRegs)
	}
	for i := regCount - 1; i >= 0; i-- {
		if err := c.genExpr(buf, items[i], scope); err != nil {
			return err
		}
		fmt.Fprintf(buf, "\tmov %%rax, %s\n", argRegs[i])
	}

	buf.WriteString("\tmov $0, %rax\n") // no varargs in this language; zero al/eax per ABI convention
	fmt.Fprintf(buf, "\tcall %s\n", c.backend.Symbol(n.Callee))

	if stackArgs > 0 {
		fmt.Fprintf(buf, "\tadd $%d, %%rsp\n", stackArgs*8)
	}
	return nil
}
