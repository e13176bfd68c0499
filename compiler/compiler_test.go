package compiler

import (
	"strings"
	"testing"

	"github.com/skx/cc64/backend"
)

func TestCompileSimpleReturn(t *testing.T) {
	c := New("test.c", `main(){ return 42; }`, backend.SystemV{})
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, "main:") {
		t.Fatalf("expected a main: label, got:\n%s", out)
	}
	if !strings.Contains(out, "mov $42, %rax") {
		t.Fatalf("expected the literal to be loaded into %%rax, got:\n%s", out)
	}
	if !strings.Contains(out, ".globl main") {
		t.Fatalf("expected a .globl directive for main, got:\n%s", out)
	}
}

func TestCompileDebugFlagInsertsBreakpoint(t *testing.T) {
	c := New("test.c", `main(){ return 0; }`, backend.SystemV{})
	c.SetDebug(true)
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, "int3") {
		t.Fatalf("expected -debug to insert a breakpoint, got:\n%s", out)
	}
}

func TestCompileWithoutDebugFlagHasNoBreakpoint(t *testing.T) {
	c := New("test.c", `main(){ return 0; }`, backend.SystemV{})
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if strings.Contains(out, "int3") {
		t.Fatalf("expected no breakpoint without -debug, got:\n%s", out)
	}
}

func TestCompileMacOSDecoratesSymbols(t *testing.T) {
	c := New("test.c", `main(){ return 0; }`, backend.MacOS{})
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, "_main:") {
		t.Fatalf("expected an underscore-decorated _main: label, got:\n%s", out)
	}
}

func TestCompileSyntaxErrorIsReported(t *testing.T) {
	c := New("test.c", `main( { return 0; }`, backend.SystemV{})
	if _, err := c.Compile(); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestCompileSemanticErrorIsReported(t *testing.T) {
	c := New("test.c", `f(){ break; }`, backend.SystemV{})
	if _, err := c.Compile(); err == nil {
		t.Fatalf("expected a semantic error for break outside of a loop")
	}
}

func TestCompileStrictVarsRejectsUndeclared(t *testing.T) {
	c := New("test.c", `f(){ return undeclared; }`, backend.SystemV{})
	c.SetStrictVars(true)
	if _, err := c.Compile(); err == nil {
		t.Fatalf("expected an error under strict-vars")
	}
}

func TestCompileFunctionCall(t *testing.T) {
	c := New("test.c", `
add(a, b) { return a + b; }
main() { return add(1, 2); }
`, backend.SystemV{})
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, "call add") {
		t.Fatalf("expected a call to add, got:\n%s", out)
	}
}

func TestCompileStringLiteralGoesToRodata(t *testing.T) {
	c := New("test.c", `f(){ return "hi"; }`, backend.SystemV{})
	out, err := c.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(out, ".section .rodata") {
		t.Fatalf("expected a rodata section, got:\n%s", out)
	}
	if !strings.Contains(out, `.asciz "hi"`) {
		t.Fatalf("expected the string body to be emitted, got:\n%s", out)
	}
}

func TestLabelCounterResetsPerCompilation(t *testing.T) {
	src := `f(){ if (1) { return 1; } return 0; }`

	c1 := New("test.c", src, backend.SystemV{})
	out1, err := c1.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	out2, err := c1.Compile()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if out1 != out2 {
		t.Fatalf("expected identical output from two compilations on one Compiler:\n%s\n---\n%s", out1, out2)
	}
}
