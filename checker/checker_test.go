package checker

import (
	"testing"

	"github.com/skx/cc64/parser"
)

func parse(t *testing.T, src string, opt parser.Option) (*parser.Parser, []error) {
	t.Helper()
	p, err := parser.New("test.c", src, opt)
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err)
	}
	defs, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %s", err)
	}
	return p, Check(defs, p.Funcs(), Option{StrictVars: opt.StrictVars})
}

func TestCheckWellFormedProgram(t *testing.T) {
	_, errs := parse(t, `main(){ return 0; }`, parser.Option{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckUnknownReturnType(t *testing.T) {
	p, err := parser.New("test.c", `bogus f(){ return 0; }`, parser.Option{})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	defs, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	errs := Check(defs, p.Funcs(), Option{})
	if len(errs) == 0 {
		t.Fatalf("expected an error for the unknown return type")
	}
}

func TestCheckBreakOutsideLoop(t *testing.T) {
	_, errs := parse(t, `f(){ break; }`, parser.Option{})
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", errs)
	}
}

func TestCheckContinueOutsideLoop(t *testing.T) {
	_, errs := parse(t, `f(){ continue; }`, parser.Option{})
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", errs)
	}
}

func TestCheckBreakInsideWhileIsFine(t *testing.T) {
	_, errs := parse(t, `f(){ while(1) { break; } }`, parser.Option{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckContinueInsideForIsFine(t *testing.T) {
	_, errs := parse(t, `f(){ for(;;) { continue; } }`, parser.Option{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckBreakInsideNestedIfInsideLoopIsFine(t *testing.T) {
	_, errs := parse(t, `f(){ while(1) { if (1) { break; } } }`, parser.Option{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckStrictVarsFlagsUndeclared(t *testing.T) {
	_, errs := parse(t, `f(){ return undeclared; }`, parser.Option{StrictVars: true})
	if len(errs) != 1 {
		t.Fatalf("expected exactly 1 error, got %v", errs)
	}
}

func TestCheckPermissiveModeAllowsUndeclared(t *testing.T) {
	_, errs := parse(t, `f(){ return undeclared; }`, parser.Option{})
	if len(errs) != 0 {
		t.Fatalf("expected no errors in permissive mode, got %v", errs)
	}
}
