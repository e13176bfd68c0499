package symbol

import "testing"

func TestPushAndSearch(t *testing.T) {
	tab := New()

	if err := tab.Push(GlobalScope, "x", Int, Identifier, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	m, ok := tab.Search(GlobalScope, "x")
	if !ok {
		t.Fatalf("expected to find x")
	}
	if m.Type != Int {
		t.Fatalf("wrong type, got %v", m.Type)
	}
	if m.Ordinal != 0 {
		t.Fatalf("expected ordinal 0, got %d", m.Ordinal)
	}
}

func TestPushRedefinitionIsError(t *testing.T) {
	tab := New()

	if err := tab.Push(GlobalScope, "x", Int, Identifier, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := tab.Push(GlobalScope, "x", Int, Identifier, nil); err == nil {
		t.Fatalf("expected an error redefining x")
	}
}

func TestPushUnknownIsIdempotent(t *testing.T) {
	tab := New()

	tab.PushUnknown(GlobalScope, "y")
	m, ok := tab.Search(GlobalScope, "y")
	if !ok {
		t.Fatalf("expected to find y")
	}
	if m.Type != Unknown {
		t.Fatalf("expected Unknown, got %v", m.Type)
	}

	// Calling again must not clobber the entry, or error.
	tab.PushUnknown(GlobalScope, "y")
	m2, _ := tab.Search(GlobalScope, "y")
	if m2.Ordinal != m.Ordinal {
		t.Fatalf("PushUnknown must be a no-op on an existing entry")
	}
}

func TestOrdinalsAdvanceByArraySize(t *testing.T) {
	scope := FuncScope("main")
	tab := New()

	if err := tab.Push(scope, "a", Int, Array, []int{4}); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := tab.Push(scope, "b", Int, Identifier, nil); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	mb, _ := tab.Search(scope, "b")
	if mb.Ordinal != 4 {
		t.Fatalf("expected b's ordinal to be 4 (after a[4]), got %d", mb.Ordinal)
	}
}

func TestSizeAndOffset(t *testing.T) {
	scope := FuncScope("f")
	tab := New()

	tab.Push(scope, "a", Char, Identifier, nil)
	tab.Push(scope, "b", Int, Identifier, nil)
	tab.Push(scope, "c", Int, Array, []int{2})

	if got := tab.Size(scope); got != 1+8+16 {
		t.Fatalf("expected total size 25, got %d", got)
	}

	offA, _ := tab.Offset(scope, "a")
	offB, _ := tab.Offset(scope, "b")
	offC, _ := tab.Offset(scope, "c")

	if offA != 0 {
		t.Fatalf("expected a at offset 0, got %d", offA)
	}
	if offB != 1 {
		t.Fatalf("expected b at offset 1, got %d", offB)
	}
	if offC != 9 {
		t.Fatalf("expected c at offset 9, got %d", offC)
	}
}

func TestTypeSize(t *testing.T) {
	tests := []struct {
		typ  Type
		want int
	}{
		{Int, 8},
		{Char, 1},
		{IntPointer, 8},
		{CharPointer, 8},
	}
	for i, tt := range tests {
		if got := TypeSize(tt.typ); got != tt.want {
			t.Fatalf("tests[%d] - expected %d, got %d", i, tt.want, got)
		}
	}
}

func TestScopeSeparation(t *testing.T) {
	tab := New()
	tab.Push(GlobalScope, "x", Int, Identifier, nil)
	tab.Push(FuncScope("main"), "x", Char, Identifier, nil)

	g, _ := tab.Search(GlobalScope, "x")
	l, _ := tab.Search(FuncScope("main"), "x")

	if g.Type == l.Type {
		t.Fatalf("expected global and local x to be distinct entries with different types")
	}
}
