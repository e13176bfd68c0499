// Package symbol implements the consolidated symbol table shared by the
// parser, the semantic checker, and the code generator.
package symbol

import "fmt"

// Type is the type of a declared symbol.
type Type int

// The closed set of types the language supports.
const (
	Int Type = iota
	Char
	IntPointer
	CharPointer
	Unknown
)

// Structure describes the data shape of a symbol.
type Structure int

// The closed set of structures.
const (
	Identifier Structure = iota
	Pointer
	Array
	UnknownStructure
)

// Scope identifies where a name lives: global scope, the scope of a
// single function's locals/arguments, or a nested block within a
// function.
type Scope struct {
	Kind ScopeKind
	Name string // function or block name; empty for Global
}

// ScopeKind is the kind of a Scope.
type ScopeKind int

const (
	Global ScopeKind = iota
	Func
	Block
)

// GlobalScope is the shared global scope.
var GlobalScope = Scope{Kind: Global}

// FuncScope builds the scope for a function's locals.
func FuncScope(name string) Scope { return Scope{Kind: Func, Name: name} }

// BlockScope builds the scope for a nested block.
func BlockScope(name string) Scope { return Scope{Kind: Block, Name: name} }

func (s Scope) String() string {
	switch s.Kind {
	case Global:
		return "global"
	case Func:
		return "func:" + s.Name
	case Block:
		return "block:" + s.Name
	}
	return "?"
}

// Meta is the metadata stored for one symbol.
type Meta struct {
	Scope     Scope
	Ordinal   int // declaration-order index within its scope
	Type      Type
	Structure Structure
	Dims      []int // array dimensions, when Structure == Array
	TypeName  string // set when Type == Unknown, the unrecognized keyword
}

// key is the map key: a symbol is uniquely identified by its scope and
// name.
type key struct {
	scope Scope
	name  string
}

// Table is the single consolidated symbol table, keyed by (Scope, name).
// Ordinals are assigned per-scope in declaration order; array
// declarations advance the ordinal by the product of their dimensions
// so later declarations reserve stack space after the whole array.
type Table struct {
	entries map[key]*Meta
	order   map[Scope][]string // insertion order, per scope, for iteration
	counts  map[Scope]int      // next free ordinal, per scope
}

// New creates an empty table.
func New() *Table {
	return &Table{
		entries: make(map[key]*Meta),
		order:   make(map[Scope][]string),
		counts:  make(map[Scope]int),
	}
}

// Push installs a new symbol. It returns an error if the name already
// exists within the given scope: redefinition is a hard error.
func (t *Table) Push(scope Scope, name string, typ Type, structure Structure, dims []int) error {
	k := key{scope, name}
	if _, ok := t.entries[k]; ok {
		return fmt.Errorf("redefinition of %q in scope %s", name, scope)
	}

	ordinal := t.counts[scope]
	t.entries[k] = &Meta{
		Scope:     scope,
		Ordinal:   ordinal,
		Type:      typ,
		Structure: structure,
		Dims:      dims,
	}
	t.order[scope] = append(t.order[scope], name)

	advance := 1
	if structure == Array {
		advance = product(dims)
	}
	t.counts[scope] = ordinal + advance

	return nil
}

// PushUnknown installs a placeholder symbol for an identifier seen in
// use position that was never declared (the parser's permissive
// auto-declaration behavior). It is a no-op if the name is already
// present in the scope.
func (t *Table) PushUnknown(scope Scope, name string) {
	k := key{scope, name}
	if _, ok := t.entries[k]; ok {
		return
	}
	_ = t.Push(scope, name, Unknown, UnknownStructure, nil)
}

// Search looks up a symbol by scope and name.
func (t *Table) Search(scope Scope, name string) (*Meta, bool) {
	m, ok := t.entries[key{scope, name}]
	return m, ok
}

// Count returns the number of ordinal slots reserved so far in a scope
// (the scalar-slot count, not bytes; stack frames are sized by Size).
func (t *Table) Count(scope Scope) int {
	return t.counts[scope]
}

// Size returns the byte footprint reserved so far in a scope, for use
// by the generator when laying out a stack frame. Every symbol in the
// scope is walked and its own footprint (sizeof(type) * product(dims))
// summed; this is independent of ordinal packing so that mixed
// Int/Char/array locals still get the right total.
func (t *Table) Size(scope Scope) int {
	total := 0
	for _, name := range t.order[scope] {
		m := t.entries[key{scope, name}]
		total += TypeSize(m.Type) * elementCount(m)
	}
	return total
}

// Offset returns the byte offset of a single symbol from the start of
// its scope's storage area (locals are laid out in declaration order;
// the generator negates and adds the frame base).
func (t *Table) Offset(scope Scope, name string) (int, bool) {
	_, ok := t.Search(scope, name)
	if !ok {
		return 0, false
	}
	offset := 0
	for _, n := range t.order[scope] {
		if n == name {
			break
		}
		other := t.entries[key{scope, n}]
		offset += TypeSize(other.Type) * elementCount(other)
	}
	return offset, true
}

func elementCount(m *Meta) int {
	if m.Structure == Array {
		return product(m.Dims)
	}
	return 1
}

// TypeSize returns the byte size of a scalar of the given type:
// Int/pointers are 8 bytes, Char is 1 byte.
func TypeSize(t Type) int {
	switch t {
	case Char:
		return 1
	case Int, IntPointer, CharPointer:
		return 8
	default:
		return 8
	}
}

func product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}
