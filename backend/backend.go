// Package backend abstracts the one place the code generator's output
// depends on the target platform: assembler symbol-naming conventions
// and section directives. Everything else - the instruction mnemonics
// themselves - is identical GNU/AT&T syntax on both dialects the
// generator supports, so it is emitted directly by the generator and
// does not need to go through this interface.
package backend

// Backend is the capability set the code generator holds abstractly.
// Two implementations exist: System V (Linux) and macOS; the
// difference between them lives entirely in these methods.
type Backend interface {
	// Name identifies the backend, for diagnostics only.
	Name() string

	// Symbol returns the assembler-visible name for a source-level
	// symbol - a function or a global variable (e.g. "main" becomes
	// "_main" on macOS, stays "main" on System V; every other defined
	// symbol gets the same treatment). Compiler-generated local labels
	// (".L{n}", ".LC{n}") are not passed through it.
	Symbol(name string) string

	// GlobalDirective returns the ".globl"-style export directive for
	// an already-decorated symbol name.
	GlobalDirective(symbolName string) string

	// TextSection, DataSection and RodataSection return this
	// platform's section directive for code, mutable data, and
	// read-only data (string-literal storage) respectively.
	TextSection() string
	DataSection() string
	RodataSection() string
}

// For selects the Backend matching the given host-OS identity (as
// reported by runtime.GOOS): "darwin" selects macOS, anything else
// selects System V.
func For(goos string) Backend {
	if goos == "darwin" {
		return MacOS{}
	}
	return SystemV{}
}
