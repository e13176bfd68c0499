package backend

// SystemV is the Linux/System V AMD64 assembler dialect: bare symbol
// names, no underscore decoration.
type SystemV struct{}

func (SystemV) Name() string { return "system-v" }

func (SystemV) Symbol(name string) string { return name }

func (SystemV) GlobalDirective(symbolName string) string {
	return ".globl " + symbolName
}

func (SystemV) TextSection() string   { return ".text" }
func (SystemV) DataSection() string   { return ".data" }
func (SystemV) RodataSection() string { return ".section .rodata" }
