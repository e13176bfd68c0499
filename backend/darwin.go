package backend

// MacOS is the macOS AMD64 assembler dialect: every defined symbol is
// underscore-prefixed, and the Mach-O section spellings differ from
// the ELF ones System V uses.
type MacOS struct{}

func (MacOS) Name() string { return "macos" }

func (MacOS) Symbol(name string) string { return "_" + name }

func (MacOS) GlobalDirective(symbolName string) string {
	return ".globl " + symbolName
}

func (MacOS) TextSection() string   { return ".text" }
func (MacOS) DataSection() string   { return ".data" }
func (MacOS) RodataSection() string { return ".section __TEXT,__const" }
