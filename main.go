// This is the main-driver for our compiler.

package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/skx/cc64/backend"
	"github.com/skx/cc64/compiler"
)

func main() {

	//
	// Look for flags.
	//
	debug := flag.Bool("debug", false, "Insert debug \"stuff\" in our generated output.")
	strict := flag.Bool("strict-vars", false, "Treat use of an undeclared identifier as an error, instead of auto-declaring it.")
	output := flag.String("o", "", "Write the generated assembly here, instead of STDOUT.")
	target := flag.String("target", "", "Target assembler dialect: \"linux\" or \"darwin\". Defaults to the host OS.")
	flag.Bool("S", true, "Stop after generating assembly. Always true: assembling/linking is out of scope.")
	flag.Parse()

	//
	// Ensure we have a single source-file as our argument.
	//
	if len(flag.Args()) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: cc64 [flags] file.c\n")
		os.Exit(1)
	}

	path := flag.Args()[0]

	//
	// Read the source.
	//
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %s\n", path, err.Error())
		os.Exit(1)
	}

	//
	// Work out which assembler dialect we're targeting.
	//
	goos := runtime.GOOS
	if *target != "" {
		goos = *target
	}
	be := backend.For(goos)

	//
	// Create a compiler-object, with the program as input.
	//
	comp := compiler.New(path, string(src), be)

	//
	// Are we inserting debugging "stuff" ?
	//
	if *debug {
		comp.SetDebug(true)
	}

	//
	// Are undeclared identifiers an error, rather than silently
	// auto-declared?
	//
	if *strict {
		comp.SetStrictVars(true)
	}

	//
	// Compile.
	//
	out, err := comp.Compile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error compiling: %s\n", err.Error())
		os.Exit(1)
	}

	//
	// Write the generated assembly to STDOUT, or to the requested
	// output file.
	//
	if *output == "" {
		fmt.Printf("%s", out)
		return
	}

	err = os.WriteFile(*output, []byte(out), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %s\n", *output, err.Error())
		os.Exit(1)
	}
}
