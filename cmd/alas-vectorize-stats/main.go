// Command alas-vectorize-stats runs the superword-level-parallelism pass
// on its own, outside the rest of the optimization pipeline, and reports
// how many packs it found — useful for tuning or diagnosing the pass
// without running a full compile.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/atrocist/slp-vectorize/internal/ast"
	"github.com/atrocist/slp-vectorize/internal/codegen"
	"github.com/atrocist/slp-vectorize/internal/validator"
	"github.com/atrocist/slp-vectorize/internal/vectorize"
)

func main() {
	var input string
	var trace bool
	flag.StringVar(&input, "file", "", "ALaS JSON file to vectorize (reads from stdin if not provided)")
	flag.BoolVar(&trace, "trace", false, "log each accepted pack as it is rewritten")
	flag.Parse()

	var data []byte
	var err error
	if input == "" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	if err := validator.ValidateJSON(data); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed:\n%v\n", err)
		os.Exit(1)
	}

	var module ast.Module
	if err := json.Unmarshal(data, &module); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing JSON: %v\n", err)
		os.Exit(1)
	}

	gen := codegen.NewLLVMCodegen()
	llvmModule, err := gen.GenerateModule(&module)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Code generation failed: %v\n", err)
		os.Exit(1)
	}

	stats := vectorize.RunSLPWithOptions(llvmModule, trace)
	stats.Report()
}
