// Package main implements the Tiny compiler entry point.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/you-not-fish/tiny/internal/bytecode"
	"github.com/you-not-fish/tiny/internal/compile"
	"github.com/you-not-fish/tiny/internal/syntax"
	"github.com/you-not-fish/tiny/internal/vm"
)

// Compiler flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitTree   = flag.Bool("emit-tree", false, "Output the walked expression tree")
	emitCode   = flag.Bool("emit-code", false, "Output bytecode listing")
	verify     = flag.Bool("verify", false, "Verify bytecode before running")
	expr       = flag.String("e", "", "Program text to use instead of a file")
	gas        = flag.Int("gas", 0, "Instruction limit for evaluation (0 = unlimited)")
	version    = flag.Bool("version", false, "Print version")
	trace      = flag.Bool("trace", false, "Output timing trace")
)

// Version information
const Version = "0.1.0-dev"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Tiny Compiler %s\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: tinyc [options] <file.tiny>\n")
		fmt.Fprintf(os.Stderr, "       tinyc [options] -e '<program>'\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("tinyc version %s\n", Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	src, err := loadSource(*expr, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintln(os.Stderr, "usage: tinyc [options] <file.tiny>")
		os.Exit(1)
	}

	// Handle -emit-tokens
	if *emitTokens {
		os.Exit(runEmitTokens(src))
	}

	// Handle -emit-tree
	if *emitTree {
		os.Exit(runEmitTree(src))
	}

	// Handle -emit-code
	if *emitCode {
		os.Exit(runEmitCode(src))
	}

	os.Exit(runProgram(src))
}

// loadSource returns the program named on the command line, or the
// inline text given with -e.
func loadSource(inline string, args []string) (*syntax.Source, error) {
	if inline != "" {
		return syntax.NewSource("<expr>", inline), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no input file")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return syntax.ReadSource(args[0], f)
}

// runEmitTokens scans the input and prints all tokens with positions.
func runEmitTokens(src *syntax.Source) int {
	s := syntax.NewScanner(src)

	// Print header
	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	for s.Next() {
		tok := s.Token()
		fmt.Printf("%-20s %-12s %s\n", s.Pos(), tok.Kind, formatLiteral(s.Text()))
	}
	return 0
}

// formatLiteral quotes a token's text for display, so delimiters and
// control characters stay visible.
func formatLiteral(lit string) string {
	return strconv.Quote(lit)
}

// runEmitTree walks the input and prints the event stream as an
// indented expression tree.
func runEmitTree(src *syntax.Source) int {
	if err := syntax.Trace(os.Stdout, src); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// compileSource compiles src, reporting errors and timing on stderr.
func compileSource(src *syntax.Source) (*compile.Program, bool) {
	start := time.Now()
	prog, err := compile.Build(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, false
	}
	if *trace {
		fmt.Fprintf(os.Stderr, "compile finished in %.2fms (%d functions)\n", millis(time.Since(start)), len(prog.Funcs))
	}

	if *verify {
		for _, fn := range prog.Funcs {
			if err := bytecode.Verify(fn); err != nil {
				fmt.Fprintf(os.Stderr, "bytecode verification failed for %s:\n%v\n", fn.Name, err)
				return nil, false
			}
		}
	}
	return prog, true
}

// runEmitCode compiles the input and prints the listing of every function.
func runEmitCode(src *syntax.Source) int {
	prog, ok := compileSource(src)
	if !ok {
		return 1
	}
	bytecode.FprintAll(os.Stdout, prog.Funcs)
	return 0
}

// runProgram compiles and evaluates the input, printing its result.
func runProgram(src *syntax.Source) int {
	if *trace {
		if err := syntax.Trace(os.Stderr, src); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	prog, ok := compileSource(src)
	if !ok {
		return 1
	}

	m := vm.Machine{Gas: *gas}
	start := time.Now()
	result, err := m.Run(prog.Main)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", errorPos(src, err), err)
		return 1
	}

	fmt.Printf("Eval finished in %.2fms\n", millis(elapsed))
	fmt.Printf("Result: %s\n", bytecode.FormatValue(result))
	if *trace {
		fmt.Fprintf(os.Stderr, "executed %d instructions\n", m.Steps())
	}
	return 0
}

// errorPos returns the source position of the construct a runtime error
// was raised in, or the start of the source if it is unknown.
func errorPos(src *syntax.Source, err error) syntax.Pos {
	var rerr *vm.RuntimeError
	if errors.As(err, &rerr) && rerr.HasSpan {
		return src.PosAt(rerr.Section.Offset)
	}
	return src.PosAt(0)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
