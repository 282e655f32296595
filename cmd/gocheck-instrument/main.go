// Command gocheck-instrument reads a JSON-encoded model and an optional
// JSON options file, runs the safety-check instrumentation pass over it,
// and writes the instrumented model back out as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tanagra/gocheck"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gocheck-instrument:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin *os.File, stdout, stderr *os.File) error {
	fs := flag.NewFlagSet("gocheck-instrument", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := gocheck.DefaultOptions()
	optionsFile := fs.String("options", "", "path to a JSON Options file; its values override the flags below")
	inputFile := fs.String("input", "", "path to a JSON Model file (default: stdin)")
	outputFile := fs.String("output", "", "path to write the instrumented JSON Model (default: stdout)")

	fs.BoolVar(&opts.BoundsCheck, "bounds-check", opts.BoundsCheck, "check array/vector index bounds")
	fs.BoolVar(&opts.PointerCheck, "pointer-check", opts.PointerCheck, "check pointer validity before dereference")
	fs.BoolVar(&opts.MemoryLeakCheck, "memory-leak-check", opts.MemoryLeakCheck, "check for leaked dynamic allocations")
	fs.BoolVar(&opts.DivByZeroCheck, "div-by-zero-check", opts.DivByZeroCheck, "check divisor is nonzero")
	fs.BoolVar(&opts.SignedOverflowCheck, "signed-overflow-check", opts.SignedOverflowCheck, "check signed arithmetic overflow")
	fs.BoolVar(&opts.UnsignedOverflowCheck, "unsigned-overflow-check", opts.UnsignedOverflowCheck, "check unsigned arithmetic overflow")
	fs.BoolVar(&opts.ShiftCheck, "undefined-shift-check", opts.ShiftCheck, "check shift distance and sign-bit preservation")
	fs.BoolVar(&opts.FloatOverflowCheck, "float-overflow-check", opts.FloatOverflowCheck, "check floating-point overflow")
	fs.BoolVar(&opts.NaNCheck, "nan-check", opts.NaNCheck, "check for NaN results")
	fs.BoolVar(&opts.ConversionCheck, "conversion-check", opts.ConversionCheck, "check conversions preserve value")
	fs.BoolVar(&opts.PointerOverflowCheck, "pointer-overflow-check", opts.PointerOverflowCheck, "check pointer arithmetic stays in-object")
	fs.BoolVar(&opts.Simplify, "simplify", opts.Simplify, "simplify generated obligations before emitting them")
	fs.BoolVar(&opts.RetainTrivial, "retain-trivial", opts.RetainTrivial, "keep obligations that simplify to true")
	fs.BoolVar(&opts.AssertToAssume, "assert-to-assume", opts.AssertToAssume, "emit generated obligations as assumes instead of asserts")
	fs.BoolVar(&opts.GenerateAssertions, "assertions", opts.GenerateAssertions, "generate safety-check assertions at all")
	fs.BoolVar(&opts.UserAssertionsEnabled, "built-in-assertions", opts.UserAssertionsEnabled, "keep the model's own user-written assertions")
	fs.BoolVar(&opts.GenerateAssumptions, "assumptions", opts.GenerateAssumptions, "also assume each generated obligation once checked")
	var errorLabels stringList
	fs.Var(&errorLabels, "error-label", "a label name that marks an instruction unreachable (repeatable)")
	standard := fs.String("std", "c11", "language standard: c99, c11, cpp14, or managed-reference")

	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.ErrorLabels = errorLabels
	opts.Standard = parseStandard(*standard)

	if *optionsFile != "" {
		raw, err := os.ReadFile(*optionsFile)
		if err != nil {
			return fmt.Errorf("reading options file: %w", err)
		}
		if err := json.Unmarshal(raw, opts); err != nil {
			return fmt.Errorf("parsing options file: %w", err)
		}
	}

	var input []byte
	var err error
	if *inputFile != "" {
		input, err = os.ReadFile(*inputFile)
	} else {
		input, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("reading model: %w", err)
	}

	model, err := gocheck.DecodeModel(input)
	if err != nil {
		return fmt.Errorf("decoding model: %w", err)
	}

	ns := gocheck.NewMapNamespace()
	if err := gocheck.Check(model, opts, ns, nil, gocheck.DefaultSizeOf); err != nil {
		return fmt.Errorf("instrumenting model: %w", err)
	}

	out, err := gocheck.EncodeModel(model)
	if err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	if *outputFile != "" {
		return os.WriteFile(*outputFile, out, 0o644)
	}
	_, err = stdout.Write(out)
	return err
}

func parseStandard(s string) gocheck.LanguageStandard {
	switch s {
	case "c99":
		return gocheck.StandardC99
	case "cpp14":
		return gocheck.StandardCPP14
	case "managed-reference":
		return gocheck.StandardManagedReference
	default:
		return gocheck.StandardC11
	}
}

// stringList implements flag.Value to collect a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
