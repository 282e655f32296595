// Command gocheck-validate-trace reads a JSON-encoded counterexample trace
// and checks its assignment steps have the structural shape the rest of
// this module assumes, exiting non-zero with the formatted violation on the
// first one found.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tanagra/gocheck"
	"github.com/tanagra/gocheck/trace"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gocheck-validate-trace:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin *os.File, stderr *os.File) error {
	fs := flag.NewFlagSet("gocheck-validate-trace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputFile := fs.String("input", "", "path to a JSON trace file (default: stdin)")
	enabled := fs.Bool("validate-trace", true, "run the structural validator at all")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var raw []byte
	var err error
	if *inputFile != "" {
		raw, err = os.ReadFile(*inputFile)
	} else {
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		return fmt.Errorf("reading trace: %w", err)
	}

	steps, err := decodeTrace(raw)
	if err != nil {
		return fmt.Errorf("decoding trace: %w", err)
	}

	ns := gocheck.NewMapNamespace()
	logger := log.New(stderr, "", 0)
	if err := trace.CheckTraceAssumptions(steps, ns, *enabled, logger); err != nil {
		return err
	}
	return nil
}

type traceStepDoc struct {
	LHS string `json:"lhs"`
	RHS string `json:"rhs,omitempty"`
}

// decodeTrace parses a minimal JSON trace format: a flat array of steps,
// each naming its assignment target and (optionally) a symbol-shaped value.
// This is enough to exercise trace.CheckTraceAssumptions's symbol-identifier
// checks end to end without needing the full Expr algebra.
func decodeTrace(raw []byte) ([]trace.Step, error) {
	var docs []traceStepDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	steps := make([]trace.Step, len(docs))
	for i, d := range docs {
		steps[i] = trace.Step{
			LHS:   gocheck.NewSymbol(d.LHS, &gocheck.BoolType{}),
			Index: i,
		}
		if d.RHS != "" {
			steps[i].RHS = gocheck.NewSymbol(d.RHS, &gocheck.BoolType{})
		}
	}
	return steps, nil
}
