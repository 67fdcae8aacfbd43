package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/peterh/liner"

	lisp "genesis/lisp"
)

func main() {
	defaults := lisp.DefaultConfig()
	var (
		prelude = flag.String("prelude", "lisp_src/prelude.lisp", "file evaluated before anything else, empty to skip")
		expr    = flag.String("e", "", "evaluate the forms in this string and print the last result")
		heap    = flag.Int("heap", defaults.HeapWords, "words in each semispace")
		symbols = flag.Int("symbols", defaults.SymbolSlots, "symbol table capacity")
		globals = flag.Int("globals", defaults.RootFrameSlots, "binding capacity of the top level frame")
		frame   = flag.Int("frame", defaults.FrameSlots, "binding capacity of every other frame")
		depth   = flag.Int("depth", defaults.MaxDepth, "maximum nesting of evaluations")
		stress  = flag.Bool("stress-gc", false, "collect garbage before every allocation")
		trace   = flag.String("trace", "", "trace interpreter internals at this level: error, info or debug")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.New(os.Stderr, "", 0)
	cfg := lisp.Config{
		HeapWords:      *heap,
		SymbolSlots:    *symbols,
		RootFrameSlots: *globals,
		FrameSlots:     *frame,
		MaxDepth:       *depth,
		StressGC:       *stress,
		Output:         os.Stdout,
		Log:            logger,
	}

	if *trace != "" {
		tracer := gologadapter.New()
		tracer.SetTraceLevel(tracing.TraceLevelFromString(*trace))
		cfg.Trace = tracer
	}

	in, err := lisp.New(cfg)
	if err != nil {
		logger.Fatalf("error starting interpreter: %v", err)
	}

	if *prelude != "" {
		if _, err := in.Load(*prelude); err != nil {
			logger.Fatalf("error loading %v: %v", *prelude, err)
		}
	}

	switch {
	case *expr != "":
		v, err := in.EvalString(*expr)
		if err != nil {
			logger.Fatalf("error: %v", err)
		}
		fmt.Println(in.Print(v))
	case flag.NArg() > 0:
		if err := in.RunFile(flag.Arg(0), os.Stdout); err != nil {
			logger.Fatalf("error: %v", err)
		}
	default:
		ln := liner.NewLiner()
		ln.SetCtrlCAborts(true)
		err := in.Repl(ln, os.Stdout)
		ln.Close()
		if err != nil && !errors.Is(err, liner.ErrPromptAborted) {
			logger.Fatalf("error: %v", err)
		}
	}
}
