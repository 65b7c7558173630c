package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
	e32 "github.com/wanglei-coder/e32image"
	"github.com/xyproto/env/v2"
)

var (
	verbose     bool
	analyzeOnly bool
)

func init() {
	flag.BoolVar(&verbose, "v", env.Bool("E32PATCH_VERBOSE"), "Print header analysis and progress")
	flag.BoolVar(&analyzeOnly, "analyze", false, "Print header analysis and imports, do not patch")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-v] <input> <output>\n       %s -analyze <input>\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
}

func run(input, output string, opts e32.PatchOptions) error {
	f, err := e32.NewFile(input)
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("read %d bytes from %s", f.GetSize(), input)
	}

	if verbose || analyzeOnly {
		fmt.Print(f.Analyze())
		for _, o := range opts.SortedOrdinals() {
			log.Printf("ordinal %d -> %d", o, opts.Ordinals[o])
		}
	}
	if analyzeOnly {
		blocks, err := f.Imports()
		if errors.Is(err, e32.ErrNoImports) {
			fmt.Println("no imports")
			return nil
		}
		if err != nil {
			return err
		}
		for _, b := range blocks {
			fmt.Printf("%#08x %-32s %d imports\n", b.Offset, b.Name, len(b.Entries))
		}
		return nil
	}

	if verbose {
		log.Printf("searching %d imported DLL(s) for %s", f.DllRefTableCount, opts.TargetDLL)
	}
	result, err := f.Patch(opts)
	if err != nil {
		return err
	}

	if !result.Found {
		log.Printf("%s not imported, writing image unchanged", opts.TargetDLL)
	} else if verbose {
		log.Printf("found %s with %d imports", result.Block.Name, len(result.Block.Entries))
	}
	for _, oob := range result.OutOfBounds {
		log.Printf("warning: entry %d at %#x: ordinal location %#x is out of bounds", oob.Entry, oob.EntryOffset, oob.Location)
	}
	if verbose {
		for _, r := range result.Rewrites {
			log.Printf("entry %d at %#x: %#08x -> %#08x", r.Entry, r.Location, r.Old, r.New)
		}
	}

	if err := f.Save(output); err != nil {
		return err
	}
	log.Printf("saved %s (%d ordinals rewritten)", output, len(result.Rewrites))
	return nil
}

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("e32patch: ")

	nargs := 2
	if analyzeOnly {
		nargs = 1
	}
	if flag.NArg() != nargs {
		flag.Usage()
		os.Exit(2)
	}

	opts := e32.DefaultPatchOptions()
	opts.TargetDLL = strings.ToLower(env.Str("E32PATCH_TARGET_DLL", e32.DefaultTargetDLL))

	if err := run(flag.Arg(0), flag.Arg(1), opts); err != nil {
		log.Fatal(err)
	}
}
