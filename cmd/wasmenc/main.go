package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/wasm-encoder/component"
	"github.com/wippyai/wasm-encoder/errors"
	"github.com/wippyai/wasm-encoder/manifest"
	"github.com/wippyai/wasm-encoder/wasm"
)

func main() {
	os.Exit(realMain(os.Args[1:], os.Stderr))
}

// realMain returns the exit code so deferred calls run before exit.
func realMain(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("wasmenc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		manifestFile = fs.String("manifest", "", "Path to module manifest (.toml, .yaml)")
		outFile      = fs.String("o", "", "Write the module to this file")
		check        = fs.Bool("check", false, "Compile and instantiate the module with wazero")
		interactive  = fs.Bool("i", false, "Browse sections in a TUI")
		verbose      = fs.Bool("v", false, "Debug logging to stderr")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *manifestFile == "" {
		fmt.Fprintln(stderr, "Usage: wasmenc -manifest <module.toml> [-o out.wasm] [-check] [-v]")
		fmt.Fprintln(stderr, "       wasmenc -manifest <module.toml> -i  (interactive mode)")
		return 1
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		defer logger.Sync()
		wasm.SetLogger(logger.Named("wasm"))
		component.SetLogger(logger.Named("component"))
		manifest.SetLogger(logger.Named("manifest"))
	}

	if err := run(*manifestFile, *outFile, *check, *interactive); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func run(manifestFile, outFile string, checkModule, interactive bool) error {
	ctx := context.Background()

	m, err := manifest.Load(manifestFile)
	if err != nil {
		return err
	}
	res, err := manifest.Build(ctx, m, filepath.Dir(manifestFile))
	if err != nil {
		return err
	}

	if checkModule {
		if err := check(ctx, res.Bytes, os.Stderr); err != nil {
			return err
		}
	}

	if interactive {
		return runInteractive(manifestFile, res)
	}

	switch {
	case outFile != "":
		if err := os.WriteFile(outFile, res.Bytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outFile, err)
		}
	case term.IsTerminal(int(os.Stdout.Fd())):
		// Binary on a terminal is noise; show the layout instead.
		summary(os.Stdout, res)
	default:
		if _, err := os.Stdout.Write(res.Bytes); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}
	return nil
}

// summary prints one line per section.
func summary(w io.Writer, res *manifest.Result) {
	fmt.Fprintf(w, "Module: %d bytes, %d sections\n", len(res.Bytes), len(res.Sections))
	for _, s := range res.Sections {
		fmt.Fprintf(w, "  %-10s id=%-2d offset=0x%06x size=%d\n", s.Name, byte(s.ID), s.Offset, s.Size)
	}
}

// check compiles and instantiates bin with wazero and reports its exported
// memories.
func check(ctx context.Context, bin []byte, w io.Writer) error {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		return errors.Wrap(errors.PhaseCheck, errors.KindInvalidInput, err, "compile module")
	}
	defer compiled.Close(ctx)

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return errors.Wrap(errors.PhaseCheck, errors.KindInvalidInput, err, "instantiate module")
	}
	defer mod.Close(ctx)

	mems := compiled.ExportedMemories()
	names := make([]string, 0, len(mems))
	for name := range mems {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "Check: ok, %d exported memories\n", len(names))
	for _, name := range names {
		def := mems[name]
		maxPages := "none"
		if v, ok := def.Max(); ok {
			maxPages = fmt.Sprint(v)
		}
		size := uint32(0)
		if mem := mod.ExportedMemory(name); mem != nil {
			size = mem.Size()
		}
		fmt.Fprintf(w, "  %s: min=%d max=%s size=%d bytes\n", name, def.Min(), maxPages, size)
	}
	return nil
}
