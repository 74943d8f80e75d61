package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	goruntime "runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lang-programming/lang-interpreter-sub001/pkg/driver"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/interpreter"
	"github.com/lang-programming/lang-interpreter-sub001/pkg/stdlib"
)

const cliToolVersion = "lang-cli " + interpreter.LangVersion

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return runPrograms(nil, stdout, stderr)
	}
	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stderr)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "run":
		return runPrograms(args[1:], stdout, stderr)
	case "check":
		return runCheck(args[1:], stdout, stderr)
	default:
		return runPrograms(args, stdout, stderr)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lang [run] [options] [program.yml ...] [-- args ...]")
	fmt.Fprintln(w, "  lang check [program.yml ...]")
	fmt.Fprintln(w, "  lang version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without program files the entries of the nearest lang.yml are run.")
}

// runOptions are the settings of one run, taken from lang.yml and then
// overridden by flags.
type runOptions struct {
	entries      []string
	args         []string
	warnings     bool
	maxCallDepth int
	translations map[string]string
	stdlib       bool
	jobs         int
}

func defaultRunOptions() runOptions {
	return runOptions{
		warnings:     true,
		maxCallDepth: driver.DefaultMaxCallDepth,
		stdlib:       true,
		jobs:         goruntime.GOMAXPROCS(0),
	}
}

func (o *runOptions) applyManifest(m *driver.Manifest) {
	o.entries = m.Entries
	o.args = m.Args
	o.warnings = m.Warnings
	o.maxCallDepth = m.MaxCallDepth
	o.translations = m.Translations
	o.stdlib = m.Stdlib
}

func splitProgramArgs(args []string) (before, after []string, found bool) {
	for idx, arg := range args {
		if arg == "--" {
			return args[:idx], args[idx+1:], true
		}
	}
	return args, nil, false
}

func parseRunOptions(args []string, stderr io.Writer) (runOptions, error) {
	args, programArgs, hasProgramArgs := splitProgramArgs(args)

	fs := flag.NewFlagSet("lang run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	manifestPath := fs.String("manifest", "", "path of the lang.yml to use")
	noWarnings := fs.Bool("no-warnings", false, "do not report warnings")
	maxCallDepth := fs.Int("max-call-depth", 0, "maximum function call depth")
	noStdlib := fs.Bool("no-stdlib", false, "do not install the native functions and the math module")
	jobs := fs.Int("jobs", 0, "number of programs run concurrently")
	if err := fs.Parse(args); err != nil {
		return runOptions{}, err
	}

	opts := defaultRunOptions()
	files := fs.Args()
	path := *manifestPath
	if path == "" && len(files) == 0 {
		found, err := driver.FindManifest(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				return runOptions{}, errors.New("lang run requires a program file or a lang.yml")
			}
			return runOptions{}, err
		}
		path = found
	}
	if path != "" {
		manifest, err := driver.LoadManifest(path)
		if err != nil {
			return runOptions{}, fmt.Errorf("failed to load manifest: %w", err)
		}
		opts.applyManifest(manifest)
	}
	if len(files) > 0 {
		opts.entries = files
	}
	if hasProgramArgs {
		opts.args = programArgs
	}
	if *noWarnings {
		opts.warnings = false
	}
	if *maxCallDepth > 0 {
		opts.maxCallDepth = *maxCallDepth
	}
	if *noStdlib {
		opts.stdlib = false
	}
	if *jobs > 0 {
		opts.jobs = *jobs
	}
	return opts, nil
}

func runPrograms(args []string, stdout, stderr io.Writer) int {
	opts, err := parseRunOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	programs, err := driver.LoadPrograms(opts.entries)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load program: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(stderr, opts.warnings)
	outputs := make([]bytes.Buffer, len(programs))
	var mu sync.Mutex
	failed := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for idx, program := range programs {
		idx, program := idx, program
		g.Go(func() error {
			err := execute(ctx, program, opts, slogReporter{logger: logger, program: program.Path}, &outputs[idx])
			if err == nil {
				return nil
			}
			mu.Lock()
			failed++
			mu.Unlock()
			var uncaught *interpreter.UncaughtError
			if !errors.As(err, &uncaught) {
				logger.Error(err.Error(), "program", program.Path)
			}
			return nil
		})
	}
	_ = g.Wait()

	for idx := range outputs {
		if _, err := outputs[idx].WriteTo(stdout); err != nil {
			fmt.Fprintf(stderr, "failed to write output: %v\n", err)
			return 1
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

// execute runs one program in its own interpreter. Interpreter instances are
// never shared between goroutines; only ForceStop crosses over.
func execute(ctx context.Context, program *driver.Program, opts runOptions, reporter interpreter.Reporter, out io.Writer) error {
	options := []interpreter.Option{
		interpreter.WithReporter(reporter),
		interpreter.WithWarnings(opts.warnings),
		interpreter.WithMaxCallDepth(opts.maxCallDepth),
		interpreter.WithSourcePath(program.Path),
		interpreter.WithStdout(out),
		interpreter.WithArgs(opts.args),
		interpreter.WithTranslations(opts.translations),
	}
	if opts.stdlib {
		options = append(options, interpreter.WithNatives(stdlib.Registry()))
	}
	interp := interpreter.New(options...)
	if opts.stdlib {
		if err := interp.LoadModule(stdlib.MathModule()); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			interp.ForceStop()
		case <-done:
		}
	}()

	_, err := interp.Interpret(program.Root)
	return err
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	files := args
	if len(files) == 0 {
		path, err := driver.FindManifest(".")
		if err != nil {
			fmt.Fprintf(stderr, "lang check requires a program file or a lang.yml: %v\n", err)
			return 1
		}
		manifest, err := driver.LoadManifest(path)
		if err != nil {
			fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
			return 1
		}
		files = manifest.Entries
	}
	status := 0
	for _, file := range files {
		program, err := driver.LoadProgram(file)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "ok %s (%d top-level nodes)\n", program.Path, len(program.Root.Nodes))
	}
	return status
}
