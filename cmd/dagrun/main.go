// Command dagrun loads a declarative task file and runs it through the
// scheduler, reporting task lifecycle events to stderr (or wherever
// --log-path points) and exiting with a status code that distinguishes a
// setup problem from a task failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/arjuncodes/dagrunner/dag"
	"github.com/arjuncodes/dagrunner/dag/emit"
	"github.com/arjuncodes/dagrunner/dag/taskfile"
)

// version is set at build time via -ldflags, matching the teacher's
// reference-implementation version plumbing; it stays "dev" otherwise.
var version = "dev"

const (
	exitOK         = 0
	exitValidation = 1
	exitTaskFailed = 2
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("dagrun", flag.ContinueOnError)
	taskfilePath := fs.String("taskfile", "", "path to a declarative YAML task file (required)")
	logPath := fs.String("log-path", "", "file to write task lifecycle events to (default stderr)")
	logLevel := fs.String("log-level", "info", "minimum event severity to log: debug|info|warn|error")
	format := fs.String("format", "text", "log output format: text|json")
	useOtel := fs.Bool("otel", false, "report task lifecycle events as OpenTelemetry spans instead of log lines")
	showVersion := fs.Bool("version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return exitValidation
	}
	if *showVersion {
		fmt.Println(version)
		return exitOK
	}
	if *taskfilePath == "" {
		fmt.Fprintln(os.Stderr, "dagrun: --taskfile is required")
		return exitValidation
	}
	if *format != "text" && *format != "json" {
		fmt.Fprintf(os.Stderr, "dagrun: unknown --format %q, want text or json\n", *format)
		return exitValidation
	}

	data, err := os.ReadFile(*taskfilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dagrun: reading %s: %v\n", *taskfilePath, err)
		return exitValidation
	}

	tasks, err := taskfile.Parse(data, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dagrun: parsing %s: %v\n", *taskfilePath, err)
		return exitValidation
	}

	emitter, closeLog, err := buildEmitter(*logPath, *logLevel, *format, *useOtel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dagrun: %v\n", err)
		return exitValidation
	}
	defer closeLog()

	d := dag.New(dag.WithTasks(tasks), dag.WithEmitter(emitter))

	ok, err := d.Start(context.Background())
	_ = emitter.Flush(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "dagrun: %v\n", err)
		if isValidationError(err) {
			return exitValidation
		}
		return exitTaskFailed
	}
	if !ok {
		return exitTaskFailed
	}
	return exitOK
}

func isValidationError(err error) bool {
	var upErr *dag.UnknownPredecessorError
	return errors.Is(err, dag.ErrCycle) ||
		errors.Is(err, dag.ErrEmptyRun) ||
		errors.Is(err, dag.ErrEmptyAction) ||
		errors.Is(err, dag.ErrAlreadyStarted) ||
		errors.As(err, &upErr)
}

func buildEmitter(logPath, logLevel, format string, useOtel bool) (emit.Emitter, func(), error) {
	if useOtel {
		tp := sdktrace.NewTracerProvider()
		tracer := tp.Tracer("dagrunner")
		return emit.NewOtelEmitter(tracer), func() { _ = tp.Shutdown(context.Background()) }, nil
	}

	w := os.Stderr
	closer := func() {}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening --log-path %s: %w", logPath, err)
		}
		w = f
		closer = func() { _ = f.Close() }
	}

	le := emit.NewLogEmitter(w, format == "json")
	le.Threshold = emit.ParseLevel(logLevel)
	return le, closer, nil
}
