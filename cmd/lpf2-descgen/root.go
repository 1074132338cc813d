package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lpf2-protocol/lpf2-go/pkg/descgen"
	"github.com/lpf2-protocol/lpf2-go/pkg/dump"
	"github.com/lpf2-protocol/lpf2-go/pkg/log"
	"github.com/lpf2-protocol/lpf2-go/pkg/version"
)

const (
	exitSuccess = 0
	exitError   = 1
)

// usageError marks errors that should be followed by the usage text.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// flags holds the parsed command line.
type flags struct {
	configPath string
	target     string
	output     string
	goPackage  string
	tracePath  string
	verbose    bool
}

// run executes the command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return exitError
	}
	return exitSuccess
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "lpf2-descgen [flags] <dump.txt>",
		Short: "Generate LPF2 device descriptors from a device dump",
		Long: `lpf2-descgen reads a text dump of LPF2 devices and writes one descriptor
per device. The default target is a C++ table; --target go writes Go
declarations with a Register function and --target yaml writes the parsed
records.`,
		Version: version.Full(),
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.generate(cmd.Flags(), args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	fs := cmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "YAML file overriding generated names and format tags")
	fs.StringVar(&f.target, "target", string(descgen.TargetCPP), "output target: cpp, go or yaml")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&f.goPackage, "go-package", "", "package name for --target go (default: descriptors)")
	fs.StringVar(&f.tracePath, "trace", "", "append a CBOR pipeline trace to this file")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every pipeline step to stderr")

	return cmd
}

// options resolves defaults, then the config file, then explicit flags.
func (f *flags) options(fs *pflag.FlagSet) (descgen.Options, error) {
	opts := descgen.DefaultOptions()
	if f.configPath != "" {
		var err error
		if opts, err = descgen.LoadOptions(f.configPath); err != nil {
			return descgen.Options{}, err
		}
	}

	if fs.Changed("target") {
		t, err := descgen.ParseTarget(f.target)
		if err != nil {
			return descgen.Options{}, err
		}
		opts.Target = t
	}
	if fs.Changed("go-package") {
		opts.GoPackage = f.goPackage
	}

	if err := opts.Validate(); err != nil {
		return descgen.Options{}, err
	}
	return opts, nil
}

func (f *flags) generate(fs *pflag.FlagSet, path string, stdout, stderr io.Writer) error {
	opts, err := f.options(fs)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	runID := uuid.NewString()

	var console, file log.Logger
	if f.verbose {
		console = log.NewSlogAdapter(logger)
	}
	if f.tracePath != "" {
		fl, err := log.NewFileLogger(f.tracePath, runID, path)
		if err != nil {
			return fmt.Errorf("opening trace: %w", err)
		}
		defer fl.Close()
		file = fl
	}
	tracer := log.Combine(console, file)

	parser := &dump.Parser{Logger: tracer, RunID: runID}
	devices, err := parser.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	var w io.Writer = stdout
	if f.output != "" {
		out, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer out.Close()
		w = out
	}

	emitter := descgen.NewEmitter(opts)
	emitter.Source = filepath.Base(path)
	emitter.Logger = tracer
	emitter.RunID = runID

	if err := emitter.Emit(w, devices); err != nil {
		return fmt.Errorf("generating %s: %w", opts.Target, err)
	}

	logger.Debug("generated descriptors",
		"run_id", runID,
		"input", path,
		"target", string(opts.Target),
		"devices", len(devices),
	)
	return nil
}
