package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/jacoelho/jsort/internal/codec"
	"github.com/jacoelho/jsort/internal/logging"
)

// Stdin is the input name that reads a single document from standard input.
const Stdin = "-"

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrHelp             = errors.New("help requested")
	ErrNoSpec           = errors.New("-spec is required")
	ErrNoInputs         = errors.New("-w requires input files")
	ErrInvalidFormat    = errors.New("format must be one of: auto, json, yaml")
	ErrInvalidOutput    = errors.New("output format must be one of: same, json, yaml")
	ErrInvalidColor     = errors.New("color must be one of: auto, always, never")
	ErrInvalidWorkers   = errors.New("-workers must be at least 1")
	ErrConflictingModes = errors.New("conflicting modes")
	ErrDuplicateStdin   = errors.New("standard input \"-\" can only be given once")
)

// ColorMode controls ANSI colors in check mode diffs.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config represents the complete configuration for the jsort tool.
type Config struct {
	SpecFile string
	Inputs   []string

	// InputFormat is empty when the format is picked per file from its
	// extension. OutputFormat is empty when output keeps the input format.
	InputFormat  codec.Format
	OutputFormat codec.Format

	Write              bool
	Check              bool
	Select             string
	Workers            int
	PreserveShortLists bool
	DumpSpec           bool
	Color              ColorMode

	Logging logging.Config
}

// FormatFor returns the format used to decode input name.
func (c *Config) FormatFor(name string) codec.Format {
	if c.InputFormat != "" {
		return c.InputFormat
	}
	return codec.FormatFromPath(name)
}

// OutputFormatFor returns the format used to encode the result of name.
func (c *Config) OutputFormatFor(name string) codec.Format {
	if c.OutputFormat != "" {
		return c.OutputFormat
	}
	return c.FormatFor(name)
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.SpecFile == "" {
		return ErrNoSpec
	}
	if _, err := os.Stat(c.SpecFile); err != nil {
		return fmt.Errorf("spec file not accessible: %w", err)
	}

	if c.Workers < 1 {
		return fmt.Errorf("%w, got: %d", ErrInvalidWorkers, c.Workers)
	}

	if c.Write && c.Check {
		return fmt.Errorf("%w: -w and -check", ErrConflictingModes)
	}
	if c.Write && c.Select != "" {
		return fmt.Errorf("%w: -w and -select", ErrConflictingModes)
	}

	var stdin bool
	for _, input := range c.Inputs {
		if input == Stdin {
			if c.Write {
				return ErrNoInputs
			}
			if stdin {
				return ErrDuplicateStdin
			}
			stdin = true
			continue
		}
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("input file not accessible: %w", err)
		}
	}

	return c.Logging.Validate()
}

// Parse parses and validates CLI arguments.
func Parse(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, ErrNoArguments
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	defaults := logging.DefaultConfig()

	var (
		spec         = fs.String("spec", "", "Path to the sort spec, JSON or YAML")
		inputFormat  = fs.String("format", "auto", "Input format: auto, json or yaml")
		outputFormat = fs.String("output-format", "same", "Output format: same, json or yaml")
		write        = fs.Bool("w", false, "Write results back to the input files")
		check        = fs.Bool("check", false, "Report inputs that are not sorted")
		selectExpr   = fs.String("select", "", "JSONPath expression applied to each sorted document")
		workers      = fs.Int("workers", runtime.GOMAXPROCS(0), "Number of documents processed concurrently")
		preserve     = fs.Bool("preserve-short-lists", false, "Keep matched lists with fewer than two elements")
		dumpSpec     = fs.Bool("dump-spec", false, "Print the compiled spec and exit")
		logLevel     = fs.String("log-level", defaults.Level, "Log level: debug, info, warn or error")
		logFormat    = fs.String("log-format", defaults.Format, "Log format: json or console")
		colorMode    = fs.String("color", string(ColorAuto), "Colored diffs: auto, always or never")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, ErrHelp
		}
		return nil, fmt.Errorf("parse arguments: %w", err)
	}

	in, err := parseInputFormat(*inputFormat)
	if err != nil {
		return nil, err
	}
	out, err := parseOutputFormat(*outputFormat)
	if err != nil {
		return nil, err
	}
	color, err := parseColorMode(*colorMode)
	if err != nil {
		return nil, err
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{Stdin}
	}

	cfg := &Config{
		SpecFile:           *spec,
		Inputs:             inputs,
		InputFormat:        in,
		OutputFormat:       out,
		Write:              *write,
		Check:              *check,
		Select:             *selectExpr,
		Workers:            *workers,
		PreserveShortLists: *preserve,
		DumpSpec:           *dumpSpec,
		Color:              color,
		Logging: logging.Config{
			Level:  *logLevel,
			Format: *logFormat,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseInputFormat(input string) (codec.Format, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(input)); normalized {
	case "", "auto":
		return "", nil
	default:
		f, err := codec.ParseFormat(normalized)
		if err != nil {
			return "", fmt.Errorf("%w, got: %s", ErrInvalidFormat, input)
		}
		return f, nil
	}
}

func parseOutputFormat(input string) (codec.Format, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(input)); normalized {
	case "", "same":
		return "", nil
	default:
		f, err := codec.ParseFormat(normalized)
		if err != nil {
			return "", fmt.Errorf("%w, got: %s", ErrInvalidOutput, input)
		}
		return f, nil
	}
}

func parseColorMode(input string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(input))); mode {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", fmt.Errorf("%w, got: %s", ErrInvalidColor, input)
	}
}

// Usage returns command usage text.
func Usage() string {
	return `jsort - sort lists inside JSON and YAML documents

Usage: jsort -spec FILE [options] [file1] [file2] ...

Reads standard input when no file is given, or when a file is "-".

Options:
  -spec FILE               Sort spec, JSON or YAML (required)
  -format FORMAT           Input format: auto, json or yaml (default: auto)
  -output-format FORMAT    Output format: same, json or yaml (default: same)
  -w                       Write results back to the input files
  -check                   Print a diff for every input that is not sorted and exit with status 2
  -select EXPR             JSONPath expression applied to each sorted document
  -workers N               Number of documents processed concurrently (default: number of CPUs)
  -preserve-short-lists    Keep matched lists with fewer than two elements instead of replacing them with null
  -dump-spec               Print the compiled spec and exit
  -log-level LEVEL         debug, info, warn or error (default: info)
  -log-format FORMAT       json or console (default: console)
  -color MODE              Colored diffs: auto, always or never (default: auto)
  -h, --help               Show this help message

Examples:
  jsort -spec spec.json data.json                  # Print the sorted document
  jsort -spec spec.yaml -w a.yaml b.yaml           # Sort files in place
  jsort -spec spec.json -check data/*.json         # Fail when a file is not sorted
  cat data.json | jsort -spec spec.json -select '$.items[0]'`
}
