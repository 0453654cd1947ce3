// Package runner sorts a batch of documents with one compiled spec.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/theory/jsonpath"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jacoelho/jsort/internal/codec"
	"github.com/jacoelho/jsort/internal/config"
	"github.com/jacoelho/jsort/internal/diff"
	"github.com/jacoelho/jsort/internal/sortspec"
)

var (
	// ErrUnsorted is returned in check mode when an input would change.
	ErrUnsorted = errors.New("inputs are not sorted")
	// ErrFailed is returned when at least one input could not be processed.
	ErrFailed = errors.New("inputs failed")
	// ErrInvalidSelect reports a -select expression that does not parse.
	ErrInvalidSelect = errors.New("invalid select expression")
)

// Summary counts the outcome of a run.
type Summary struct {
	Processed int
	Changed   int
	Failed    int
}

// Runner applies one compiled spec to every configured input.
type Runner struct {
	config    *config.Config
	transform *sortspec.Transform
	selector  *jsonpath.Path
	logger    *zap.Logger

	input     io.Reader
	output    io.Writer
	errOutput io.Writer
	colored   bool
}

// New loads and compiles the spec named by cfg. Spec errors are returned
// before any input is read.
func New(cfg *config.Config, logger *zap.Logger) (*Runner, error) {
	transform, err := loadSpec(cfg)
	if err != nil {
		return nil, err
	}

	var selector *jsonpath.Path
	if cfg.Select != "" {
		selector, err = jsonpath.Parse(cfg.Select)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidSelect, cfg.Select, err)
		}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		config:    cfg,
		transform: transform,
		selector:  selector,
		logger:    logger.With(zap.String("run_id", uuid.NewString())),
		input:     os.Stdin,
		output:    os.Stdout,
		errOutput: os.Stderr,
	}, nil
}

func loadSpec(cfg *config.Config) (*sortspec.Transform, error) {
	data, err := os.ReadFile(cfg.SpecFile)
	if err != nil {
		return nil, fmt.Errorf("read spec: %w", err)
	}

	spec, err := codec.DecodeBytes(data, codec.FormatFromPath(cfg.SpecFile))
	if err != nil {
		return nil, fmt.Errorf("spec %s: %w", cfg.SpecFile, err)
	}

	var opts []sortspec.Option
	if cfg.PreserveShortLists {
		opts = append(opts, sortspec.WithShortListsPreserved())
	}

	transform, err := sortspec.New(spec, opts...)
	if err != nil {
		return nil, fmt.Errorf("spec %s: %w", cfg.SpecFile, err)
	}
	return transform, nil
}

// SetInput sets the reader used for the "-" input.
func (r *Runner) SetInput(reader io.Reader) {
	r.input = reader
}

// SetOutput sets the destination for sorted documents.
func (r *Runner) SetOutput(w io.Writer) {
	r.output = w
}

// SetErrorOutput sets the destination for check mode diffs.
func (r *Runner) SetErrorOutput(w io.Writer) {
	r.errOutput = w
}

// SetColor enables ANSI colors in check mode diffs.
func (r *Runner) SetColor(enabled bool) {
	r.colored = enabled
}

func (r *Runner) payloadWriter() io.Writer {
	if r.output == nil {
		return io.Discard
	}
	return r.output
}

func (r *Runner) errorWriter() io.Writer {
	if r.errOutput == nil {
		return io.Discard
	}
	return r.errOutput
}

// DumpSpec writes the compiled spec tree.
func (r *Runner) DumpSpec() {
	dumper := spew.ConfigState{
		Indent:                  "  ",
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		DisableMethods:          true,
		SortKeys:                true,
	}
	dumper.Fdump(r.payloadWriter(), r.transform)
}

// Run processes every input with at most cfg.Workers documents in flight.
// Results are reported in input order. A failed input does not stop the
// others.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	inputs := r.config.Inputs
	results := make([]result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Workers)

	for i, name := range inputs {
		g.Go(func() error {
			results[i] = r.process(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	var summary Summary
	for _, res := range results {
		r.report(res, &summary)
	}

	switch {
	case summary.Failed > 0:
		return summary, fmt.Errorf("%w: %d of %d", ErrFailed, summary.Failed, len(inputs))
	case r.config.Check && summary.Changed > 0:
		return summary, fmt.Errorf("%w: %d of %d", ErrUnsorted, summary.Changed, len(inputs))
	}
	return summary, nil
}

func (r *Runner) report(res result, summary *Summary) {
	if res.err != nil {
		summary.Failed++
		r.logger.Error("failed", zap.String("path", res.name), zap.Error(res.err))
		return
	}

	summary.Processed++
	if res.changed {
		summary.Changed++
	}
	r.logger.Info("processed",
		zap.String("path", res.name),
		zap.Bool("changed", res.changed),
		zap.Duration("duration", res.duration),
	)

	switch {
	case r.config.Check:
		if res.changed {
			fmt.Fprint(r.errorWriter(), diff.Unified(res.name, string(res.before), string(res.after), r.colored))
		}
	case r.config.Write:
	default:
		_, _ = r.payloadWriter().Write(res.output)
	}
}

type result struct {
	name     string
	before   []byte
	after    []byte
	output   []byte
	changed  bool
	duration time.Duration
	err      error
}

// process sorts one input. before and after are the document encoded in the
// output format ahead of and following the sort, so changes in layout alone
// never count as changes.
func (r *Runner) process(ctx context.Context, name string) (res result) {
	res.name = name
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	start := time.Now()
	defer func() { res.duration = time.Since(start) }()

	data, err := r.read(name)
	if err != nil {
		res.err = err
		return res
	}

	doc, err := codec.DecodeBytes(data, r.config.FormatFor(name))
	if err != nil {
		res.err = err
		return res
	}

	format := r.config.OutputFormatFor(name)
	if res.before, err = codec.EncodeBytes(doc, format); err != nil {
		res.err = err
		return res
	}

	if doc, err = r.transform.Apply(doc); err != nil {
		res.err = err
		return res
	}

	if res.after, err = codec.EncodeBytes(doc, format); err != nil {
		res.err = err
		return res
	}
	res.changed = !bytes.Equal(res.before, res.after)
	res.output = res.after

	if r.selector != nil {
		if res.output, err = r.project(doc, format); err != nil {
			res.err = err
			return res
		}
	}

	if r.config.Write && res.changed {
		res.err = writeBack(name, res.after)
	}
	return res
}

func (r *Runner) read(name string) ([]byte, error) {
	if name == config.Stdin {
		data, err := io.ReadAll(r.input)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeBack(name string, data []byte) error {
	info, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("write input: %w", err)
	}
	if err := os.WriteFile(name, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write input: %w", err)
	}
	return nil
}
