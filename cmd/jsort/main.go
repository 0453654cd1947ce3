package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/jacoelho/jsort/internal/config"
	"github.com/jacoelho/jsort/internal/exit"
	"github.com/jacoelho/jsort/internal/logging"
	"github.com/jacoelho/jsort/internal/runner"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Parse(args)
	if err != nil {
		if errors.Is(err, config.ErrHelp) {
			return finish(exit.Success(stdout, config.Usage()+"\n"))
		}
		return finish(exit.Errorf(stderr, "Error: %v\n\n%s\n", err, config.Usage()))
	}

	logger, err := logging.New(cfg.Logging, stderr)
	if err != nil {
		return finish(exit.Errorf(stderr, "Error: %v\n", err))
	}
	defer func() { _ = logger.Sync() }()

	r, err := runner.New(cfg, logger)
	if err != nil {
		return finish(exit.Errorf(stderr, "Error: %v\n", err))
	}
	r.SetInput(stdin)
	r.SetOutput(stdout)
	r.SetErrorOutput(stderr)
	r.SetColor(colorEnabled(cfg.Color, stderr))

	if cfg.DumpSpec {
		r.DumpSpec()
		return exit.CodeOK
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, err = r.Run(ctx)
	switch {
	case err == nil:
		return exit.CodeOK
	case errors.Is(err, runner.ErrUnsorted):
		return finish(exit.Unsorted(stderr, ""))
	default:
		return finish(exit.Errorf(stderr, "Error: %v\n", err))
	}
}

func finish(result *exit.Result) int {
	result.Print()
	return result.ExitCode
}

func colorEnabled(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
