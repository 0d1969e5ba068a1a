// Command contents-demo boots a tree of scenes from a plan, switches scenes, and prints a trace of every lifecycle hook that ran.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/saylorsolutions/contents/contents"
	"github.com/saylorsolutions/contents/env"
	"github.com/saylorsolutions/contents/signalx"
	"github.com/saylorsolutions/contents/slogx"
	flag "github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	planFile string
	parallel bool
	switches int
	logLevel string
	logFile  string
	noTable  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	flags := flag.NewFlagSet("contents-demo", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.planFile, "plan", "p", "", "YAML plan file describing the scene tree, a built-in plan is used if not given")
	flags.BoolVar(&opts.parallel, "parallel", false, "Boots the top level scenes concurrently")
	flags.IntVarP(&opts.switches, "switch", "s", 1, "Number of scene switches to dispatch after boot")
	flags.StringVar(&opts.logLevel, "log-level", "", "Minimum log level (trace, debug, info, warn, error), overrides "+contents.EnvPrefix+"LOG_LEVEL")
	flags.StringVar(&opts.logFile, "log-file", "", "Also writes JSON logs to this file, rotated at 10MB")
	flags.BoolVar(&opts.noTable, "no-table", false, "Skips printing the lifecycle trace table")
	flags.Usage = func() {
		_, _ = fmt.Fprintf(stderr, "Usage: contents-demo [flags]\n\nFLAGS\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if opts.switches < 0 {
		return opts, fmt.Errorf("--switch must not be negative, got %d", opts.switches)
	}
	return opts, nil
}

// newLogger logs text to a terminal stderr, JSON otherwise, and also JSON to a size-rotated logFile if given.
func newLogger(level slog.Level, stderr io.Writer, logFile string) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(stderr) {
		handler = slog.NewTextHandler(stderr, opts)
	} else {
		handler = slog.NewJSONHandler(stderr, opts)
	}
	closer := func() error { return nil }
	if len(logFile) > 0 {
		rotated := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10,
			MaxBackups: 3,
		}
		handler = slogx.MergeHandlers(handler, slog.NewJSONHandler(rotated, opts))
		closer = rotated.Close
	}
	return slog.New(handler), closer
}

func run(args []string, stdout, stderr io.Writer) (err error) {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg := contents.ConfigFromEnv(env.Prefixed(contents.EnvPrefix))
	cfg.LogLevel = slogx.ParseLevel(opts.logLevel, cfg.LogLevel)
	cfg.ParallelBoot = cfg.ParallelBoot || opts.parallel

	plan := DefaultPlan()
	if len(opts.planFile) > 0 {
		plan, err = LoadPlanFile(opts.planFile)
		if err != nil {
			return err
		}
	}

	log, closeLog := newLogger(cfg.LogLevel, stderr, opts.logFile)
	defer func() {
		err = errors.Join(err, closeLog())
	}()

	ctx, stop := signalx.NotifyContext(context.Background(), true, os.Interrupt)
	defer stop()

	var failures atomic.Int32
	tr := newTracer()
	ctrl := contents.NewController(contents.WithConfig(cfg), contents.WithLogger(log))
	ctrl.Modules().Add(tr)
	ctrl.OnException(func(err error) bool {
		failures.Add(1)
		log.Error("Content failed", "error", err)
		return true
	})

	params := make([]contents.Param, len(plan.Scenes))
	for i, s := range plan.Scenes {
		params[i] = &sceneParam{Scene: s, Generation: 1}
	}
	log.Info("Booting scenes", "scenes", plan.Count(), "parallel", plan.Parallel || cfg.ParallelBoot)
	root, err := ctrl.BootRoot(ctx, contents.BootParam{Contents: params, Parallel: plan.Parallel})
	if err != nil {
		return errors.Join(fmt.Errorf("failed to boot: %w", err), ctrl.Shutdown(context.WithoutCancel(ctx)))
	}

	var switched int
	for i := 1; i <= opts.switches && ctx.Err() == nil; i++ {
		req := new(switchRequest)
		if !ctrl.Message(eventNext, req) {
			log.Warn("No scene responded to the switch request")
			break
		}
		if _, err := req.result.AwaitContext(ctx); err != nil {
			log.Warn("Scene switch failed", "switch", humanize.Ordinal(i), "error", err)
			break
		}
		switched = i
		log.Info("Switched scenes", "switch", humanize.Ordinal(i))
	}

	result, err := contents.Modal[tally](ctx, root, contents.Of[tallyContent](), nil)
	if err != nil {
		log.Warn("Failed to count scenes", "error", err)
	}

	log.Info("Shutting down")
	if err := ctrl.Shutdown(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	events := tr.Events()
	if !opts.noTable {
		renderTrace(stdout, events, isTerminal(stdout))
	}
	summary{
		Events:   len(events),
		Planned:  plan.Count(),
		Switches: switched,
		Failures: int(failures.Load()),
		Tally:    result,
	}.write(stdout)
	if ctx.Err() != nil {
		return errors.New("interrupted")
	}
	return nil
}
