package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bamsammich/treecopy/internal/config"
	"github.com/bamsammich/treecopy/internal/engine"
	"github.com/bamsammich/treecopy/internal/event"
	"github.com/bamsammich/treecopy/internal/filter"
	"github.com/bamsammich/treecopy/internal/stats"
	"github.com/bamsammich/treecopy/internal/ui"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options collects every flag of the root command.
type options struct {
	chain       *filter.Chain
	filterFile  string
	renameFrom  string
	renameTo    string
	bwLimitStr  string
	logFile     string
	configFile  string
	concurrency int
	overwrite   bool
	expand      bool
	dot         bool
	junk        bool
	upper       bool
	debug       bool
	verify      bool
	quiet       bool
	verbose     bool
	showVersion bool
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{chain: filter.NewChain()}

	rootCmd := &cobra.Command{
		Use:   "treecopy [flags] <source> <destination>",
		Short: "Copy a file or directory tree with filtering, renaming and transforms",
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.ExactArgs(2)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "treecopy %s\n", version)
				return nil
			}
			return runCopy(cmd, opts, args[0], args[1], stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flags.BoolVarP(&opts.overwrite, "overwrite", "o", false, "replace existing destination entries")
	flags.BoolVarP(&opts.expand, "expand", "e", false, "follow symlinks and copy their targets")
	flags.BoolVar(&opts.dot, "dot", false, "copy entries whose name begins with a dot")
	flags.BoolVar(&opts.junk, "junk", false, "copy OS junk files (.DS_Store, Thumbs.db, ...)")
	flags.Var(&filterFlag{chain: opts.chain}, "exclude", "exclude paths matching PATTERN (repeatable)")
	flags.Var(&filterFlag{chain: opts.chain, include: true}, "include", "include paths matching PATTERN (repeatable)")
	flags.StringVar(&opts.filterFile, "filter-file", "", "read include/exclude rules from FILE")
	flags.StringVar(&opts.renameFrom, "rename-from", "", "replace this substring of every relative path")
	flags.StringVar(&opts.renameTo, "rename-to", "", "replacement for --rename-from")
	flags.BoolVar(&opts.upper, "upper", false, "upper-case ASCII letters in copied file contents")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", engine.DefaultConcurrency, "maximum entries copied at once")
	flags.BoolVar(&opts.debug, "debug", false, "log every copy event")
	flags.BoolVar(&opts.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress all output except errors")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "one line per entry and debug logging")
	flags.StringVar(&opts.bwLimitStr, "bwlimit", "", "limit read throughput (e.g. 10MB, 512K)")
	flags.StringVar(&opts.logFile, "log", "", "write structured JSON log to FILE")
	flags.StringVar(&opts.configFile, "config", "", "read defaults from FILE (.toml, .yaml or .yml)")
	rootCmd.MarkFlagsRequiredTogether("rename-from", "rename-to")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	rootCmd.AddCommand(newDocsCmd())
	return rootCmd
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: orchestrates config, logging, presenter, copy and verify
func runCopy(cmd *cobra.Command, opts *options, src, dst string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(opts.configFile)
	if err != nil {
		return err
	}
	applyConfigDefaults(cmd, cfg.Defaults, opts)

	for _, p := range cfg.Defaults.Exclude {
		if err := opts.chain.AddExclude(p); err != nil {
			return fmt.Errorf("config exclude: %w", err)
		}
	}
	for _, p := range cfg.Defaults.Include {
		if err := opts.chain.AddInclude(p); err != nil {
			return fmt.Errorf("config include: %w", err)
		}
	}
	if opts.filterFile != "" {
		if err := opts.chain.LoadFile(opts.filterFile); err != nil {
			return fmt.Errorf("load filter file: %w", err)
		}
	}

	if opts.concurrency < 0 {
		return fmt.Errorf("invalid --concurrency %d: must not be negative", opts.concurrency)
	}
	if opts.verify && opts.upper {
		return errors.New("--verify cannot check content changed by --upper")
	}

	var bwLimit int64
	if opts.bwLimitStr != "" {
		bwLimit, err = stats.ParseSize(opts.bwLimitStr)
		if err != nil {
			return fmt.Errorf("invalid --bwlimit: %w", err)
		}
		if bwLimit == 0 {
			return errors.New("invalid --bwlimit: must be positive")
		}
	}

	theme, err := ui.NewTheme(cfg.Theme)
	if err != nil {
		return fmt.Errorf("config theme: %w", err)
	}

	// Configure logging.
	logLevel := slog.LevelInfo
	switch {
	case opts.quiet:
		logLevel = slog.LevelWarn
	case opts.verbose || opts.debug:
		logLevel = slog.LevelDebug
	}
	var logHandler slog.Handler = slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel})
	var eventLog *slog.Logger
	if opts.logFile != "" {
		lf, lfErr := os.Create(opts.logFile)
		if lfErr != nil {
			return fmt.Errorf("open log file: %w", lfErr)
		}
		defer lf.Close()
		jsonHandler := slog.NewJSONHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logHandler = ui.NewMultiHandler(logHandler, jsonHandler)
		eventLog = slog.New(jsonHandler)
	}
	logger := slog.New(logHandler)

	// Set up context with signal handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := stats.NewCollector()
	engineOpts := engine.Options{
		Overwrite:   opts.overwrite,
		Expand:      opts.expand,
		Dot:         opts.dot,
		Junk:        opts.junk,
		Concurrency: opts.concurrency,
		Debug:       opts.debug,
		Logger:      logger,
		Stats:       collector,
		NoResults:   !opts.verify,
	}
	if !opts.chain.Empty() {
		engineOpts.Filter = opts.chain
	}
	if opts.renameFrom != "" {
		from, to := opts.renameFrom, opts.renameTo
		engineOpts.Rename = func(rel string) string { return strings.ReplaceAll(rel, from, to) }
	}
	if opts.upper {
		engineOpts.Transform = upperTransform
	}
	if bwLimit > 0 {
		engineOpts.Transform = engine.RateLimit(ctx, engine.NewBWLimiter(bwLimit), engineOpts.Transform)
	}

	isTTY, width := false, 0
	if f, ok := stderr.(*os.File); ok {
		isTTY, width = ui.Terminal(f)
	}
	presenter := ui.NewPresenter(ui.Config{
		Writer:    stdout,
		ErrWriter: stderr,
		Stats:     collector,
		Theme:     theme,
		DestRoot:  dst,
		Width:     width,
		IsTTY:     isTTY,
		Quiet:     opts.quiet,
		Verbose:   opts.verbose,
	})

	events := make(chan event.Event, 256)
	copier := engine.New(src, dst, engineOpts).OnAny(func(ev event.Event) {
		if eventLog != nil {
			logEvent(eventLog, ev)
		}
		events <- ev
	})

	var presenterErr error
	var presenterWg sync.WaitGroup
	presenterWg.Add(1)
	go func() {
		defer presenterWg.Done()
		presenterErr = presenter.Run(events)
	}()

	logger.Debug("starting copy", "src", src, "dst", dst, "concurrency", opts.concurrency,
		"overwrite", opts.overwrite, "expand", opts.expand)
	records, copyErr := copier.Run(ctx)
	close(events)
	presenterWg.Wait()
	if presenterErr != nil {
		fmt.Fprintf(stderr, "presenter: %v\n", presenterErr)
	}

	verifyFailed := false
	if copyErr == nil && opts.verify {
		result := engine.Verify(ctx, engine.VerifyConfig{Records: records, Stats: collector})
		for _, e := range result.Errors {
			fmt.Fprintf(stderr, "MISMATCH: %s (src %s, dst %s)\n", ui.StripRoot(dst, e.Dest), e.SrcHash, e.DstHash)
		}
		verifyFailed = result.Failed > 0
	}

	if !opts.quiet {
		if summary := presenter.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}

	if copyErr != nil {
		logger.Error("copy failed", "error", copyErr)
		if collector.Snapshot().Done() > 0 {
			return &exitError{code: 1} // partial failure
		}
		return &exitError{code: 2} // total failure
	}
	if verifyFailed {
		return &exitError{code: 1}
	}
	return nil
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("failed to load config", "path", config.Path(), "error", err)
		return config.Config{}, nil
	}
	return cfg, nil
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(cmd *cobra.Command, defaults config.DefaultsConfig, opts *options) {
	setBool := func(name string, dst *bool, val *bool) {
		if !cmd.Flags().Changed(name) && val != nil {
			*dst = *val
		}
	}
	setBool("overwrite", &opts.overwrite, defaults.Overwrite)
	setBool("expand", &opts.expand, defaults.Expand)
	setBool("dot", &opts.dot, defaults.Dot)
	setBool("junk", &opts.junk, defaults.Junk)
	setBool("verify", &opts.verify, defaults.Verify)

	if !cmd.Flags().Changed("concurrency") && defaults.Concurrency != nil {
		opts.concurrency = *defaults.Concurrency
	}
	if !cmd.Flags().Changed("bwlimit") && defaults.BWLimit != nil {
		opts.bwLimitStr = *defaults.BWLimit
	}
	if !cmd.Flags().Changed("filter-file") && defaults.FilterFile != nil {
		opts.filterFile = *defaults.FilterFile
	}
}

func logEvent(log *slog.Logger, ev event.Event) {
	attrs := []slog.Attr{
		slog.String("type", ev.Type.String()),
		slog.String("src", ev.Record.Src),
		slog.String("dest", ev.Record.Dest),
	}
	if ev.Record.Stats != nil {
		attrs = append(attrs, slog.Int64("size", ev.Record.Stats.Size()))
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.String("error", ev.Err.Error()))
	}
	log.LogAttrs(context.Background(), slog.LevelInfo, "treecopy.event", attrs...)
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
