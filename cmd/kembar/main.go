// Package main is the kembar CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kembar/internal/cli"
	"github.com/hyperjump/kembar/internal/config"
	"github.com/hyperjump/kembar/internal/extract"
	"github.com/hyperjump/kembar/internal/fileid"
	"github.com/hyperjump/kembar/internal/models"
	"github.com/hyperjump/kembar/internal/runner"
	"github.com/hyperjump/kembar/internal/server"
	"github.com/hyperjump/kembar/internal/storage"
	"github.com/hyperjump/kembar/internal/validator"
	"github.com/hyperjump/kembar/internal/watcher"
	"github.com/hyperjump/kembar/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kembar/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used.
// A missing default config yields the built-in defaults so one-shot checks work without
// any setup. Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "check":
		os.Exit(runCheck(os.Args[2:], os.Stdout))
	case "runs":
		os.Exit(runRuns(os.Args[2:], os.Stdout))
	case "server":
		runServer()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("kembar version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// argsReorder moves flags given after positional arguments to the front so
// "kembar check ./content --output json" parses like the flags-first form.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// contentDirs returns the directories named on the command line, or the configured ones.
func contentDirs(args []string, cfg *config.Config) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Content.Directories
}

// newValidator builds the uniqueness validator from config with an optional severity override.
func newValidator(cfg *config.Config, severity string, logger *zap.Logger) (*validator.Uniqueness, error) {
	vcfg := cfg.Validator
	if severity != "" {
		vcfg.Severity = models.Severity(severity)
	}
	return validator.NewUniqueness(vcfg, validator.WithLogger(logger))
}

func runCheck(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	parallel := fs.Bool("parallel", false, "validate each category in its own lane")
	severity := fs.String("severity", "", "severity of similarity issues: warning or error (default from config)")
	noStore := fs.Bool("no-store", false, "do not persist the report")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(argsReorder(args)); err != nil {
		return 2
	}

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger, err := utils.NewCLILogger(cfg.Debug || *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	dirs := contentDirs(fs.Args(), cfg)
	if len(dirs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: kembar check [flags] <dir>...  (or set content.directories in config)")
		return 2
	}

	v, err := newValidator(cfg, *severity, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid validator config: %v\n", err)
		return 2
	}
	opts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithExtensions(cfg.Content.Extensions),
		runner.WithRecursive(cfg.Content.RecursiveOrDefault()),
		runner.WithParallel(cfg.Content.Parallel || *parallel),
		runner.WithClearCache(cfg.Content.ClearCachePerRunOrDefault()),
	}
	if !*noStore {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Warn("report storage unavailable, results will not be stored", zap.String("path", cfg.Storage.DatabasePath), zap.Error(err))
		} else {
			defer store.Close()
			opts = append(opts, runner.WithStorage(store))
		}
	}
	run := runner.New(v, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := false
	for _, dir := range dirs {
		report, err := run.Run(ctx, dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Check failed for %s: %v\n", dir, err)
			return 1
		}
		if err := cli.WriteReport(stdout, report, format); err != nil {
			fmt.Fprintf(os.Stderr, "Write report: %v\n", err)
			return 1
		}
		if report.Run.Summary.Failed > 0 {
			failed = true
		}
	}
	if failed {
		return 1
	}
	return 0
}

func runRuns(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	limit := fs.Int("limit", 20, "number of runs to list")
	offset := fs.Int("offset", 0, "number of runs to skip")
	output := fs.String("output", "text", "output format: text or json")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		return 1
	}
	defer store.Close()

	runs, err := store.ListRuns(context.Background(), *offset, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "List runs failed: %v\n", err)
		return 1
	}
	if err := cli.WriteRuns(stdout, runs, format); err != nil {
		fmt.Fprintf(os.Stderr, "Write runs: %v\n", err)
		return 1
	}
	return 0
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (per-record validation details)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	v, err := newValidator(cfg, "", logger)
	if err != nil {
		logger.Fatal("Invalid validator config", zap.Error(err))
	}
	run := runner.New(v,
		runner.WithLogger(logger),
		runner.WithStorage(store),
		runner.WithExtensions(cfg.Content.Extensions),
		runner.WithRecursive(cfg.Content.RecursiveOrDefault()),
		runner.WithParallel(cfg.Content.Parallel),
		runner.WithClearCache(cfg.Content.ClearCachePerRunOrDefault()),
	)

	srv := server.NewServer(v, run, store, &cfg.Server, cfg.Storage.DatabasePath, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func runWatch() {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	severity := fs.String("severity", "", "severity of similarity issues: warning or error (default from config)")
	noStore := fs.Bool("no-store", false, "do not persist results")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(argsReorder(os.Args[2:]))

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewCLILogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dirs := contentDirs(fs.Args(), cfg)
	if len(dirs) == 0 {
		fmt.Println("Usage: kembar watch [flags] <dir>...  (or set content.directories in config)")
		os.Exit(2)
	}
	v, err := newValidator(cfg, *severity, logger)
	if err != nil {
		fmt.Printf("Invalid validator config: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := newWatchHandler(ctx, v, os.Stdout, format, logger)
	if !*noStore {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			logger.Warn("report storage unavailable, results will not be stored", zap.String("path", cfg.Storage.DatabasePath), zap.Error(err))
		} else {
			defer store.Close()
			if err := handler.record(store, strings.Join(dirs, string(os.PathListSeparator))); err != nil {
				logger.Warn("failed to start watch run, results will not be stored", zap.Error(err))
			} else {
				defer handler.finish()
			}
		}
	}
	watchOpts := []watcher.WatcherOption{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	w := watcher.NewWatcher(dirs, cfg.Content.Extensions, cfg.Content.RecursiveOrDefault(), handler.changed, handler.removed, watchOpts...)
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()
	w.SyncExistingFiles()
	logger.Info("watching for changes", zap.Strings("roots", w.Directories()))

	<-ctx.Done()
}

// watchHandler validates files reported by the watcher and prints each result.
// When recording, every result is appended to one stored run for the watch session.
type watchHandler struct {
	ctx       context.Context
	validator validator.Validator
	extractor *extract.Extractor
	out       io.Writer
	format    cli.OutputFormat
	logger    *zap.Logger

	mu    sync.Mutex
	store storage.Storage
	run   *models.Run
}

func newWatchHandler(ctx context.Context, v validator.Validator, out io.Writer, format cli.OutputFormat, logger *zap.Logger) *watchHandler {
	return &watchHandler{
		ctx:       ctx,
		validator: v,
		extractor: extract.NewExtractor(),
		out:       out,
		format:    format,
		logger:    logger,
	}
}

func (h *watchHandler) changed(root, path string) {
	rec, err := h.extractor.Load(root, path)
	if err != nil {
		h.logger.Warn("skipping content file", zap.String("path", path), zap.Error(err))
		return
	}
	res, err := h.validator.Validate(h.ctx, rec)
	if err != nil {
		h.logger.Warn("validation failed", zap.String("path", path), zap.Error(err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := cli.WriteResult(h.out, res, h.format); err != nil {
		h.logger.Warn("write result failed", zap.Error(err))
	}
	if h.store == nil {
		return
	}
	if err := h.store.SaveResult(context.WithoutCancel(h.ctx), h.run.ID, res); err != nil {
		h.logger.Warn("failed to store result", zap.String("id", res.ID), zap.Error(err))
		return
	}
	h.run.Summary.Add(res)
}

// record stores a run for this watch session; later results are appended to it.
func (h *watchHandler) record(store storage.Storage, root string) error {
	run := &models.Run{ID: uuid.New().String(), Root: root, StartedAt: time.Now()}
	if err := store.CreateRun(h.ctx, run); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.store, h.run = store, run
	return nil
}

// finish records the session's end time and summary.
func (h *watchHandler) finish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.store == nil {
		return
	}
	if err := h.store.FinishRun(context.WithoutCancel(h.ctx), h.run); err != nil {
		h.logger.Warn("failed to finish watch run", zap.String("run_id", h.run.ID), zap.Error(err))
	}
}

func (h *watchHandler) removed(root, path string) {
	id, err := fileid.RecordID(root, path)
	if err != nil {
		id = path
	}
	h.logger.Info("content file removed; its entry stays cached until the next clear", zap.String("id", id))
}

func printUsage() {
	fmt.Println(`kembar - Content uniqueness checker for generated marketing pages

Usage:
  kembar check [flags] [dir...]   Validate every content file under each directory
  kembar runs [flags]             List stored run reports
  kembar server [flags]           Start the HTTP API
  kembar watch [flags] [dir...]   Validate files as they are created or edited
  kembar version                  Show version
  kembar help                     Show this help

Directories default to content.directories from the config file.

Check Flags:
  --config string     Config file path (default: /usr/local/etc/kembar/config.yaml)
  --output string     Output format: text or json (default: text)
  --parallel          Validate each content category in its own lane
  --severity string   Similarity issue severity: warning or error (default from config)
  --no-store          Do not persist the run report
  --debug             Enable debug logging

Runs Flags:
  --config string     Config file path
  --limit int         Number of runs to list (default: 20)
  --offset int        Number of runs to skip
  --output string     Output format: text or json (default: text)

Server Flags:
  --config string     Config file path
  --debug             Enable debug logging

Watch Flags:
  --config string     Config file path
  --output string     Output format: text or json (default: text)
  --severity string   Similarity issue severity: warning or error
  --no-store          Do not persist results
  --debug             Enable debug logging

Exit status of check is 1 when any document fails (similarity issues at error severity).

Examples:
  kembar check ./content
  kembar check --severity error --output json ./content
  kembar runs --limit 5
  kembar watch ./content`)
}
