package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/sortscope/internal/config"
	"github.com/Iron-Ham/sortscope/internal/dataset"
	"github.com/Iron-Ham/sortscope/internal/logging"
	"github.com/Iron-Ham/sortscope/internal/session"
)

// watchDebounce coalesces the burst of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-sort a dataset file every time it changes",
	Long: `Sort a dataset file headlessly, then sort it again each time the file is
written. Changes to the config file are picked up between runs.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	var current atomic.Pointer[config.Config]
	current.Store(cfg)

	if viper.ConfigFileUsed() != "" {
		viper.OnConfigChange(func(e fsnotify.Event) {
			reloaded, err := config.Load()
			if err != nil {
				logger.Warn("config reload rejected", "file", e.Name, "error", err.Error())
				return
			}
			current.Store(reloaded)
			logger.Info("config reloaded", "file", e.Name)
		})
		viper.WatchConfig()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchDataset(ctx, args[0], current.Load, cmd.OutOrStdout(), logger)
}

// watchDataset sorts path once, then again after every write to it, until
// ctx is done. Runs never overlap: changes made during a run trigger one
// more run once it finishes.
func watchDataset(ctx context.Context, path string, cfg func() *config.Config, out io.Writer, logger *logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors often replace the file instead of writing it.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	fmt.Fprintf(out, "Watching %s\n", path)
	sortDatasetFile(ctx, abs, cfg(), out, logger)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("dataset changed", "file", ev.Name, "op", ev.Op.String())
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err.Error())

		case <-debounce:
			debounce = nil
			sortDatasetFile(ctx, abs, cfg(), out, logger)
		}
	}
}

// sortDatasetFile runs one headless sort of the file and reports the
// outcome. Problems with the file are reported, not returned, so the watch
// goes on.
func sortDatasetFile(ctx context.Context, path string, cfg *config.Config, out io.Writer, logger *logging.Logger) {
	f, err := dataset.Load(path)
	if err != nil {
		fmt.Fprintf(out, "skipped: %v\n", err)
		return
	}
	if err := dataset.Validate(f.Values); err != nil {
		fmt.Fprintf(out, "skipped: %v\n", err)
		return
	}

	sess, err := session.New(f.Values, cfg.SessionConfig(), session.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(out, "skipped: %v\n", err)
		return
	}
	summary, err := session.RunHeadless(ctx, sess, cfg.TUI.Frame(), nil)
	if err != nil && ctx.Err() != nil {
		return
	}
	_ = summary.Write(out)
}
