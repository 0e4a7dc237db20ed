package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/ticklist/internal/config"
	"github.com/amonks/ticklist/internal/kv"
	"github.com/amonks/ticklist/internal/logger"
	"github.com/amonks/ticklist/internal/metrics"
	"github.com/amonks/ticklist/internal/paths"
	"github.com/amonks/ticklist/internal/ui"
	"github.com/amonks/ticklist/notify"
	"github.com/amonks/ticklist/ops"
	"github.com/amonks/ticklist/task"
	"github.com/amonks/ticklist/theme"
)

// app holds everything one invocation needs.
type app struct {
	env     *ops.Env
	cfg     *config.Config
	backend kv.Store
	center  *notify.Center
	theme   *theme.Service
	ids     ui.IDStyler
	out     io.Writer
	logger  *slog.Logger

	detach func()
}

// openApp loads configuration and opens storage. Callers must close the app.
func openApp(cmd *cobra.Command) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(os.Stderr, cfg.Log.Level, logger.Format(cfg.Log.Format))

	backend, err := kv.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	log.Debug("opened storage", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)

	center := notify.NewCenter(notify.CenterOptions{
		Backlog:      cfg.Notify.Backlog,
		DismissAfter: cfg.Notify.DismissAfter,
	})
	detach := func() {}
	if !rootQuiet {
		detach = notify.NewWriter(os.Stderr, terminalWidth(os.Stderr)).Attach(center)
	}

	a := &app{
		env: &ops.Env{
			Store:    task.NewStore(backend, task.StoreOptions{Key: cfg.Storage.Key, Logger: log}),
			Notifier: center,
			Logger:   log,
			Metrics:  metrics.New(),
		},
		cfg:     cfg,
		backend: backend,
		center:  center,
		theme:   theme.NewService(ctx, backend, theme.Options{Logger: log}),
		ids:     ui.NewIDStyler(os.Stdout),
		out:     cmd.OutOrStdout(),
		logger:  log,
		detach:  detach,
	}
	return a, nil
}

func loadConfig() (*config.Config, error) {
	workDir, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	if rootConfig != "" {
		return config.LoadFile(rootConfig, workDir)
	}
	return config.Load(workDir)
}

func (a *app) Close() error {
	a.detach()
	a.center.Close()
	return a.backend.Close()
}

// withApp opens the app, runs fn and closes the app.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, a)
}

// prefixLengths returns display prefix lengths for every stored task ID.
func (a *app) prefixLengths(ctx context.Context) map[string]int {
	index, err := a.env.Store.IDIndex(ctx)
	if err != nil {
		return nil
	}
	return index.PrefixLengths()
}

func (a *app) highlightID(lengths map[string]int, id string) string {
	return a.ids.Highlight(id, ui.PrefixLength(lengths, id))
}

func terminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
