package config

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// WatchCatalog loads the catalog once, then polls its mtime every interval and calls onUpdate
// after each successful reload. A broken edit is logged and the last good catalog stays in effect.
// The initial load error is returned; later errors only reach the logger.
func WatchCatalog(
	ctx context.Context,
	path string,
	interval time.Duration,
	logger *zerolog.Logger,
	onUpdate func(*CatalogConfig),
) error {
	if path == "" {
		path = "configs/catalog.yaml"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	cfg, err := LoadCatalogConfig(path)
	if err != nil {
		return err
	}
	logger.Info().Str("path", path).Msg(cfg.String())
	if onUpdate != nil {
		onUpdate(cfg)
	}

	w := &catalogWatcher{path: path, lastMod: info.ModTime(), logger: logger, onUpdate: onUpdate}
	go w.run(ctx, interval)
	return nil
}

type catalogWatcher struct {
	path     string
	lastMod  time.Time
	logger   *zerolog.Logger
	onUpdate func(*CatalogConfig)
}

func (w *catalogWatcher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// poll reloads the catalog when its mtime moved. A failed parse still advances lastMod,
// so the same broken file is reported once rather than on every tick.
func (w *catalogWatcher) poll() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.logger.Warn().Err(err).Str("path", w.path).Msg("catalog stat failed")
		return
	}
	if !info.ModTime().After(w.lastMod) {
		return
	}
	w.lastMod = info.ModTime()

	cfg, err := LoadCatalogConfig(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("catalog reload failed; keeping previous catalog")
		return
	}

	w.logger.Info().Str("path", w.path).Msg("catalog reloaded: " + cfg.String())
	if w.onUpdate != nil {
		w.onUpdate(cfg)
	}
}
