package app

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/config"
	"github.com/five82/stockroom/internal/prefs"
	"github.com/five82/stockroom/internal/session"
	"github.com/five82/stockroom/internal/state"
	"github.com/five82/stockroom/internal/ui"
)

// Options configure the Stockroom application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/stockroom/prefs.toml
	APIURL     string // overrides the configured API when set
}

// Run boots the Stockroom TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	logger, err := NewLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Starting", zap.String("api", cfg.APIURL), zap.Int("page_size", cfg.PageSize))

	prefsFile := prefs.NewFile(opts.PrefsPath)
	userPrefs, err := prefs.Load(prefsFile.Path())
	if err != nil {
		logger.Warn("Load prefs failed", zap.Error(err))
	}

	sessions := session.NewStore(cfg.SessionPath, logger)
	sessions.Restore()

	client, err := catalog.NewClient(catalog.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return errors.Wrap(err, "init catalog client")
	}

	store := state.NewStore(state.Options{
		PageSize: cfg.PageSize,
		Sort:     prefsFile.Sort(),
		Prefs:    prefsFile,
		Logger:   logger,
	})

	err = ui.Run(ui.Options{
		Context:        ctx,
		API:            client,
		Store:          store,
		Session:        sessions,
		Prefs:          prefsFile,
		ThemeName:      userPrefs.Theme,
		RequestTimeout: cfg.RequestTimeout,
		RefreshEvery:   cfg.RefreshEvery,
		LogPath:        cfg.LogFile,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("UI exited", zap.Error(err))
		return err
	}
	logger.Info("Stopped")
	return nil
}
