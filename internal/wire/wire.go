// Package wire provides dependency injection for the tickethook
// application. It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/example/tickethook/internal/adapters/notify"
	"github.com/example/tickethook/internal/adapters/sqlite"
	"github.com/example/tickethook/internal/config"
	"github.com/example/tickethook/internal/db"
	"github.com/example/tickethook/internal/engine"
	"github.com/example/tickethook/internal/logger"
	"github.com/example/tickethook/internal/ports/secondary"
)

// App bundles the wired application components.
type App struct {
	Config   *config.Config
	Log      zerolog.Logger
	DB       *sql.DB
	Store    *sqlite.TicketStore
	Perms    *sqlite.PermissionChecker
	Users    *sqlite.UserDirectory
	Notifier secondary.Notifier
	Engine   *engine.Engine
}

var (
	app     *App
	initErr error
	once    sync.Once
)

// Get returns the singleton App, initializing it on first use with the
// given config.
func Get(cfg *config.Config) (*App, error) {
	once.Do(func() {
		app, initErr = build(cfg)
	})
	return app, initErr
}

func build(cfg *config.Config) (*App, error) {
	log := logger.New(cfg.AppEnv)

	dbPath := cfg.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := sqlite.NewTicketStore(database)
	perms := sqlite.NewPermissionChecker(database)
	users := sqlite.NewUserDirectory(database)

	var notifier secondary.Notifier
	if cfg.NotifyWebhookURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.NotifyWebhookURL, log)
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	eng, err := engine.New(engine.Options{
		Envelope:       cfg.Envelope,
		AllowedDomains: cfg.Domains(),
		CheckPerms:     cfg.CheckPerms,
		Notify:         cfg.Notify,
	}, cfg.CommandTable(), store, perms, users, notifier, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build engine: %w", err)
	}

	return &App{
		Config:   cfg,
		Log:      log,
		DB:       database,
		Store:    store,
		Perms:    perms,
		Users:    users,
		Notifier: notifier,
		Engine:   eng,
	}, nil
}
