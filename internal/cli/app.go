package cli

import (
	"database/sql"
	"log/slog"

	"github.com/dukerupert/starcoin/internal/calendar"
	"github.com/dukerupert/starcoin/internal/config"
	"github.com/dukerupert/starcoin/internal/database"
	"github.com/dukerupert/starcoin/internal/engine"
	"github.com/dukerupert/starcoin/internal/logging"
	"github.com/dukerupert/starcoin/internal/store"
	"github.com/dukerupert/starcoin/internal/websocket"
)

// app is everything a command needs, wired from one config.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	hub    *websocket.Hub
	stores engine.Stores
	eng    *engine.Engine
}

func openApp(cfg config.Config) (*app, error) {
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	hub := websocket.NewHub(logger.With("component", "websocket"))
	stores := engine.Stores{
		Families:     store.NewFamilyStore(db),
		Members:      store.NewMemberStore(db),
		Tasks:        store.NewTaskStore(db),
		Entries:      store.NewEntryStore(db),
		Achievements: store.NewAchievementStore(db),
		Punishments:  store.NewPunishmentStore(db),
	}
	cal := calendar.New(calendar.SystemClock{}, cfg.Calendar.Offset())
	eng, err := engine.New(cal, stores, hub, logger.With("component", "engine"), engine.Options{
		PrivilegeAccrual: cfg.Rewards.PrivilegeAccrual,
		PrivilegeBucket:  cfg.Rewards.PrivilegeBucket,
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("app ready", "db", cfg.Database.Path, "offset", calendar.FormatOffset(cfg.Calendar.Offset()))
	return &app{cfg: cfg, logger: logger, db: db, hub: hub, stores: stores, eng: eng}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// loadApp reads the config named by --config and opens the app.
func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return openApp(cfg)
}
