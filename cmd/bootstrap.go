package cmd

import (
	"fmt"

	"relation-manager/core/config"
	"relation-manager/core/database"
	"relation-manager/core/logger"
	"relation-manager/core/relation"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	db       *gorm.DB
	registry *relation.Registry
}

// loadApp loads the configuration from --config-dir and creates the logger.
// --log-level overrides log.level.
func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configDir, err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &app{cfg: cfg, logger: l}, nil
}

// connect opens the database and builds one synchronizer per declared relation.
func (a *app) connect() error {
	db, err := database.Connect(a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	resolver := relation.DefaultResolver()
	resolver.SetSettings(a.cfg.Relations)

	a.registry = relation.NewRegistry()
	for _, decl := range a.cfg.Relations.Definitions {
		syncer, err := relation.NewGorm(db, decl.Definition(), resolver, a.logger.Named("relations"))
		if err != nil {
			return err
		}
		if err := a.registry.Register(syncer); err != nil {
			return err
		}
	}

	if err := relation.RegisterCallbacks(db, a.registry); err != nil {
		return fmt.Errorf("failed to register relation callbacks: %w", err)
	}

	a.logger.Info("Connected to database",
		zap.String("driver", a.cfg.Database.Driver),
		zap.Int("relations", len(a.cfg.Relations.Definitions)),
	)
	return nil
}
