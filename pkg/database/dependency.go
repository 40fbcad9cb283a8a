package database

import (
	"context"

	"github.com/Gobusters/ectologger"
)

// Dependency opens the pool and applies migrations as a startup.StartupDependency.
type Dependency struct {
	config    Config
	migration *MigrationConfig
	logger    ectologger.Logger
	db        DB
}

// NewDependency returns a database dependency. A nil migration config skips migrations.
func NewDependency(config Config, migration *MigrationConfig, logger ectologger.Logger) *Dependency {
	return &Dependency{
		config:    config,
		migration: migration,
		logger:    logger,
	}
}

func (d *Dependency) GetName() string {
	return "database"
}

func (d *Dependency) DependsOn() []string {
	return nil
}

func (d *Dependency) Start(ctx context.Context) error {
	if d.db != nil {
		return nil
	}

	db, err := Open(ctx, d.config, d.logger)
	if err != nil {
		return err
	}

	if d.migration != nil {
		if err := NewMigrationService(d.logger, d.migration).MigratePostgres(db.SQL(), d.config.Name); err != nil {
			_ = db.Close()
			return err
		}
	}

	d.db = db
	return nil
}

func (d *Dependency) Stop(ctx context.Context) error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// DB returns the open pool, or nil before Start.
func (d *Dependency) DB() DB {
	return d.db
}
