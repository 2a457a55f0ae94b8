package infra

import (
	"sync"

	"github.com/cenkalti/backoff"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/gorm"

	postgres_wrapper "github.com/havelock/pairbook/pkg/infra/postgres"
)

// IMigrateTool applies schema migrations for the trade and order event
// tables.
type IMigrateTool interface {
	// CreateDBAndMigrate connects with backoff and migrates, for tests and
	// first boot.
	CreateDBAndMigrate(cfg *postgres_wrapper.PostgresConfig, migrationSource string) *gorm.DB

	// Migrate brings the schema from the current version to the latest.
	Migrate(source string, connStr string)
}

type migrateTool struct{}

var once sync.Once
var mutex = &sync.Mutex{}
var singleton IMigrateTool

func GetMigrateTool() IMigrateTool {
	once.Do(func() {
		singleton = &migrateTool{}
	})
	return singleton
}

// Migrate runs migrations serially. A dirty version is forced back one
// step before retrying.
func (mt *migrateTool) Migrate(source string, connStr string) {
	mutex.Lock()
	defer mutex.Unlock()

	zap.S().Infow("migrating", "source", source)

	mg, err := migrate.New(source, connStr)
	if err != nil {
		zap.S().Errorw("create migration failed", "err", err)
		panic(err)
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil && err != migrate.ErrNilVersion {
		panic(err)
	}
	if dirty {
		mg.Force(int(version) - 1) // nolint
	}

	if err := mg.Up(); err != nil && err != migrate.ErrNoChange {
		panic(err)
	}

	zap.S().Info("migration done")
}

func (mt *migrateTool) CreateDBAndMigrate(cfg *postgres_wrapper.PostgresConfig, migrationSource string) *gorm.DB {
	var db *gorm.DB
	boff := backoff.NewExponentialBackOff()
	err := backoff.Retry(func() error {
		var errNested error
		db, errNested = postgres_wrapper.InitPostgres(cfg)
		if errNested != nil {
			zap.S().Warnw("connect postgres failed, retrying", "err", errNested)
		}
		return errNested
	}, boff)
	if err != nil {
		panic(err)
	}

	mt.Migrate(migrationSource, cfg.MigrationConnURL)
	return db
}
