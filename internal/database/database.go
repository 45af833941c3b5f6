package database

import (
	"fmt"

	gorm_logrus "github.com/onrik/gorm-logrus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/config"
	"github.com/yukikurage/staff-management-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database selected by cfg.Database.Driver.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{
		Logger:         gorm_logrus.New(),
		TranslateError: true,
	}
	if cfg.DBDebug() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if cfg.Database.Driver == "sqlite" {
		// sqlite serializes writers; one connection avoids "database is locked".
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to access sql.DB")
		}
		sqlDB.SetMaxOpenConns(1)
	}

	log.WithField("driver", cfg.Database.Driver).Info("Database connection established")
	return db, nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	d := cfg.Database
	switch d.Driver {
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable password=%s",
			d.Host, d.Port, d.User, d.Name, d.Password)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			d.User, d.Password, d.Host, d.Port, d.Name)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(d.SQLitePath), nil
	default:
		return nil, errors.Errorf("unsupported database driver %q", d.Driver)
	}
}

// Migrate creates or updates every table and the secondary indexes.
func Migrate(db *gorm.DB) error {
	log.Info("Running database migrations...")
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	if err := AddIndexes(db); err != nil {
		return err
	}
	log.Info("Database migrations completed")
	return nil
}

// Ping checks that the database is reachable.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
