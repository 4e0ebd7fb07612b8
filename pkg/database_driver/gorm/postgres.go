package gorm

import (
	"errors"
	"fmt"
	"time"

	"jobmatch-assistant/configs"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool limits applied to every connection
const (
	maxIdleConns    = 5
	maxOpenConns    = 20
	connMaxLifetime = time.Hour
)

// DB struct
type DB struct {
	Postgres *gorm.DB
}

// DSN builds the libpq connection string for cfg
func DSN(cfg configs.Postgres) (string, error) {
	if cfg.Host == "" && cfg.Port == "" && cfg.DbName == "" {
		return "", errors.New("cannot establish the connection: postgres host, port and database are empty")
	}

	sslmode := "disable"
	if cfg.SSLMode {
		sslmode = "require"
	}

	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%s connect_timeout=10",
		cfg.Host, cfg.Username, cfg.Password, cfg.DbName, cfg.Port, sslmode), nil
}

// ConnectToPostgreSQL func
func ConnectToPostgreSQL(cfg configs.Postgres) (*DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	pg, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	sqlDB, err := pg.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	logrus.Infof("Connected to postgres %s:%s/%s", cfg.Host, cfg.Port, cfg.DbName)
	return &DB{Postgres: pg}, nil
}

// DisconnectPostgres func
func DisconnectPostgres(db *gorm.DB) {
	sqlDb, err := db.DB()
	if err != nil {
		logrus.Errorf("Failed to get postgres handle: %v", err)
		return
	}
	if err := sqlDb.Close(); err != nil {
		logrus.Error(err)
		return
	}
	logrus.Info("Connection with postgres has closed")
}
