package pgdb

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

// Config carries the connection settings the pipeline core consumes. The
// outer layer populates it from the ENDPOINT/PORT/DBNAME/USER/PASSWORD
// surface; the core has no other configuration.
type Config struct {
	Endpoint string `yaml:"ENDPOINT"`
	Port     string `yaml:"PORT"`
	DBName   string `yaml:"DBNAME"`
	User     string `yaml:"USER"`
	Password string `yaml:"PASSWORD"`
	SSLMode  string `yaml:"SSLMODE"`
}

// DSN renders the postgres:// connection string.
func (c Config) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Endpoint,
		c.Port,
		c.DBName,
		sslMode,
	)
}

// Session is the single database session an export run operates over.
type Session struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open establishes the session from discrete connection settings.
// Connectivity failures come back as domain.CodeConnection errors; the
// pipeline halts on them.
func Open(cfg Config, logg *logger.Logger) (*Session, error) {
	s, err := OpenDSN(cfg.DSN(), logg)
	if err != nil {
		return nil, err
	}
	s.log.Info("database session established",
		"endpoint", cfg.Endpoint,
		"port", cfg.Port,
		"dbname", cfg.DBName,
		"user", cfg.User,
	)
	return s, nil
}

// OpenDSN establishes the session from a ready-made connection string.
func OpenDSN(dsn string, logg *logger.Logger) (*Session, error) {
	sessionLog := logg.With("service", "PostgresSession")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLog,
	})
	if err != nil {
		return nil, domain.Wrap(domain.CodeConnection, "pgdb.open", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, domain.Wrap(domain.CodeConnection, "pgdb.open", err)
	}
	// One pipeline, one session: the run never needs a second connection and
	// the transaction scope assumes there isn't one.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	return &Session{db: db, log: sessionLog}, nil
}

// DB returns the underlying GORM handle for repository construction.
func (s *Session) DB() *gorm.DB { return s.db }

// Begin opens the run's transaction scope.
func (s *Session) Begin(ctx context.Context) (*gorm.DB, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, domain.Wrap(domain.CodeInternal, "pgdb.begin", tx.Error)
	}
	return tx, nil
}

// Rollback aborts tx best-effort. Failures are logged, never raised; by the
// time a rollback is attempted the run has already failed for another reason.
func (s *Session) Rollback(tx *gorm.DB) {
	if tx == nil {
		return
	}
	if err := tx.Rollback().Error; err != nil {
		s.log.Warn("rollback failed", "error", err)
	}
}

// Close releases the session. The caller that opened it owns the lifetime;
// the pipeline core never closes the session itself.
func (s *Session) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
