package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DSN returns the integration database connection string, skipping the test
// when it is not configured.
func DSN(tb testing.TB) string {
	tb.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		tb.Skip("set TEST_POSTGRES_DSN to run database integration tests")
	}
	return dsn
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			dbErr = err
			return
		}

		if err := autoMigrateAll(db); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run database integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

// Tx yields a transaction rolled back when the test finishes, for tests that
// never need a commit.
func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

// Reset wipes every exporter table, now and again at cleanup. Pipeline tests
// commit for real, so transaction rollback cannot isolate them.
func Reset(tb testing.TB, db *gorm.DB) {
	tb.Helper()
	wipe := func() {
		for _, stmt := range []string{
			`DELETE FROM "GephiEdges"`,
			`DELETE FROM "GephiNode"`,
			`DELETE FROM "qnaSubtopic"`,
			`DELETE FROM "Topic"`,
			`DELETE FROM "Macrotopic"`,
			`DELETE FROM gephi_export_run`,
		} {
			if err := db.Exec(stmt).Error; err != nil {
				tb.Fatalf("reset tables: %v", err)
			}
		}
	}
	wipe()
	tb.Cleanup(wipe)
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Macrotopic{},
		&domain.Topic{},
		&domain.QnaSubtopic{},

		&domain.GephiNode{},
		&domain.GephiEdge{},

		&domain.ExportRun{},
	)
}
