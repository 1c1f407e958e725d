package repos

import (
	"strings"

	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/dbctx"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

// CatalogRepo answers the connectivity diagnostics the exporter logs before
// pulling data: the public tables visible to the session and the server
// version string.
type CatalogRepo interface {
	ListTables(dbc dbctx.Context) ([]string, error)
	ServerVersion(dbc dbctx.Context) (string, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{
		db:  db,
		log: baseLog.With("repo", "CatalogRepo"),
	}
}

func (r *catalogRepo) ListTables(dbc dbctx.Context) ([]string, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var tables []string
	err := transaction.WithContext(dbc.Ctx).
		Raw(`SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = 'public' ORDER BY tablename`).
		Scan(&tables).Error
	if err != nil {
		return nil, mapError(domain.CodeQuery, "catalog.tables", err)
	}
	return tables, nil
}

func (r *catalogRepo) ServerVersion(dbc dbctx.Context) (string, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var version string
	err := transaction.WithContext(dbc.Ctx).
		Raw(`SELECT version()`).
		Scan(&version).Error
	if err != nil {
		return "", mapError(domain.CodeQuery, "catalog.version", err)
	}
	return strings.TrimSpace(version), nil
}
