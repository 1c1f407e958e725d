package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/dbctx"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

// ExportRunRepo tracks pipeline invocations in gephi_export_run. The
// pipeline calls it outside the export transaction so failed runs stay
// recorded after the rollback.
type ExportRunRepo interface {
	Create(dbc dbctx.Context, run *domain.ExportRun) error
	Update(dbc dbctx.Context, run *domain.ExportRun) error
	GetLatest(dbc dbctx.Context) (*domain.ExportRun, error)
}

type exportRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExportRunRepo(db *gorm.DB, baseLog *logger.Logger) ExportRunRepo {
	return &exportRunRepo{
		db:  db,
		log: baseLog.With("repo", "ExportRunRepo"),
	}
}

func (r *exportRunRepo) Create(dbc dbctx.Context, run *domain.ExportRun) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.Status == "" {
		run.Status = domain.RunStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	run.CreatedAt = now
	run.UpdatedAt = now
	if err := transaction.WithContext(dbc.Ctx).Create(run).Error; err != nil {
		return mapError(domain.CodeInternal, "exportrun.create", err)
	}
	return nil
}

func (r *exportRunRepo) Update(dbc dbctx.Context, run *domain.ExportRun) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	run.UpdatedAt = time.Now().UTC()
	if err := transaction.WithContext(dbc.Ctx).Save(run).Error; err != nil {
		return mapError(domain.CodeInternal, "exportrun.update", err)
	}
	return nil
}

// GetLatest returns the most recently started run, or nil when the table is
// empty.
func (r *exportRunRepo) GetLatest(dbc dbctx.Context) (*domain.ExportRun, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var run domain.ExportRun
	err := transaction.WithContext(dbc.Ctx).
		Order("started_at DESC").
		Limit(1).
		Find(&run).Error
	if err != nil {
		return nil, mapError(domain.CodeQuery, "exportrun.get_latest", err)
	}
	if run.ID == uuid.Nil {
		return nil, nil
	}
	return &run, nil
}
