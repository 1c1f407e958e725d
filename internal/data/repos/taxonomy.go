package repos

import (
	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/dbctx"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

// pullSQL flattens the three-level taxonomy into one row per active
// sub-topic. Mixed-case identifiers are quoted to hit the upstream tables
// exactly; rows soft-deleted at any level (Status <> 0) never reach the
// graph. Ordering by sub-topic id keeps the transform's first-seen node
// order stable between runs.
//
// TODO: filter on rows changed since the last succeeded run in
// gephi_export_run instead of re-pulling the full taxonomy.
const pullSQL = `
SELECT
    s.name AS subtopic,
    t.name AS topic,
    m.name AS macrotopic
FROM "qnaSubtopic" s
JOIN "Topic" t ON s.topicid = t.id
JOIN "Macrotopic" m ON t.macrotopicid = m.id
WHERE s."Status" = 0 AND t."Status" = 0 AND m."Status" = 0
ORDER BY s.id`

// TaxonomyRepo reads the source taxonomy. The exporter never writes these
// tables.
type TaxonomyRepo interface {
	Pull(dbc dbctx.Context) ([]domain.TaxonomyRow, error)
}

type taxonomyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaxonomyRepo(db *gorm.DB, baseLog *logger.Logger) TaxonomyRepo {
	return &taxonomyRepo{
		db:  db,
		log: baseLog.With("repo", "TaxonomyRepo"),
	}
}

// Pull returns the flattened (sub-topic, topic, macro-topic) label rows. An
// empty taxonomy yields an empty slice, not an error.
func (r *taxonomyRepo) Pull(dbc dbctx.Context) ([]domain.TaxonomyRow, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []domain.TaxonomyRow
	err := transaction.WithContext(dbc.Ctx).
		Raw(pullSQL).
		Scan(&rows).Error
	if err != nil {
		return nil, mapError(domain.CodeQuery, "taxonomy.pull", err)
	}
	return rows, nil
}
