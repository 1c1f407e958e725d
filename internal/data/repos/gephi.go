package repos

import (
	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/dbctx"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

const insertBatchSize = 500

// GephiRepo owns writes to the destination graph tables. Writes run on the
// caller's transaction when one is set and never commit; the pipeline
// decides when the graph becomes visible, so a mid-insert failure leaves
// nothing behind.
type GephiRepo interface {
	InsertGraph(dbc dbctx.Context, nodes []domain.GephiNode, edges []domain.GephiEdge, replace bool) error
}

type gephiRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGephiRepo(db *gorm.DB, baseLog *logger.Logger) GephiRepo {
	return &gephiRepo{
		db:  db,
		log: baseLog.With("repo", "GephiRepo"),
	}
}

// InsertGraph loads the node and edge lists with batched inserts. With
// replace set it first empties both tables, edges before nodes, so a
// re-export swaps the graph in one transaction. Empty lists are a no-op,
// not an error.
func (r *gephiRepo) InsertGraph(dbc dbctx.Context, nodes []domain.GephiNode, edges []domain.GephiEdge, replace bool) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if replace {
		if err := transaction.WithContext(dbc.Ctx).Exec(`DELETE FROM "GephiEdges"`).Error; err != nil {
			return mapError(domain.CodeInsert, "gephi.clear", err)
		}
		if err := transaction.WithContext(dbc.Ctx).Exec(`DELETE FROM "GephiNode"`).Error; err != nil {
			return mapError(domain.CodeInsert, "gephi.clear", err)
		}
	}
	if len(nodes) > 0 {
		if err := transaction.WithContext(dbc.Ctx).CreateInBatches(&nodes, insertBatchSize).Error; err != nil {
			return mapError(domain.CodeInsert, "gephi.insert_nodes", err)
		}
	}
	if len(edges) > 0 {
		if err := transaction.WithContext(dbc.Ctx).CreateInBatches(&edges, insertBatchSize).Error; err != nil {
			return mapError(domain.CodeInsert, "gephi.insert_edges", err)
		}
	}
	return nil
}
