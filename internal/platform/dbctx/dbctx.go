package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a run context with an optional GORM transaction. When Tx is
// set, repository calls run inside it and the caller owns commit/rollback;
// when nil, repositories fall back to their base session.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
