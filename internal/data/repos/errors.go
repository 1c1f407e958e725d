package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/domain"
)

// mapError normalizes driver errors into coded pipeline errors so callers
// branch on the stage code alone. Postgres failures keep their SQLSTATE and
// constraint in the message; the raw error stays reachable via Unwrap.
func mapError(code domain.ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		msg := strings.TrimSpace(pgErr.Message)
		if pgErr.ConstraintName != "" {
			msg = fmt.Sprintf("%s [constraint %s]", msg, pgErr.ConstraintName)
		}
		return domain.NewError(code, op, fmt.Sprintf("sqlstate %s: %s", pgErr.Code, msg), err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewError(code, op, "operation canceled", err)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewError(code, op, "record not found", err)
	}
	return domain.Wrap(code, op, err)
}

// SQLState extracts the Postgres SQLSTATE from err, or "" when err did not
// originate in the server.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
