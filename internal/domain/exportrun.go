package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

const (
	// ModeAppend accretes onto whatever the destination tables already hold
	// (source behavior).
	ModeAppend = "append"
	// ModeReplace clears both destination tables inside the export
	// transaction before inserting, swapping the graph atomically.
	ModeReplace = "replace"
)

// ExportRun records one pipeline invocation in gephi_export_run. Rows are
// written outside the export transaction so failed runs survive the rollback.
// IDs are generated client-side; the table needs no uuid extension.
type ExportRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Status       string         `gorm:"column:status;not null;index" json:"status"`
	Mode         string         `gorm:"column:mode;not null" json:"mode"`
	DryRun       bool           `gorm:"column:dry_run;not null;default:false" json:"dry_run"`
	RowsPulled   int            `gorm:"column:rows_pulled;not null;default:0" json:"rows_pulled"`
	NodesWritten int            `gorm:"column:nodes_written;not null;default:0" json:"nodes_written"`
	EdgesWritten int            `gorm:"column:edges_written;not null;default:0" json:"edges_written"`
	Error        string         `gorm:"column:error" json:"error,omitempty"`
	Stats        datatypes.JSON `gorm:"column:stats;type:jsonb" json:"stats,omitempty"`
	StartedAt    time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt   *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ExportRun) TableName() string { return "gephi_export_run" }
