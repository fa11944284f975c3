package sync

import (
	"time"

	"gorm.io/datatypes"
)

// AuditRecord represents the sync_audit_record table: one append-only row
// per completed pull sync cycle. Rows are never mutated after creation.
type AuditRecord struct {
	AuditID         uint           `gorm:"column:audit_id;primaryKey;autoIncrement" json:"audit_id,omitempty"`
	RunID           string         `gorm:"column:run_id;type:varchar(36);not null" json:"run_id"`
	JobName         string         `gorm:"column:job_name;type:varchar(64);not null;index" json:"job_name"`
	RunDate         string         `gorm:"column:run_date;type:varchar(10);not null;index" json:"run_date"`
	StartedAt       time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	ItemsReceived   int            `gorm:"column:items_received;not null;default:0" json:"items_received"`
	ItemsPushed     int            `gorm:"column:items_pushed;not null;default:0" json:"items_pushed"`
	ItemsSkipped    int            `gorm:"column:items_skipped;not null;default:0" json:"items_skipped"`
	DurationSeconds float64        `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	Details         datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
}

func (AuditRecord) TableName() string {
	return "sync_audit_record"
}
