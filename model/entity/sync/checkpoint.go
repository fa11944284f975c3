package sync

import "time"

// Checkpoint represents the sync_checkpoint table: one row per sync job
// holding the last fully successful cycle timestamp. Only the pull sync
// engine writes it.
type Checkpoint struct {
	CheckpointID  uint      `gorm:"column:checkpoint_id;primaryKey;autoIncrement" json:"checkpoint_id,omitempty"`
	JobName       string    `gorm:"column:job_name;type:varchar(64);not null;uniqueIndex" json:"job_name"`
	LastSuccessAt time.Time `gorm:"column:last_success_at;not null" json:"last_success_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Checkpoint) TableName() string {
	return "sync_checkpoint"
}
