package sync

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	syncEntity "stocksync.GO/model/entity/sync"
)

// CheckpointRepository reads and writes the per-job sync checkpoint.
type CheckpointRepository struct {
	db *gorm.DB
}

func NewCheckpointRepository(db *gorm.DB) *CheckpointRepository {
	return &CheckpointRepository{db: db}
}

// Get returns the last success timestamp for a job. The second return is
// false when no checkpoint exists yet (first run).
func (r *CheckpointRepository) Get(jobName string) (time.Time, bool, error) {
	var cp syncEntity.Checkpoint
	err := r.db.Where("job_name = ?", jobName).First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return cp.LastSuccessAt, true, nil
}

// Set upserts the checkpoint for a job. Never called on a failed cycle.
func (r *CheckpointRepository) Set(jobName string, t time.Time) error {
	cp := syncEntity.Checkpoint{
		JobName:       jobName,
		LastSuccessAt: t.UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_success_at", "updated_at"}),
	}).Create(&cp).Error
}
