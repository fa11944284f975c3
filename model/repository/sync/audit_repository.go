package sync

import (
	"gorm.io/gorm"

	syncEntity "stocksync.GO/model/entity/sync"
)

// AuditRepository appends and reads per-cycle audit records.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append writes one audit record. The table is append-only; there is no
// update or delete path.
func (r *AuditRepository) Append(rec *syncEntity.AuditRecord) error {
	return r.db.Create(rec).Error
}

// Recent returns the newest records for a job, newest first.
func (r *AuditRepository) Recent(jobName string, limit int) ([]syncEntity.AuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []syncEntity.AuditRecord
	err := r.db.Where("job_name = ?", jobName).
		Order("audit_id DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}
