package repository

import (
	"time"

	"github.com/sustentai/ods-platform/internal/domain/audit"
	"gorm.io/gorm"
)

type AuditQueryParams struct {
	ProjetoID *uint
	Action    *string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
	Offset    int
}

type AuditRepo interface {
	GetAuditLogs(params AuditQueryParams) ([]audit.Entry, error)
	CreateAuditLog(e *audit.Entry) error
	DeleteOldAuditLogs(retentionDays int) (int64, error)
	WithTx(tx *gorm.DB) AuditRepo
}

type DBAuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *DBAuditRepo {
	return &DBAuditRepo{
		db: db,
	}
}

func (r *DBAuditRepo) DeleteOldAuditLogs(retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	res := r.db.Where("created_at < ?", cutoff).Delete(&audit.Entry{})
	return res.RowsAffected, res.Error
}

func (r *DBAuditRepo) GetAuditLogs(params AuditQueryParams) ([]audit.Entry, error) {
	var logs []audit.Entry
	query := r.db.Model(&audit.Entry{})

	if params.ProjetoID != nil {
		query = query.Where("projeto_id = ?", *params.ProjetoID)
	}
	if params.Action != nil {
		query = query.Where("action = ?", *params.Action)
	}
	if params.StartTime != nil {
		query = query.Where("created_at >= ?", *params.StartTime)
	}
	if params.EndTime != nil {
		query = query.Where("created_at <= ?", *params.EndTime)
	}

	query = query.Order("created_at DESC, id DESC")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	err := query.Find(&logs).Error
	return logs, err
}

func (r *DBAuditRepo) CreateAuditLog(e *audit.Entry) error {
	return r.db.Create(e).Error
}

func (r *DBAuditRepo) WithTx(tx *gorm.DB) AuditRepo {
	if tx == nil {
		return r
	}
	return &DBAuditRepo{
		db: tx,
	}
}
