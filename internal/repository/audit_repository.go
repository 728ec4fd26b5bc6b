package repository

import (
	"fmt"

	"gorm.io/gorm"

	"knowledgebot/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(rec *model.AuditRecord) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("create audit record failed: %w", err)
	}
	return nil
}

// ListByKey returns the audit history of one document key, newest first.
func (r *AuditRepository) ListByKey(key string, limit int) ([]model.AuditRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	var list []model.AuditRecord
	if err := r.db.Where("`key` = ?", key).Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list audit records failed: %w", err)
	}
	return list, nil
}
