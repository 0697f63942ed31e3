package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// AuditRepository is the append-only audit trail interface. Entries are never
// read back by this service, so no query methods are exposed.
type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditEntry) error
}

type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepo builds the gorm-backed AuditRepository.
func NewAuditRepo(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Create(ctx context.Context, entry *model.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
