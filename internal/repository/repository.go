package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates the per-entity repositories.
type Repository struct {
	db *gorm.DB

	Term         TermRepository
	Course       CourseRepository
	EffortType   EffortTypeRepository
	EffortRecord EffortRecordRepository
	Person       PersonRepository
	Percent      PercentAssignmentRepository
	Audit        AuditRepository
}

// NewRepository builds the repository aggregate over one gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Term:         NewTermRepo(db),
		Course:       NewCourseRepo(db),
		EffortType:   NewEffortTypeRepo(db),
		EffortRecord: NewEffortRecordRepo(db),
		Person:       NewPersonRepo(db),
		Percent:      NewPercentAssignmentRepo(db),
		Audit:        NewAuditRepo(db),
	}
}

// Transaction runs fn against a transaction-scoped copy of the aggregate.
// fn returning an error rolls the transaction back.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
