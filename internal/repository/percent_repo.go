package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// PercentAssignmentRepository is the percent assignment data access interface.
type PercentAssignmentRepository interface {
	Create(ctx context.Context, assignment *model.PercentAssignment) error
	GetByPersonAndTerm(ctx context.Context, personID int64, termCode int) (*model.PercentAssignment, error)
	ListByTerm(ctx context.Context, termCode int) ([]model.PercentAssignment, error)
}

type percentAssignmentRepo struct {
	db *gorm.DB
}

// NewPercentAssignmentRepo builds the gorm-backed PercentAssignmentRepository.
func NewPercentAssignmentRepo(db *gorm.DB) PercentAssignmentRepository {
	return &percentAssignmentRepo{db: db}
}

func (r *percentAssignmentRepo) Create(ctx context.Context, assignment *model.PercentAssignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *percentAssignmentRepo) GetByPersonAndTerm(ctx context.Context, personID int64, termCode int) (*model.PercentAssignment, error) {
	var assignment model.PercentAssignment
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND term_code = ?", personID, termCode).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *percentAssignmentRepo) ListByTerm(ctx context.Context, termCode int) ([]model.PercentAssignment, error) {
	var assignments []model.PercentAssignment
	err := r.db.WithContext(ctx).
		Where("term_code = ?", termCode).
		Order("person_id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
