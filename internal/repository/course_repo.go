package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// CourseRepository is the course data access interface.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	GetByTermAndCRN(ctx context.Context, termCode int, crn string) (*model.Course, error)
	GetResidency(ctx context.Context, termCode int) (*model.Course, error)
	ListByTerm(ctx context.Context, termCode int) ([]model.Course, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo builds the gorm-backed CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

// Create inserts the course. A (term_code, crn) collision surfaces as
// gorm.ErrDuplicatedKey for the caller to recover from.
func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByTermAndCRN(ctx context.Context, termCode int, crn string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("term_code = ? AND crn = ?", termCode, crn).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetResidency looks up the term's generic residency placeholder.
func (r *courseRepo) GetResidency(ctx context.Context, termCode int) (*model.Course, error) {
	return r.GetByTermAndCRN(ctx, termCode, model.ResidencyCRN)
}

func (r *courseRepo) ListByTerm(ctx context.Context, termCode int) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Where("term_code = ?", termCode).
		Order("subj_code, crse_numb, seq_numb").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}
