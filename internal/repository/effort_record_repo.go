package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// EffortRecordRepository is the effort record data access interface.
type EffortRecordRepository interface {
	Create(ctx context.Context, record *model.EffortRecord) error
	GetByID(ctx context.Context, id int64) (*model.EffortRecord, error)
	GetByPersonAndCourse(ctx context.Context, personID, courseID int64) (*model.EffortRecord, error)
	ListByPersonAndTerm(ctx context.Context, personID int64, termCode int) ([]model.EffortRecord, error)
	ListByTerm(ctx context.Context, termCode int) ([]model.EffortRecord, error)
	// CountNonResidencyByPersonAndTerm counts a person's records in the term
	// that are not against the RESID placeholder.
	CountNonResidencyByPersonAndTerm(ctx context.Context, personID int64, termCode int) (int64, error)
}

type effortRecordRepo struct {
	db *gorm.DB
}

// NewEffortRecordRepo builds the gorm-backed EffortRecordRepository.
func NewEffortRecordRepo(db *gorm.DB) EffortRecordRepository {
	return &effortRecordRepo{db: db}
}

// Create inserts the record. A (person_id, course_id) collision surfaces as
// gorm.ErrDuplicatedKey for the caller to recover from.
func (r *effortRecordRepo) Create(ctx context.Context, record *model.EffortRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *effortRecordRepo) GetByID(ctx context.Context, id int64) (*model.EffortRecord, error) {
	var record model.EffortRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *effortRecordRepo) GetByPersonAndCourse(ctx context.Context, personID, courseID int64) (*model.EffortRecord, error) {
	var record model.EffortRecord
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND course_id = ?", personID, courseID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *effortRecordRepo) ListByPersonAndTerm(ctx context.Context, personID int64, termCode int) ([]model.EffortRecord, error) {
	var records []model.EffortRecord
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND term_code = ?", personID, termCode).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *effortRecordRepo) ListByTerm(ctx context.Context, termCode int) ([]model.EffortRecord, error) {
	var records []model.EffortRecord
	err := r.db.WithContext(ctx).
		Where("term_code = ?", termCode).
		Order("person_id, id").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *effortRecordRepo) CountNonResidencyByPersonAndTerm(ctx context.Context, personID int64, termCode int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EffortRecord{}).
		Where("person_id = ? AND term_code = ? AND crn <> ?", personID, termCode, model.ResidencyCRN).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
