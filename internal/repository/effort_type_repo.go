package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// EffortTypeRepository is the effort type data access interface. Types are
// configuration data maintained out of band; this service only reads them.
type EffortTypeRepository interface {
	GetByID(ctx context.Context, id string) (*model.EffortType, error)
	List(ctx context.Context) ([]model.EffortType, error)
	// FirstAllowedOnRCourses returns the residency-eligible type whose id
	// sorts first lexically, or gorm.ErrRecordNotFound when none is configured.
	FirstAllowedOnRCourses(ctx context.Context) (*model.EffortType, error)
}

type effortTypeRepo struct {
	db *gorm.DB
}

// NewEffortTypeRepo builds the gorm-backed EffortTypeRepository.
func NewEffortTypeRepo(db *gorm.DB) EffortTypeRepository {
	return &effortTypeRepo{db: db}
}

func (r *effortTypeRepo) GetByID(ctx context.Context, id string) (*model.EffortType, error) {
	var et model.EffortType
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&et).Error
	if err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *effortTypeRepo) List(ctx context.Context) ([]model.EffortType, error) {
	var types []model.EffortType
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *effortTypeRepo) FirstAllowedOnRCourses(ctx context.Context) (*model.EffortType, error) {
	var et model.EffortType
	err := r.db.WithContext(ctx).
		Where("allowed_on_r_courses = ?", true).
		Order("id ASC").
		First(&et).Error
	if err != nil {
		return nil, err
	}
	return &et, nil
}
