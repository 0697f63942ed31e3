package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// TermRepository is the term data access interface. Terms are created and
// advanced by the term-management workflow; the only write exposed here is the
// forward status advance the harvest workflow performs.
type TermRepository interface {
	GetByCode(ctx context.Context, termCode int) (*model.Term, error)
	GetCurrent(ctx context.Context) (*model.Term, error)
	List(ctx context.Context) ([]model.Term, error)
	UpdateStatus(ctx context.Context, termCode int, status string) error
}

type termRepo struct {
	db *gorm.DB
}

// NewTermRepo builds the gorm-backed TermRepository.
func NewTermRepo(db *gorm.DB) TermRepository {
	return &termRepo{db: db}
}

func (r *termRepo) GetByCode(ctx context.Context, termCode int) (*model.Term, error) {
	var term model.Term
	err := r.db.WithContext(ctx).
		Where("term_code = ?", termCode).
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// GetCurrent returns the most recently opened term.
func (r *termRepo) GetCurrent(ctx context.Context) (*model.Term, error) {
	var term model.Term
	err := r.db.WithContext(ctx).
		Where("status = ?", model.TermStatusOpened).
		Order("term_code DESC").
		First(&term).Error
	if err != nil {
		return nil, err
	}
	return &term, nil
}

func (r *termRepo) List(ctx context.Context) ([]model.Term, error) {
	var terms []model.Term
	err := r.db.WithContext(ctx).
		Order("term_code DESC").
		Find(&terms).Error
	if err != nil {
		return nil, err
	}
	return terms, nil
}

func (r *termRepo) UpdateStatus(ctx context.Context, termCode int, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Term{}).
		Where("term_code = ?", termCode).
		Update("status", status).Error
}
