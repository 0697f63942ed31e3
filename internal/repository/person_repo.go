package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
)

// PersonRepository is the read-only access interface over per-term identity
// snapshots.
type PersonRepository interface {
	GetByIDAndTerm(ctx context.Context, personID int64, termCode int) (*model.Person, error)
	ListByTerm(ctx context.Context, termCode int) ([]model.Person, error)
}

type personRepo struct {
	db *gorm.DB
}

// NewPersonRepo builds the gorm-backed PersonRepository.
func NewPersonRepo(db *gorm.DB) PersonRepository {
	return &personRepo{db: db}
}

func (r *personRepo) GetByIDAndTerm(ctx context.Context, personID int64, termCode int) (*model.Person, error) {
	var person model.Person
	err := r.db.WithContext(ctx).
		Where("person_id = ? AND term_code = ?", personID, termCode).
		First(&person).Error
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepo) ListByTerm(ctx context.Context, termCode int) ([]model.Person, error) {
	var people []model.Person
	err := r.db.WithContext(ctx).
		Where("term_code = ?", termCode).
		Order("person_id ASC").
		Find(&people).Error
	if err != nil {
		return nil, err
	}
	return people, nil
}
