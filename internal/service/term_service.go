package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
	"github.com/ucdavis/VIPER-sub005/internal/term"
)

// TermEligibility summarizes what the classifier says about a term, for
// operators deciding which workflow to run.
type TermEligibility struct {
	TermCode         int    `json:"term_code"`
	Status           string `json:"status"`
	PeriodName       string `json:"period_name"`
	PeriodCategory   string `json:"period_category"`
	FallTerm         bool   `json:"fall_term"`
	SemesterTerm     bool   `json:"semester_term"`
	Harvestable      bool   `json:"harvestable"`
	RolloverEligible bool   `json:"rollover_eligible"`
	ClinicalEligible bool   `json:"clinical_eligible"`
}

// TermService exposes read-only term lookups.
type TermService interface {
	GetByCode(ctx context.Context, termCode int) (*model.Term, error)
	GetCurrent(ctx context.Context) (*model.Term, error)
	List(ctx context.Context) ([]model.Term, error)
	Eligibility(ctx context.Context, termCode int) (*TermEligibility, error)
}

type termService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTermService builds the TermService.
func NewTermService(repo *repository.Repository, logger *zap.Logger) TermService {
	return &termService{repo: repo, logger: logger}
}

func (s *termService) GetByCode(ctx context.Context, termCode int) (*model.Term, error) {
	t, err := s.repo.Term.GetByCode(ctx, termCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("term lookup failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *termService) GetCurrent(ctx context.Context) (*model.Term, error) {
	t, err := s.repo.Term.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("current term lookup failed", zap.Error(err))
		return nil, err
	}
	return t, nil
}

func (s *termService) List(ctx context.Context) ([]model.Term, error) {
	terms, err := s.repo.Term.List(ctx)
	if err != nil {
		s.logger.Error("term listing failed", zap.Error(err))
		return nil, err
	}
	return terms, nil
}

func (s *termService) Eligibility(ctx context.Context, termCode int) (*TermEligibility, error) {
	t, err := s.GetByCode(ctx, termCode)
	if err != nil {
		return nil, err
	}

	e := &TermEligibility{
		TermCode:         t.TermCode,
		Status:           t.Status,
		FallTerm:         term.IsFallTermByCode(t.TermCode),
		SemesterTerm:     term.IsSemesterTerm(t.TermCode),
		Harvestable:      term.CanHarvest(t.Status),
		RolloverEligible: term.CanRolloverPercent(t.Status, t.TermCode),
		ClinicalEligible: term.CanImportClinical(t.Status, t.TermCode),
	}
	if p, ok := term.PeriodOf(t.TermCode); ok {
		e.PeriodName = p.Name
		e.PeriodCategory = string(p.Category)
	}
	return e, nil
}
