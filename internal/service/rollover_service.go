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

// ── rollover errors ──

var (
	ErrRolloverSourceNotFall   = errors.New("rollover source term is not a fall term")
	ErrTermNotRolloverEligible = errors.New("target term is not eligible for percent rollover")
)

// RolloverFailure records one assignment the rollover could not copy.
type RolloverFailure struct {
	PersonID int64  `json:"person_id"`
	Reason   string `json:"reason"`
}

// RolloverSummary reports the outcome tallies of one rollover run.
type RolloverSummary struct {
	FromTermCode    int               `json:"from_term_code"`
	ToTermCode      int               `json:"to_term_code"`
	Source          int               `json:"source"`
	Copied          int               `json:"copied"`
	SkippedExisting int               `json:"skipped_existing"`
	Failures        []RolloverFailure `json:"failures,omitempty"`
}

// RolloverService copies standing percent assignments from one fall term into
// the next. Idempotent per (person, target term): assignments already present
// in the target are left untouched.
type RolloverService interface {
	Run(ctx context.Context, fromTermCode, toTermCode int, runBy string) (*RolloverSummary, error)
}

type rolloverService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRolloverService builds the RolloverService.
func NewRolloverService(repo *repository.Repository, logger *zap.Logger) RolloverService {
	return &rolloverService{repo: repo, logger: logger}
}

func (s *rolloverService) Run(ctx context.Context, fromTermCode, toTermCode int, runBy string) (*RolloverSummary, error) {
	// percent rollover is fall-to-fall only
	if !term.IsFallTermByCode(fromTermCode) {
		return nil, ErrRolloverSourceNotFall
	}

	target, err := s.repo.Term.GetByCode(ctx, toTermCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("term lookup failed", zap.Int("term_code", toTermCode), zap.Error(err))
		return nil, err
	}

	if !term.CanRolloverPercent(target.Status, toTermCode) {
		return nil, ErrTermNotRolloverEligible
	}

	assignments, err := s.repo.Percent.ListByTerm(ctx, fromTermCode)
	if err != nil {
		s.logger.Error("percent assignment listing failed", zap.Int("term_code", fromTermCode), zap.Error(err))
		return nil, err
	}

	summary := &RolloverSummary{
		FromTermCode: fromTermCode,
		ToTermCode:   toTermCode,
		Source:       len(assignments),
	}

	for _, src := range assignments {
		_, err := s.repo.Percent.GetByPersonAndTerm(ctx, src.PersonID, toTermCode)
		if err == nil {
			summary.SkippedExisting++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			summary.Failures = append(summary.Failures, RolloverFailure{PersonID: src.PersonID, Reason: err.Error()})
			continue
		}

		copied := &model.PercentAssignment{
			PersonID:   src.PersonID,
			TermCode:   toTermCode,
			Percent:    src.Percent,
			EffortDept: src.EffortDept,
			ModifiedBy: runBy,
		}
		if err := s.repo.Percent.Create(ctx, copied); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// a concurrent run copied it first
				summary.SkippedExisting++
				continue
			}
			summary.Failures = append(summary.Failures, RolloverFailure{PersonID: src.PersonID, Reason: err.Error()})
			s.logger.Error("percent assignment copy failed",
				zap.Int64("person_id", src.PersonID),
				zap.Int("to_term_code", toTermCode),
				zap.Error(err),
			)
			continue
		}
		summary.Copied++
	}

	s.logger.Info("percent rollover finished",
		zap.Int("from_term_code", fromTermCode),
		zap.Int("to_term_code", toTermCode),
		zap.Int("copied", summary.Copied),
		zap.Int("skipped_existing", summary.SkippedExisting),
		zap.Int("failures", len(summary.Failures)),
	)

	return summary, nil
}
