package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
)

// ── effort record errors ──

var (
	ErrCourseNotFound       = errors.New("course does not exist in this term")
	ErrEffortTypeUnknown    = errors.New("effort type does not exist")
	ErrEffortAmountInvalid  = errors.New("exactly one of hours or weeks must be set, and weeks must be positive")
	ErrEffortRecordExists   = errors.New("an effort record already exists for this person and course")
	ErrResidencyCRNReserved = errors.New("the RESID placeholder is provisioned automatically, not created directly")
	ErrTermReadOnly         = errors.New("term no longer accepts effort changes")
)

// CreateRecordRequest describes a real-course effort record to create.
type CreateRecordRequest struct {
	PersonID     int64
	TermCode     int
	CRN          string
	EffortTypeID string
	RoleID       string
	Hours        *float64
	Weeks        *int
}

// EffortService creates effort records against scheduled courses. Creating a
// person's first non-R-course record of a term also fires the residency
// auto-provisioner, so every person with real effort has the placeholder too.
type EffortService interface {
	CreateRecord(ctx context.Context, req *CreateRecordRequest, modifiedBy string) (*model.EffortRecord, error)
}

type effortService struct {
	repo        *repository.Repository
	provisioner ProvisionerService
	logger      *zap.Logger
}

// NewEffortService builds the EffortService.
func NewEffortService(repo *repository.Repository, provisioner ProvisionerService, logger *zap.Logger) EffortService {
	return &effortService{repo: repo, provisioner: provisioner, logger: logger}
}

func (s *effortService) CreateRecord(ctx context.Context, req *CreateRecordRequest, modifiedBy string) (*model.EffortRecord, error) {
	if req.CRN == model.ResidencyCRN {
		return nil, ErrResidencyCRNReserved
	}
	if (req.Hours == nil) == (req.Weeks == nil) {
		return nil, ErrEffortAmountInvalid
	}
	if req.Weeks != nil && *req.Weeks <= 0 {
		return nil, ErrEffortAmountInvalid
	}

	t, err := s.repo.Term.GetByCode(ctx, req.TermCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("term lookup failed", zap.Int("term_code", req.TermCode), zap.Error(err))
		return nil, err
	}
	if t.Status == model.TermStatusClosed || t.Status == model.TermStatusVerified {
		return nil, ErrTermReadOnly
	}

	course, err := s.repo.Course.GetByTermAndCRN(ctx, req.TermCode, req.CRN)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("course lookup failed",
			zap.Int("term_code", req.TermCode), zap.String("crn", req.CRN), zap.Error(err))
		return nil, err
	}

	if _, err := s.repo.EffortType.GetByID(ctx, req.EffortTypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEffortTypeUnknown
		}
		s.logger.Error("effort type lookup failed", zap.String("effort_type", req.EffortTypeID), zap.Error(err))
		return nil, err
	}

	// first real course for this person in the term? checked before the insert
	// so the new row does not count itself
	existing, err := s.repo.EffortRecord.CountNonResidencyByPersonAndTerm(ctx, req.PersonID, req.TermCode)
	if err != nil {
		s.logger.Error("effort record count failed",
			zap.Int64("person_id", req.PersonID), zap.Int("term_code", req.TermCode), zap.Error(err))
		return nil, err
	}

	roleID := req.RoleID
	if roleID == "" {
		roleID = model.RoleInstructorOfRecord
	}

	record := &model.EffortRecord{
		PersonID:     req.PersonID,
		TermCode:     req.TermCode,
		CourseID:     course.ID,
		EffortTypeID: req.EffortTypeID,
		RoleID:       roleID,
		Hours:        req.Hours,
		Weeks:        req.Weeks,
		CRN:          course.CRN,
		ModifiedBy:   modifiedBy,
	}

	if err := s.repo.EffortRecord.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEffortRecordExists
		}
		s.logger.Error("effort record insert failed",
			zap.Int64("person_id", req.PersonID), zap.String("crn", req.CRN), zap.Error(err))
		return nil, err
	}

	if existing == 0 {
		if _, err := s.provisioner.CreateResidencyEffortRecord(ctx, req.PersonID, req.TermCode, modifiedBy, TriggerOnDemand); err != nil {
			// the real record is already committed; surface the provisioning
			// failure for the caller's retry policy
			return record, err
		}
	}

	return record, nil
}
