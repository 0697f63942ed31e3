package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
)

// ProvisionTrigger identifies which workflow invoked the provisioner. It
// selects the audit message; the provisioning behavior is identical.
type ProvisionTrigger string

const (
	TriggerHarvest  ProvisionTrigger = "harvest"
	TriggerOnDemand ProvisionTrigger = "on_demand"
)

// Audit messages per trigger. Downstream log filtering searches for the
// "during harvest" and "when first non-R-course added" substrings; do not
// reword them.
const (
	auditMsgHarvest  = "Generic R-course effort record auto created during harvest"
	auditMsgOnDemand = "Generic R-course effort record auto created when first non-R-course added"
)

// CourseOutcome tags how GetOrCreateGenericResidencyCourse obtained the course.
type CourseOutcome string

const (
	// CourseCreated: this call inserted the placeholder (audited).
	CourseCreated CourseOutcome = "created"
	// CourseAlreadyExists: the placeholder was already present (no audit).
	CourseAlreadyExists CourseOutcome = "already_exists"
	// CourseRecoveredFromConflict: a concurrent call won the insert race and
	// the winner's row was re-read (no audit from this call).
	CourseRecoveredFromConflict CourseOutcome = "recovered_from_conflict"
)

// ProvisionOutcome tags the result of CreateResidencyEffortRecord.
type ProvisionOutcome string

const (
	ProvisionCreated       ProvisionOutcome = "created"
	ProvisionAlreadyExists ProvisionOutcome = "already_exists"
	// ProvisionSkippedNoEffortType: no effort type is configured with
	// allowed_on_r_courses, so only the course (if any) was provisioned.
	// A configuration gap, not an error.
	ProvisionSkippedNoEffortType ProvisionOutcome = "skipped_no_effort_type"
)

// ProvisionerService guarantees the generic residency placeholder course and
// per-person effort record for a term. All operations are idempotent
// forward-only creates; rows are never updated or deleted here.
type ProvisionerService interface {
	GetOrCreateGenericResidencyCourse(ctx context.Context, termCode int) (*model.Course, CourseOutcome, error)
	CreateResidencyEffortRecord(ctx context.Context, personID int64, termCode int, modifiedBy string, trigger ProvisionTrigger) (ProvisionOutcome, error)
}

type provisionerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProvisionerService builds the ProvisionerService.
func NewProvisionerService(repo *repository.Repository, logger *zap.Logger) ProvisionerService {
	return &provisionerService{repo: repo, logger: logger}
}

// ────────────────────── GetOrCreateGenericResidencyCourse ──────────────────────

func (s *provisionerService) GetOrCreateGenericResidencyCourse(ctx context.Context, termCode int) (*model.Course, CourseOutcome, error) {
	return s.getOrCreateResidencyCourse(ctx, termCode, model.SystemActor)
}

// getOrCreateResidencyCourse is the shared implementation; record creation
// passes its modifiedBy through so the course audit names the real actor.
func (s *provisionerService) getOrCreateResidencyCourse(ctx context.Context, termCode int, changedBy string) (*model.Course, CourseOutcome, error) {
	course, err := s.repo.Course.GetResidency(ctx, termCode)
	if err == nil {
		return course, CourseAlreadyExists, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("residency course lookup failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, "", err
	}

	course = model.NewResidencyCourse(termCode)
	if err := s.repo.Course.Create(ctx, course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost the creation race; the unique index on (term_code, crn) is
			// the arbiter — re-read the winner's row
			winner, rerr := s.repo.Course.GetResidency(ctx, termCode)
			if rerr != nil {
				s.logger.Error("residency course re-read after conflict failed",
					zap.Int("term_code", termCode), zap.Error(rerr))
				return nil, "", rerr
			}
			return winner, CourseRecoveredFromConflict, nil
		}
		s.logger.Error("residency course insert failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, "", err
	}

	s.audit(ctx, &model.AuditEntry{
		Table:     model.AuditTableCourses,
		Action:    model.AuditActionCreateCourse,
		TermCode:  termCode,
		ChangedBy: changedBy,
		Changes:   "Generic R-course created",
		After:     snapshot(course),
	})

	s.logger.Info("residency course created",
		zap.Int("term_code", termCode),
		zap.Int64("course_id", course.ID),
	)

	return course, CourseCreated, nil
}

// ────────────────────── CreateResidencyEffortRecord ──────────────────────

func (s *provisionerService) CreateResidencyEffortRecord(ctx context.Context, personID int64, termCode int, modifiedBy string, trigger ProvisionTrigger) (ProvisionOutcome, error) {
	course, _, err := s.getOrCreateResidencyCourse(ctx, termCode, modifiedBy)
	if err != nil {
		return "", err
	}

	// idempotence check: repeated harvest runs hit this path and stop
	_, err = s.repo.EffortRecord.GetByPersonAndCourse(ctx, personID, course.ID)
	if err == nil {
		return ProvisionAlreadyExists, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("effort record lookup failed",
			zap.Int64("person_id", personID), zap.Int("term_code", termCode), zap.Error(err))
		return "", err
	}

	effortType, err := s.repo.EffortType.FirstAllowedOnRCourses(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// the course may already exist at this point; that half-provisioned
			// state is deliberate and visible to the caller via the outcome
			s.logger.Warn("no effort type allows R-courses; record skipped",
				zap.Int64("person_id", personID), zap.Int("term_code", termCode))
			return ProvisionSkippedNoEffortType, nil
		}
		s.logger.Error("effort type lookup failed", zap.Error(err))
		return "", err
	}

	record := &model.EffortRecord{
		PersonID:     personID,
		TermCode:     termCode,
		CourseID:     course.ID,
		EffortTypeID: effortType.ID,
		RoleID:       model.RoleInstructorOfRecord,
		CRN:          model.ResidencyCRN,
		ModifiedBy:   modifiedBy,
	}
	if effortType.UsesWeeks {
		record.SetWeeks(1) // minimum legal value
	} else {
		record.SetHours(0)
	}

	if err := s.repo.EffortRecord.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// concurrent call for the same person won; states have converged
			return ProvisionAlreadyExists, nil
		}
		s.logger.Error("effort record insert failed",
			zap.Int64("person_id", personID), zap.Int("term_code", termCode), zap.Error(err))
		return "", err
	}

	changes := auditMsgOnDemand
	if trigger == TriggerHarvest {
		changes = auditMsgHarvest
	}
	s.audit(ctx, &model.AuditEntry{
		Table:     model.AuditTableRecords,
		Action:    model.AuditActionRCourseAutoCreated,
		TermCode:  termCode,
		ChangedBy: modifiedBy,
		Changes:   changes,
		After:     snapshot(record),
	})

	s.logger.Info("residency effort record created",
		zap.Int64("person_id", personID),
		zap.Int("term_code", termCode),
		zap.String("effort_type", effortType.ID),
		zap.String("trigger", string(trigger)),
	)

	return ProvisionCreated, nil
}

// ── helpers ──

// audit appends a trail entry. The trail is fire-and-forget from the
// provisioner's perspective: a failed append is logged, not propagated.
func (s *provisionerService) audit(ctx context.Context, entry *model.AuditEntry) {
	if err := s.repo.Audit.Create(ctx, entry); err != nil {
		s.logger.Warn("audit entry append failed",
			zap.String("action", entry.Action),
			zap.Int("term_code", entry.TermCode),
			zap.Error(err),
		)
	}
}

// snapshot serializes a row state for the audit before/after columns.
func snapshot(v interface{}) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
