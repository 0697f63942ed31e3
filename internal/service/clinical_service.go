package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
	"github.com/ucdavis/VIPER-sub005/internal/term"
)

// ── clinical import errors ──

var (
	ErrTermNotClinicalEligible = errors.New("term is not eligible for clinical import")
	ErrClinicalFileInvalid     = errors.New("clinical roster file could not be read")
	ErrClinicalFileEmpty       = errors.New("clinical roster contains no data rows")
)

// ClinicalRowError records one roster row that could not be imported.
// Row numbers are 1-based as shown in the spreadsheet.
type ClinicalRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ClinicalSummary reports the outcome tallies of one clinical import.
type ClinicalSummary struct {
	TermCode        int                `json:"term_code"`
	Rows            int                `json:"rows"`
	Created         int                `json:"created"`
	SkippedExisting int                `json:"skipped_existing"`
	RowErrors       []ClinicalRowError `json:"row_errors,omitempty"`
}

// ClinicalService imports clinical effort rosters (.xlsx) into semester terms.
// Roster layout: a header row, then person_id | crn | effort_type | amount.
// Row-level problems accumulate in the summary; only term gating and
// infrastructure failures abort the import.
type ClinicalService interface {
	ImportFile(ctx context.Context, termCode int, path string, runBy string) (*ClinicalSummary, error)
	Import(ctx context.Context, termCode int, r io.Reader, runBy string) (*ClinicalSummary, error)
}

type clinicalService struct {
	repo        *repository.Repository
	provisioner ProvisionerService
	logger      *zap.Logger
}

// NewClinicalService builds the ClinicalService. The provisioner resolves the
// RESID placeholder for roster rows that carry no crn.
func NewClinicalService(repo *repository.Repository, provisioner ProvisionerService, logger *zap.Logger) ClinicalService {
	return &clinicalService{repo: repo, provisioner: provisioner, logger: logger}
}

func (s *clinicalService) ImportFile(ctx context.Context, termCode int, path string, runBy string) (*ClinicalSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, termCode, f, runBy)
}

func (s *clinicalService) Import(ctx context.Context, termCode int, r io.Reader, runBy string) (*ClinicalSummary, error) {
	t, err := s.repo.Term.GetByCode(ctx, termCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("term lookup failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, err
	}

	// clinical effort only applies to semester-calendar terms
	if !term.CanImportClinical(t.Status, termCode) {
		return nil, ErrTermNotClinicalEligible
	}

	book, err := excelize.OpenReader(r)
	if err != nil {
		s.logger.Error("roster parse failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, ErrClinicalFileInvalid
	}
	defer book.Close()

	sheet := book.GetSheetName(0)
	rows, err := book.GetRows(sheet)
	if err != nil {
		s.logger.Error("roster sheet read failed", zap.String("sheet", sheet), zap.Error(err))
		return nil, ErrClinicalFileInvalid
	}
	if len(rows) <= 1 {
		return nil, ErrClinicalFileEmpty
	}

	summary := &ClinicalSummary{TermCode: termCode, Rows: len(rows) - 1}

	for i, row := range rows[1:] { // skip header
		rowNum := i + 2
		if err := s.importRow(ctx, termCode, row, runBy, summary); err != nil {
			summary.RowErrors = append(summary.RowErrors, ClinicalRowError{Row: rowNum, Reason: err.Error()})
		}
	}

	s.logger.Info("clinical import finished",
		zap.Int("term_code", termCode),
		zap.Int("rows", summary.Rows),
		zap.Int("created", summary.Created),
		zap.Int("skipped_existing", summary.SkippedExisting),
		zap.Int("row_errors", len(summary.RowErrors)),
	)

	return summary, nil
}

// importRow validates and persists a single roster row.
func (s *clinicalService) importRow(ctx context.Context, termCode int, row []string, runBy string, summary *ClinicalSummary) error {
	if len(row) < 4 {
		return errors.New("expected columns person_id, crn, effort_type, amount")
	}

	personID, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid person_id %q", row[0])
	}

	// a blank crn means the effort belongs on the residency placeholder
	crn := strings.TrimSpace(row[1])
	var course *model.Course
	if crn == "" {
		course, _, err = s.provisioner.GetOrCreateGenericResidencyCourse(ctx, termCode)
		if err != nil {
			return err
		}
	} else {
		course, err = s.repo.Course.GetByTermAndCRN(ctx, termCode, crn)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("no course with crn %q in term %d", crn, termCode)
			}
			return err
		}
	}

	typeID := strings.TrimSpace(row[2])
	effortType, err := s.repo.EffortType.GetByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("unknown effort type %q", typeID)
		}
		return err
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil || amount < 0 {
		return fmt.Errorf("invalid amount %q", row[3])
	}

	record := &model.EffortRecord{
		PersonID:     personID,
		TermCode:     termCode,
		CourseID:     course.ID,
		EffortTypeID: effortType.ID,
		RoleID:       model.RoleInstructorOfRecord,
		CRN:          course.CRN,
		ModifiedBy:   runBy,
	}
	if effortType.UsesWeeks {
		weeks := int(amount)
		if float64(weeks) != amount || weeks <= 0 {
			return fmt.Errorf("effort type %q records weeks; amount must be a positive whole number", typeID)
		}
		record.SetWeeks(weeks)
	} else {
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("invalid amount %q", row[3])
		}
		record.SetHours(amount)
	}

	if err := s.repo.EffortRecord.Create(ctx, record); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			summary.SkippedExisting++
			return nil
		}
		return err
	}

	summary.Created++
	return nil
}
