package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ucdavis/VIPER-sub005/config"
	"github.com/ucdavis/VIPER-sub005/internal/model"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
	"github.com/ucdavis/VIPER-sub005/internal/term"
	pkgerrors "github.com/ucdavis/VIPER-sub005/pkg/errors"
)

// ── harvest errors ──

var (
	ErrTermNotFound       = errors.New("term does not exist")
	ErrTermNotHarvestable = errors.New("term status does not permit harvesting")
	ErrLeaseUnavailable   = errors.New("harvest lease store unavailable and require_lease is set")
)

// LeaseStore serializes harvest runs for one term across hosts.
// *redis.Client implements it; a nil store means single-host degraded mode.
type LeaseStore interface {
	AcquireHarvestLease(ctx context.Context, termCode int, runID string, ttl time.Duration) (bool, error)
	ReleaseHarvestLease(ctx context.Context, termCode int, runID string) error
}

// HarvestFailure records one person the sweep could not provision.
type HarvestFailure struct {
	PersonID int64  `json:"person_id"`
	Reason   string `json:"reason"`
}

// HarvestSummary reports the outcome tallies of one harvest run.
type HarvestSummary struct {
	RunID          string           `json:"run_id"`
	TermCode       int              `json:"term_code"`
	People         int              `json:"people"`
	Provisioned    int              `json:"provisioned"`
	AlreadyExisted int              `json:"already_existed"`
	SkippedNoType  int              `json:"skipped_no_type"`
	Failures       []HarvestFailure `json:"failures,omitempty"`
}

// HarvestService runs the per-term harvest batch: ensure every person snapshot
// in the term has a residency effort record. Per-person failures are collected
// into the summary and never abort the sweep.
type HarvestService interface {
	Run(ctx context.Context, termCode int, runBy string) (*HarvestSummary, error)
}

type harvestService struct {
	repo        *repository.Repository
	provisioner ProvisionerService
	lease       LeaseStore // may be nil
	cfg         *config.HarvestConfig
	logger      *zap.Logger
}

// NewHarvestService builds the HarvestService. lease may be nil when Redis is
// unavailable; require_lease then refuses to run.
func NewHarvestService(repo *repository.Repository, provisioner ProvisionerService, lease LeaseStore, cfg *config.HarvestConfig, logger *zap.Logger) HarvestService {
	return &harvestService{repo: repo, provisioner: provisioner, lease: lease, cfg: cfg, logger: logger}
}

func (s *harvestService) Run(ctx context.Context, termCode int, runBy string) (*HarvestSummary, error) {
	t, err := s.repo.Term.GetByCode(ctx, termCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("term lookup failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, err
	}

	if !term.CanHarvest(t.Status) {
		return nil, ErrTermNotHarvestable
	}

	runID := uuid.NewString()

	if s.lease == nil {
		if s.cfg.RequireLease {
			return nil, ErrLeaseUnavailable
		}
		s.logger.Warn("running harvest without a lease store", zap.Int("term_code", termCode))
	} else {
		ttl := time.Duration(s.cfg.LeaseTTLMinutes) * time.Minute
		ok, err := s.lease.AcquireHarvestLease(ctx, termCode, runID, ttl)
		if err != nil {
			if s.cfg.RequireLease {
				s.logger.Error("harvest lease acquire failed", zap.Int("term_code", termCode), zap.Error(err))
				return nil, err
			}
			s.logger.Warn("harvest lease acquire failed; continuing without lease",
				zap.Int("term_code", termCode), zap.Error(err))
		} else if !ok {
			return nil, pkgerrors.ErrHarvestInProgress
		} else {
			defer func() {
				if rerr := s.lease.ReleaseHarvestLease(context.WithoutCancel(ctx), termCode, runID); rerr != nil {
					s.logger.Warn("harvest lease release failed", zap.Int("term_code", termCode), zap.Error(rerr))
				}
			}()
		}
	}

	people, err := s.repo.Person.ListByTerm(ctx, termCode)
	if err != nil {
		s.logger.Error("person snapshot listing failed", zap.Int("term_code", termCode), zap.Error(err))
		return nil, err
	}

	summary := &HarvestSummary{RunID: runID, TermCode: termCode, People: len(people)}

	s.logger.Info("harvest run started",
		zap.String("run_id", runID),
		zap.Int("term_code", termCode),
		zap.Int("people", len(people)),
	)

	for _, p := range people {
		outcome, err := s.provisioner.CreateResidencyEffortRecord(ctx, p.PersonID, termCode, runBy, TriggerHarvest)
		if err != nil {
			// batch policy: skip the person, keep sweeping
			summary.Failures = append(summary.Failures, HarvestFailure{PersonID: p.PersonID, Reason: err.Error()})
			s.logger.Error("harvest provisioning failed for person",
				zap.String("run_id", runID),
				zap.Int64("person_id", p.PersonID),
				zap.Error(err),
			)
			continue
		}
		switch outcome {
		case ProvisionCreated:
			summary.Provisioned++
		case ProvisionAlreadyExists:
			summary.AlreadyExisted++
		case ProvisionSkippedNoEffortType:
			summary.SkippedNoType++
		}
	}

	// a completed sweep moves a freshly created term forward; re-harvests of
	// an already-Harvested term leave the status alone
	if t.Status == model.TermStatusCreated {
		if err := s.repo.Term.UpdateStatus(ctx, termCode, model.TermStatusHarvested); err != nil {
			s.logger.Error("term status advance failed", zap.Int("term_code", termCode), zap.Error(err))
			return summary, err
		}
	}

	s.logger.Info("harvest run finished",
		zap.String("run_id", runID),
		zap.Int("term_code", termCode),
		zap.Int("provisioned", summary.Provisioned),
		zap.Int("already_existed", summary.AlreadyExisted),
		zap.Int("skipped_no_type", summary.SkippedNoType),
		zap.Int("failures", len(summary.Failures)),
	)

	return summary, nil
}
