package service

import (
	"go.uber.org/zap"

	"github.com/ucdavis/VIPER-sub005/config"
	"github.com/ucdavis/VIPER-sub005/internal/repository"
)

// Service aggregates the business services.
type Service struct {
	Provisioner ProvisionerService
	Harvest     HarvestService
	Rollover    RolloverService
	Clinical    ClinicalService
	Effort      EffortService
	Term        TermService
}

// NewService wires the service aggregate. lease may be nil when Redis is
// running in degraded mode.
func NewService(cfg *config.Config, repo *repository.Repository, lease LeaseStore, logger *zap.Logger) *Service {
	provisioner := NewProvisionerService(repo, logger)
	return &Service{
		Provisioner: provisioner,
		Harvest:     NewHarvestService(repo, provisioner, lease, &cfg.Harvest, logger),
		Rollover:    NewRolloverService(repo, logger),
		Clinical:    NewClinicalService(repo, provisioner, logger),
		Effort:      NewEffortService(repo, provisioner, logger),
		Term:        NewTermService(repo, logger),
	}
}
