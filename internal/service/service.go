package service

import (
	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/internal/repository"
)

// Service is the aggregate entry point for every business service.
type Service struct {
	Roster  RosterService
	Slot    SlotService
	Finding FindingService
}

// NewService wires the services over the shared repository.
func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	return &Service{
		Roster:  NewRosterService(repo, logger),
		Slot:    NewSlotService(repo, logger),
		Finding: NewFindingService(repo, logger),
	}
}
