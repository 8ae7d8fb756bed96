package handler

import "github.com/newwebie/admin-apontamentos/internal/service"

// Handler is the aggregate entry point for every HTTP handler.
type Handler struct {
	Roster  *RosterHandler
	Slot    *SlotHandler
	Finding *FindingHandler
}

// NewHandler wires the handlers over the service aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Roster:  NewRosterHandler(svc.Roster),
		Slot:    NewSlotHandler(svc.Slot),
		Finding: NewFindingHandler(svc.Finding),
	}
}
