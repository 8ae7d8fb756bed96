package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/service"
	"github.com/newwebie/admin-apontamentos/pkg/response"
)

// SlotHandler serves the slot ledger and the staffing catalog.
type SlotHandler struct {
	slotSvc service.SlotService
}

// NewSlotHandler creates a SlotHandler.
func NewSlotHandler(slotSvc service.SlotService) *SlotHandler {
	return &SlotHandler{slotSvc: slotSvc}
}

// ListSlots returns the slot ledger with reconciled occupancy.
// GET /api/v1/slots
func (h *SlotHandler) ListSlots(c *gin.Context) {
	slots, err := h.slotSvc.List(c.Request.Context())
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// GetGrid opens a bulk-editing session over the slot ledger.
// GET /api/v1/slots/grid
func (h *SlotHandler) GetGrid(c *gin.Context) {
	grid, err := h.slotSvc.Grid(c.Request.Context())
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, grid)
}

// SubmitGrid merges the edited slot ledger.
// POST /api/v1/slots/grid
func (h *SlotHandler) SubmitGrid(c *gin.Context) {
	var req dto.SubmitGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "falha na validação dos parâmetros")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.slotSvc.SubmitGrid(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleSlotError(c, err)
		return
	}

	response.OK(c, result)
}

// GetStaffingCatalog returns the option lists for the forms.
// GET /api/v1/catalog/staffing
func (h *SlotHandler) GetStaffingCatalog(c *gin.Context) {
	catalog, err := h.slotSvc.Catalog(c.Request.Context())
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, catalog)
}

// handleSlotError maps slot ledger business errors onto the envelope.
func (h *SlotHandler) handleSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 12001, service.ErrSlotNotFound.Error())
	case errors.Is(err, service.ErrSlotOccupied):
		response.Conflict(c, 12002, service.ErrSlotOccupied.Error())
	case errors.Is(err, service.ErrInvalidCapacity):
		response.BadRequest(c, 12003, service.ErrInvalidCapacity.Error())
	default:
		handleStorageError(c, err)
	}
}
