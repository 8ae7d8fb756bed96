package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/service"
	"github.com/newwebie/admin-apontamentos/pkg/response"
)

// RosterHandler serves the colaboradores endpoints.
type RosterHandler struct {
	rosterSvc service.RosterService
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(rosterSvc service.RosterService) *RosterHandler {
	return &RosterHandler{rosterSvc: rosterSvc}
}

// ListRoster returns every roster row.
// GET /api/v1/roster
func (h *RosterHandler) ListRoster(c *gin.Context) {
	people, err := h.rosterSvc.List(c.Request.Context())
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, gin.H{"list": people})
}

// GetPerson returns one roster row.
// GET /api/v1/roster/:id
func (h *RosterHandler) GetPerson(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "ID do colaborador não pode ser vazio")
		return
	}

	person, err := h.rosterSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, person)
}

// CreatePerson registers a new hire through the form.
// POST /api/v1/roster
func (h *RosterHandler) CreatePerson(c *gin.Context) {
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "falha na validação dos parâmetros")
		return
	}

	person, err := h.rosterSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.Created(c, person)
}

// UpdatePerson applies the single-record update form.
// PUT /api/v1/roster/:id
func (h *RosterHandler) UpdatePerson(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "ID do colaborador não pode ser vazio")
		return
	}

	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "falha na validação dos parâmetros")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	person, err := h.rosterSvc.Update(c.Request.Context(), id, &req, actor)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, person)
}

// GetGrid opens a bulk-editing session over the roster.
// GET /api/v1/roster/grid
func (h *RosterHandler) GetGrid(c *gin.Context) {
	grid, err := h.rosterSvc.Grid(c.Request.Context())
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, grid)
}

// SubmitGrid merges the edited roster grid.
// POST /api/v1/roster/grid
func (h *RosterHandler) SubmitGrid(c *gin.Context) {
	var req dto.SubmitGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "falha na validação dos parâmetros")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.rosterSvc.SubmitGrid(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleRosterError(c, err)
		return
	}

	response.OK(c, result)
}

// handleRosterError maps roster business errors onto the envelope.
func (h *RosterHandler) handleRosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPersonNotFound):
		response.NotFound(c, 11001, service.ErrPersonNotFound.Error())
	case errors.Is(err, service.ErrDuplicateDocument):
		response.Conflict(c, 11002, service.ErrDuplicateDocument.Error())
	case errors.Is(err, service.ErrSlotFull):
		response.Conflict(c, 11003, err.Error())
	case errors.Is(err, service.ErrInvalidContract):
		response.BadRequest(c, 11004, service.ErrInvalidContract.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 11005, service.ErrInvalidStatus.Error())
	case errors.Is(err, service.ErrInvalidTerminationReason):
		response.BadRequest(c, 11006, service.ErrInvalidTerminationReason.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 11007, service.ErrInvalidDate.Error())
	case errors.Is(err, service.ErrSlotNotFound):
		response.BadRequest(c, 12001, service.ErrSlotNotFound.Error())
	default:
		handleStorageError(c, err)
	}
}
