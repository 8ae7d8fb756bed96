package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/service"
	"github.com/newwebie/admin-apontamentos/pkg/response"
)

// FindingHandler serves the apontamentos triage endpoints.
type FindingHandler struct {
	findingSvc service.FindingService
}

// NewFindingHandler creates a FindingHandler.
func NewFindingHandler(findingSvc service.FindingService) *FindingHandler {
	return &FindingHandler{findingSvc: findingSvc}
}

// ListFindings returns findings filtered by ID, status and study.
// GET /api/v1/findings
func (h *FindingHandler) ListFindings(c *gin.Context) {
	var req dto.FindingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "falha na validação dos parâmetros")
		return
	}

	findings, err := h.findingSvc.List(c.Request.Context(), &req)
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, gin.H{"list": findings})
}

// GetGrid opens a bulk-editing session over the findings ledger.
// GET /api/v1/findings/grid
func (h *FindingHandler) GetGrid(c *gin.Context) {
	grid, err := h.findingSvc.Grid(c.Request.Context())
	if err != nil {
		handleStorageError(c, err)
		return
	}

	response.OK(c, grid)
}

// SubmitGrid merges the edited findings grid.
// POST /api/v1/findings/grid
func (h *FindingHandler) SubmitGrid(c *gin.Context) {
	var req dto.SubmitGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "falha na validação dos parâmetros")
		return
	}

	actor, ok := MustGetActor(c)
	if !ok {
		return
	}

	result, err := h.findingSvc.SubmitGrid(c.Request.Context(), &req, actor)
	if err != nil {
		h.handleFindingError(c, err)
		return
	}

	response.OK(c, result)
}

// GetFindingCatalog returns the option lists for the triage grid.
// GET /api/v1/catalog/findings
func (h *FindingHandler) GetFindingCatalog(c *gin.Context) {
	response.OK(c, h.findingSvc.Catalog())
}

// handleFindingError maps findings business errors onto the envelope.
func (h *FindingHandler) handleFindingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidFindingStatus):
		response.BadRequest(c, 13001, service.ErrInvalidFindingStatus.Error())
	default:
		handleStorageError(c, err)
	}
}
