package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/newwebie/admin-apontamentos/internal/api/middleware"
	"github.com/newwebie/admin-apontamentos/internal/storage"
	pkgerrors "github.com/newwebie/admin-apontamentos/pkg/errors"
	"github.com/newwebie/admin-apontamentos/pkg/response"
)

// MustGetActor extracts the operator name injected by the actor
// middleware. Returns false (with the response already written) when it
// is missing; callers should return immediately in that case.
func MustGetActor(c *gin.Context) (string, bool) {
	v, exists := c.Get(middleware.ActorKey)
	if !exists {
		response.BadRequest(c, 10006, "cabeçalho X-Actor obrigatório")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.BadRequest(c, 10006, "cabeçalho X-Actor obrigatório")
		return "", false
	}
	return s, true
}

// handleStorageError maps the cross-module failure modes shared by
// every workbook-backed endpoint. Returns true when it wrote a
// response.
//
//   - expired or unknown snapshot        → 409, reload the grid
//   - file still locked after every retry → 503, try again later
//   - anything else from the file host    → 502 with the cause
func handleStorageError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, pkgerrors.ErrSnapshotExpired):
		response.Conflict(c, 14001, pkgerrors.ErrSnapshotExpired.Error())
	case storage.IsLocked(err):
		response.ServiceUnavailable(c, 14002, "a planilha está aberta em outro processo, tente novamente em instantes")
	default:
		response.BadGateway(c, 14003, "falha ao acessar o repositório de planilhas", err.Error())
	}
	return true
}
