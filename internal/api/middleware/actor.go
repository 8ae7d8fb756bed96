package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/newwebie/admin-apontamentos/pkg/response"
)

// ActorKey is the context key carrying the operator's name.
const ActorKey = "actor"

const actorMaxLen = 120

// RequireActor extracts the operator identity from the X-Actor header.
// Every mutating route needs it: the name lands in the audit columns of
// the sheets, and a write without attribution is useless to the team
// reviewing them.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := strings.TrimSpace(c.GetHeader("X-Actor"))
		if actor == "" || len(actor) > actorMaxLen {
			response.BadRequest(c, 10006, "cabeçalho X-Actor obrigatório")
			c.Abort()
			return
		}

		c.Set(ActorKey, actor)
		c.Next()
	}
}
