package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/config"
	"github.com/newwebie/admin-apontamentos/internal/api/handler"
	"github.com/newwebie/admin-apontamentos/internal/api/middleware"
	"github.com/newwebie/admin-apontamentos/pkg/redis"
)

// Grid submissions carry whole sheets, so the body limit is generous.
const maxBodyBytes = 8 << 20

// Setup builds the Gin engine with every route and middleware wired.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, 120, time.Minute))
	{
		// Mutations need attribution: the actor lands in the sheets'
		// audit columns.
		actor := middleware.RequireActor()

		roster := v1.Group("/roster")
		{
			roster.GET("", h.Roster.ListRoster)
			roster.GET("/grid", h.Roster.GetGrid)
			roster.POST("/grid", actor, h.Roster.SubmitGrid)
			roster.GET("/:id", h.Roster.GetPerson)
			roster.POST("", actor, h.Roster.CreatePerson)
			roster.PUT("/:id", actor, h.Roster.UpdatePerson)
		}

		slots := v1.Group("/slots")
		{
			slots.GET("", h.Slot.ListSlots)
			slots.GET("/grid", h.Slot.GetGrid)
			slots.POST("/grid", actor, h.Slot.SubmitGrid)
		}

		findings := v1.Group("/findings")
		{
			findings.GET("", h.Finding.ListFindings)
			findings.GET("/grid", h.Finding.GetGrid)
			findings.POST("/grid", actor, h.Finding.SubmitGrid)
		}

		catalog := v1.Group("/catalog")
		{
			catalog.GET("/staffing", h.Slot.GetStaffingCatalog)
			catalog.GET("/findings", h.Finding.GetFindingCatalog)
		}
	}

	return r
}
