package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/config"
	"github.com/rriley/picoCTF/internal/contest"
	"gorm.io/gorm"
)

// NewAdminRouter creates and configures the admin Gin engine. It listens on
// its own address and every route requires an admin caller.
func NewAdminRouter(
	cfg *config.Config,
	db *gorm.DB,
	svc *contest.Service,
	state *catalog.AppState) *gin.Engine {

	r := gin.Default()

	r.Use(api.CORSMiddleware(cfg.CORS))

	h := NewHandler(cfg, db, svc, state)

	v1 := r.Group("/api/v1")
	v1.Use(api.AuthMiddleware(db, cfg.Auth.JWT.Secret), api.RequireAdmin())
	{
		// Catalog management
		v1.GET("/problems", h.getAllProblems)
		v1.POST("/reload", h.reloadCatalog)

		// User & team management
		v1.GET("/users", h.getAllUsers)
		v1.PATCH("/users/:id/roles", h.updateUserRoles)
		v1.GET("/teams", h.getAllTeams)

		// Ledger
		v1.GET("/ledger", h.getLedger)
		v1.GET("/ledger/:tid/:pid", h.getLedgerForTeamProblem)
	}

	return r
}
