package user

import (
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/config"
	"github.com/rriley/picoCTF/internal/contest"
	"gorm.io/gorm"
)

// Handler holds all dependencies for the user API handlers.
type Handler struct {
	cfg   *config.Config
	db    *gorm.DB
	svc   *contest.Service
	state *catalog.AppState
}

// NewHandler creates a new user handler with its dependencies.
func NewHandler(
	cfg *config.Config,
	db *gorm.DB,
	svc *contest.Service,
	state *catalog.AppState,
) *Handler {
	return &Handler{
		cfg:   cfg,
		db:    db,
		svc:   svc,
		state: state,
	}
}
