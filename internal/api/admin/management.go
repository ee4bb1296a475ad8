package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/util"
	"go.uber.org/zap"
)

// getAllProblems returns every problem including hidden ones. Secrets stay
// out of the payload: Problem marshals flag fields with json:"-".
func (h *Handler) getAllProblems(c *gin.Context) {
	util.Success(c, h.state.Current().All(), "Problems retrieved")
}

// reloadCatalog re-reads the problem directories from disk and swaps the
// new catalog in. A load error (including a prerequisite cycle) leaves the
// running catalog untouched.
func (h *Handler) reloadCatalog(c *gin.Context) {
	cat, err := catalog.Load(h.cfg.Storage.ProblemsRoot)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	h.state.Swap(cat)
	zap.S().Infof("admin reloaded catalog: %d problems", cat.Len())
	util.Success(c, gin.H{"problems": cat.Len()}, "Catalog reloaded")
}

func (h *Handler) getAllUsers(c *gin.Context) {
	users, err := database.GetAllUsers(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, users, "Users retrieved")
}

func (h *Handler) updateUserRoles(c *gin.Context) {
	userID := c.Param("id")

	var req struct {
		IsAdmin   *bool `json:"is_admin"`
		IsTeacher *bool `json:"is_teacher"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		util.Error(c, http.StatusNotFound, err)
		return
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.IsTeacher != nil {
		user.IsTeacher = *req.IsTeacher
	}
	if err := database.UpdateUser(h.db, user); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, user, "User roles updated")
}

func (h *Handler) getAllTeams(c *gin.Context) {
	teams, err := database.GetAllTeams(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, teams, "Teams retrieved")
}

func (h *Handler) getLedger(c *gin.Context) {
	events, err := database.GetAllEventsByTime(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, events, "Ledger retrieved")
}

func (h *Handler) getLedgerForTeamProblem(c *gin.Context) {
	events, err := database.GetEventsForTeamProblem(h.db, c.Param("tid"), c.Param("pid"))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, events, "Ledger retrieved")
}
