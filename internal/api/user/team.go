package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/database"
	"github.com/rriley/picoCTF/internal/database/models"
	"github.com/rriley/picoCTF/internal/util"
	"go.uber.org/zap"
)

func (h *Handler) getTeamInformation(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusNotFound, "you are not on a team")
		return
	}

	team, err := database.GetTeamByID(h.db, caller.TID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	score, err := database.GetTeamScore(h.db, team.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	util.Success(c, gin.H{"team": team, "score": score}, "Team information retrieved")
}

func (h *Handler) createTeam(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID != "" {
		util.Error(c, http.StatusConflict, "you are already on a team")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	team := models.Team{
		ID:   uuid.NewString(),
		Name: req.Name,
	}
	if err := database.CreateTeam(h.db, &team); err != nil {
		util.Error(c, http.StatusConflict, "team name already taken")
		return
	}

	if err := h.assignTeam(caller.UID, team.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("user %s created team %s", caller.UID, team.Name)
	util.Success(c, team, "Team created")
}

func (h *Handler) joinTeam(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID != "" {
		util.Error(c, http.StatusConflict, "you are already on a team")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	var team models.Team
	if err := h.db.Where("name = ?", req.Name).First(&team).Error; err != nil {
		util.Error(c, http.StatusNotFound, "team not found")
		return
	}

	if err := h.assignTeam(caller.UID, team.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	zap.S().Infof("user %s joined team %s", caller.UID, team.Name)
	util.Success(c, team, "Joined team")
}

func (h *Handler) assignTeam(userID, teamID string) error {
	user, err := database.GetUserByID(h.db, userID)
	if err != nil {
		return err
	}
	user.TeamID = teamID
	return database.UpdateUser(h.db, user)
}
