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

func (h *Handler) getGroupList(c *gin.Context) {
	groups, err := database.GetAllGroups(h.db)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, groups, "Groups retrieved")
}

func (h *Handler) getGroup(c *gin.Context) {
	name := c.Query("group-name")
	if name == "" {
		util.Error(c, http.StatusBadRequest, "group-name is required")
		return
	}

	group, err := database.GetGroupByName(h.db, name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, group, "Group retrieved")
}

func (h *Handler) createGroup(c *gin.Context) {
	caller := api.GetCaller(c)

	var req struct {
		Name string `json:"group-name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	group := models.Group{
		ID:      uuid.NewString(),
		Name:    req.Name,
		OwnerID: caller.UID,
	}
	if err := database.CreateGroup(h.db, &group); err != nil {
		util.Error(c, http.StatusConflict, "group name already taken")
		return
	}

	zap.S().Infof("teacher %s created group %s", caller.UID, group.Name)
	util.Success(c, gin.H{"gid": group.ID}, "Successfully created group")
}

func (h *Handler) joinGroup(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you must be on a team to join a group")
		return
	}

	var req struct {
		Name string `json:"group-name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	group, err := database.GetGroupByName(h.db, req.Name)
	if err != nil {
		util.Error(c, http.StatusNotFound, "group not found")
		return
	}

	if err := database.AddTeamToGroup(h.db, group.ID, caller.TID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, nil, "Successfully joined group")
}

func (h *Handler) leaveGroup(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you are not on a team")
		return
	}

	var req struct {
		Name string `json:"group-name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	group, err := database.GetGroupByName(h.db, req.Name)
	if err != nil {
		util.Error(c, http.StatusNotFound, "group not found")
		return
	}

	if err := database.RemoveTeamFromGroup(h.db, group.ID, caller.TID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, nil, "Successfully left group")
}

func (h *Handler) deleteGroup(c *gin.Context) {
	caller := api.GetCaller(c)

	var req struct {
		Name string `json:"group-name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	group, err := database.GetGroupByName(h.db, req.Name)
	if err != nil {
		util.Error(c, http.StatusNotFound, "group not found")
		return
	}
	if group.OwnerID != caller.UID && !caller.IsAdmin {
		util.Error(c, http.StatusForbidden, "only the group owner can delete it")
		return
	}

	if err := database.DeleteGroup(h.db, group.ID); err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, nil, "Successfully deleted group")
}

func (h *Handler) getGroupScore(c *gin.Context) {
	name := c.Query("group-name")
	if name == "" {
		util.Error(c, http.StatusBadRequest, "group-name is required")
		return
	}

	score, err := h.svc.GroupScore(name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, gin.H{"score": score}, "Group score retrieved")
}

func (h *Handler) getGroupMemberInformation(c *gin.Context) {
	groupID := c.Query("gid")
	if groupID == "" {
		util.Error(c, http.StatusBadRequest, "gid is required")
		return
	}

	group, err := database.GetGroupByID(h.db, groupID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			util.Error(c, http.StatusNotFound, err)
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}

	type memberInfo struct {
		Team   models.Team `json:"team"`
		Score  int         `json:"score"`
		Solves int         `json:"solves"`
	}
	members := make([]memberInfo, 0, len(group.Teams))
	for _, team := range group.Teams {
		score, err := database.GetTeamScore(h.db, team.ID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, err)
			return
		}
		credits, err := database.GetCreditsForTeam(h.db, team.ID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, err)
			return
		}
		members = append(members, memberInfo{Team: team, Score: score, Solves: len(credits)})
	}
	util.Success(c, members, "Member information retrieved")
}
