package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/util"
)

func (h *Handler) getGameState(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you are not on a team")
		return
	}

	state, err := h.svc.GetGameState(caller.TID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, state, "Game state retrieved")
}

func (h *Handler) updateGameState(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you are not on a team")
		return
	}

	// All fields optional; absent fields are left unchanged.
	var req struct {
		Avatar  *string `json:"avatar"`
		EventID *string `json:"eventid"`
		Level   *string `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	state, err := h.svc.UpdateGameState(caller.TID, req.Avatar, req.EventID, req.Level)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, state, "Game state updated")
}
