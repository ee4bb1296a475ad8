package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rriley/picoCTF/internal/api"
	"github.com/rriley/picoCTF/internal/catalog"
	"github.com/rriley/picoCTF/internal/contest"
	"github.com/rriley/picoCTF/internal/util"
)

func (h *Handler) getCompetition(c *gin.Context) {
	window := h.svc.Window()
	util.Success(c, gin.H{
		"name":      h.cfg.Competition.Name,
		"starttime": window.Start,
		"endtime":   window.End,
		"open":      window.IsOpen(time.Now()),
	}, "Competition info retrieved")
}

func (h *Handler) getUnlockedProblems(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you must be on a team to view problems")
		return
	}
	if err := h.svc.Window().Check(time.Now()); err != nil {
		util.Error(c, http.StatusForbidden, err)
		return
	}

	problems, err := h.svc.VisibleProblems(caller.TID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if problems == nil {
		problems = []*catalog.Problem{}
	}
	util.Success(c, problems, "Problems retrieved")
}

func (h *Handler) getSolvedProblems(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you must be on a team to view problems")
		return
	}
	if err := h.svc.Window().Check(time.Now()); err != nil {
		util.Error(c, http.StatusForbidden, err)
		return
	}

	problems, err := h.svc.SolvedProblems(caller.TID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	if problems == nil {
		problems = []*catalog.Problem{}
	}
	util.Success(c, problems, "Solved problems retrieved")
}

func (h *Handler) getProblem(c *gin.Context) {
	caller := api.GetCaller(c)
	problemID := c.Param("id")

	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you must be on a team to view problems")
		return
	}

	p, err := h.svc.Problem(caller.TID, problemID)
	if err != nil {
		// Locked and unknown problems are indistinguishable on purpose.
		if errors.Is(err, catalog.ErrProblemNotFound) || errors.Is(err, contest.ErrProblemLocked) {
			util.Error(c, http.StatusNotFound, "problem not found")
			return
		}
		util.Error(c, http.StatusInternalServerError, err)
		return
	}
	util.Success(c, p, "Problem retrieved")
}

func (h *Handler) submitKey(c *gin.Context) {
	caller := api.GetCaller(c)
	if caller.TID == "" {
		util.Error(c, http.StatusForbidden, "you must be on a team to submit")
		return
	}

	var req struct {
		PID string `json:"pid" binding:"required"`
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, err)
		return
	}

	result, err := h.svc.SubmitKey(c.Request.Context(), caller.TID, req.PID, req.Key, caller.UID, c.ClientIP(), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProblemNotFound):
			util.Error(c, http.StatusNotFound, err)
		case errors.Is(err, contest.ErrLockTimeout):
			util.Error(c, http.StatusServiceUnavailable, "submission contention, please retry")
		default:
			util.Error(c, http.StatusInternalServerError, "failed to process submission")
		}
		return
	}

	util.Success(c, result, result.Message)
}
